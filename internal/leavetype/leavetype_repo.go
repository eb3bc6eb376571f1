package leavetype

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_repo.go -destination=mock/leavetype_repo_mock.go -package=mock
type Repository interface {
	FindByID(ctx context.Context, id string) (*LeaveType, error)
	FindByIDs(ctx context.Context, ids []string) ([]LeaveType, error)
	ListActive(ctx context.Context) ([]LeaveType, error)
	ListAll(ctx context.Context) ([]LeaveType, error)
	UpdateSettings(ctx context.Context, id string, allocation decimal.Decimal, active bool) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveType, error) {
	var lt LeaveType
	err := r.db.WithContext(ctx).First(&lt, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lt, nil
}

func (r *repository) FindByIDs(ctx context.Context, ids []string) ([]LeaveType, error) {
	var types []LeaveType
	if len(ids) == 0 {
		return types, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) ListActive(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) ListAll(ctx context.Context) ([]LeaveType, error) {
	var types []LeaveType
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&types).Error
	return types, err
}

func (r *repository) UpdateSettings(ctx context.Context, id string, allocation decimal.Decimal, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&LeaveType{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"yearly_allocation": allocation,
			"active":            active,
			"updated_at":        gorm.Expr("NOW()"),
		})
	return res.RowsAffected, res.Error
}
