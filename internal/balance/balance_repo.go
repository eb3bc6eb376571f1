package balance

import (
	"context"
	"database/sql"

	"go-leaves/internal/shared/connection"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=balance_repo.go -destination=mock/balance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*Balance, error)
	InitIfMissing(ctx context.Context, b *Balance) error
	AddUsage(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Find(ctx context.Context, employeeID, leaveTypeID string, year int) (*Balance, error) {
	var b Balance
	err := r.db.WithContext(ctx).
		Where("employee_id = ? AND leave_type_id = ? AND year = ?", employeeID, leaveTypeID, year).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// InitIfMissing inserts b unless a row for the same key already exists, so
// concurrent lazy initialisations end with exactly one row.
func (r *repository) InitIfMissing(ctx context.Context, b *Balance) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
			DoNothing: true,
		}).
		Create(b).Error
}

// AddUsage is a single statement so remaining can never drift from
// allocated - used.
func (r *repository) AddUsage(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE leave_balances
		SET used = used + ?, remaining = allocated - (used + ?), updated_at = NOW()
		WHERE employee_id = ? AND leave_type_id = ? AND year = ?`,
		days, days, employeeID, leaveTypeID, year,
	)
	return res.RowsAffected, res.Error
}
