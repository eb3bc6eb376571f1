package leave

import (
	"context"
	"database/sql"
	"time"

	"go-leaves/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedPageSizes = map[int]bool{10: true, 20: true, 50: true, 100: true}

const defaultPageSize = 20

// ListFilter narrows the admin listing. Zero values mean "no filter".
type ListFilter struct {
	Status      string
	Year        int
	LeaveTypeID string
	Search      string
	Page        int
	PageSize    int
}

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if !allowedPageSizes[f.PageSize] {
		f.PageSize = defaultPageSize
	}
	return f
}

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, req *LeaveRequest) error
	CreateDates(ctx context.Context, dates []LeaveDate) error
	CreateLog(ctx context.Context, log *LeaveLog) error
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	// TransitionStatus moves a pending request to status and reports how
	// many rows changed. Zero means the request was no longer pending.
	TransitionStatus(ctx context.Context, id, status string, actor Actor, at time.Time) (int64, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
	ListLogs(ctx context.Context, requestID string) ([]LeaveLog, error)
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

func (r *repository) Create(ctx context.Context, req *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Dates").Create(req).Error
}

func (r *repository) CreateDates(ctx context.Context, dates []LeaveDate) error {
	if len(dates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&dates).Error
}

func (r *repository) CreateLog(ctx context.Context, log *LeaveLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var req LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Dates", func(db *gorm.DB) *gorm.DB {
			return db.Order("leave_date ASC")
		}).
		First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) TransitionStatus(ctx context.Context, id, status string, actor Actor, at time.Time) (int64, error) {
	channel := actor.Channel
	updates := map[string]interface{}{
		"status":           status,
		"approval_channel": channel,
		"approved_at":      at,
		"updated_at":       at,
	}
	if actor.UserID != nil {
		updates["approved_by"] = *actor.UserID
	} else {
		updates["approved_by"] = nil
	}

	res := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error) {
	var reqs []LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Dates", func(db *gorm.DB) *gorm.DB {
			return db.Order("leave_date ASC")
		}).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC").
		Find(&reqs).Error
	return reqs, err
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error) {
	filter = filter.normalized()

	q := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Joins("JOIN users u ON u.id = leave_requests.employee_id")

	if filter.Status != "" {
		q = q.Where("leave_requests.status = ?", filter.Status)
	}
	if filter.Year > 0 {
		q = q.Where("EXTRACT(YEAR FROM leave_requests.created_at) = ?", filter.Year)
	}
	if filter.LeaveTypeID != "" {
		if _, err := uuid.Parse(filter.LeaveTypeID); err == nil {
			q = q.Where(
				"EXISTS (SELECT 1 FROM leave_dates d WHERE d.request_id = leave_requests.id AND d.leave_type_id = ?)",
				filter.LeaveTypeID,
			)
		}
	}
	if filter.Search != "" {
		like := connection.ContainsPattern(filter.Search)
		q = q.Where(
			`(u.name ILIKE ? ESCAPE '\' OR u.email ILIKE ? ESCAPE '\' OR leave_requests.employee_code ILIKE ? ESCAPE '\')`,
			like, like, like,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reqs []LeaveRequest
	err := q.
		Select("leave_requests.*").
		Preload("Dates", func(db *gorm.DB) *gorm.DB {
			return db.Order("leave_date ASC")
		}).
		Order("leave_requests.created_at DESC").
		Limit(filter.PageSize).
		Offset((filter.Page - 1) * filter.PageSize).
		Find(&reqs).Error
	if err != nil {
		return nil, 0, err
	}
	return reqs, total, nil
}

func (r *repository) ListLogs(ctx context.Context, requestID string) ([]LeaveLog, error) {
	var logs []LeaveLog
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
