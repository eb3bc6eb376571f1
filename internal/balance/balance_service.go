package balance

import (
	"context"
	"database/sql"
	"errors"

	balanceerrors "go-leaves/internal/balance/errors"
	"go-leaves/internal/leavetype"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=balance_service.go -destination=mock/balance_service_mock.go -package=mock
type Service interface {
	// WithTx returns a Service whose writes join tx.
	WithTx(tx *sql.Tx) Service
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	CreditUsage(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, year int) error
	ListAllBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)
}

type service struct {
	repo       Repository
	leaveTypes leavetype.Repository
	logger     *zap.Logger
}

func NewService(repo Repository, leaveTypes leavetype.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("balance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("balance.service")
	}
	return &service{repo: repo, leaveTypes: leaveTypes, logger: l}
}

func (s *service) WithTx(tx *sql.Tx) Service {
	return &service{repo: s.repo.WithTx(tx), leaveTypes: s.leaveTypes, logger: s.logger}
}

// GetBalance returns the stored row, creating it from the leave type's
// current allocation on first read. Later allocation changes do not touch
// rows that already exist.
func (s *service) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return Balance{}, balanceerrors.ErrInvalidEmployeeID
	}
	if _, err := uuid.Parse(leaveTypeID); err != nil {
		return Balance{}, balanceerrors.ErrInvalidLeaveTypeID
	}
	if year < 1 {
		return Balance{}, balanceerrors.ErrInvalidYear
	}

	b, err := s.repo.Find(ctx, employeeID, leaveTypeID, year)
	if err == nil {
		return *b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return Balance{}, err
	}

	lt, err := s.leaveTypes.FindByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Balance{}, balanceerrors.ErrLeaveTypeNotFound
		}
		return Balance{}, err
	}

	fresh := &Balance{
		ID:          uuid.New(),
		EmployeeID:  uuid.MustParse(employeeID),
		LeaveTypeID: lt.ID,
		Year:        year,
		Allocated:   lt.YearlyAllocation,
		Used:        decimal.Zero,
		Remaining:   lt.YearlyAllocation,
	}
	if err := s.repo.InitIfMissing(ctx, fresh); err != nil {
		s.logger.Error("init balance persist failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Int("year", year),
			zap.Error(err),
		)
		return Balance{}, err
	}
	s.logger.Debug("balance initialised",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.String("allocated", lt.YearlyAllocation.String()),
	)

	// Re-read so a row inserted concurrently by someone else wins.
	b, err = s.repo.Find(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return Balance{}, err
	}
	return *b, nil
}

// CreditUsage adds days to used. It does not guard against being called twice;
// the workflow calls it once per approved request and leave type.
func (s *service) CreditUsage(ctx context.Context, employeeID, leaveTypeID string, days decimal.Decimal, year int) error {
	if _, err := s.GetBalance(ctx, employeeID, leaveTypeID, year); err != nil {
		return err
	}

	affected, err := s.repo.AddUsage(ctx, employeeID, leaveTypeID, year, days)
	if err != nil {
		s.logger.Error("credit usage persist failed",
			zap.String("employee_id", employeeID),
			zap.String("leave_type_id", leaveTypeID),
			zap.Error(err),
		)
		return err
	}
	if affected == 0 {
		return balanceerrors.ErrBalanceNotFound
	}

	s.logger.Info("credit usage success",
		zap.String("employee_id", employeeID),
		zap.String("leave_type_id", leaveTypeID),
		zap.Int("year", year),
		zap.String("days", days.String()),
	)
	return nil
}

// ListAllBalances returns one row per active leave type, ordered by type name.
func (s *service) ListAllBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, balanceerrors.ErrInvalidEmployeeID
	}

	types, err := s.leaveTypes.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]BalanceResponse, 0, len(types))
	for _, lt := range types {
		b, err := s.GetBalance(ctx, employeeID, lt.ID.String(), year)
		if err != nil {
			return nil, err
		}
		resp = append(resp, BalanceResponse{
			EmployeeID:    employeeID,
			LeaveTypeID:   lt.ID.String(),
			LeaveTypeName: lt.Name,
			Year:          b.Year,
			Allocated:     b.Allocated,
			Used:          b.Used,
			Remaining:     b.Remaining,
		})
	}
	return resp, nil
}
