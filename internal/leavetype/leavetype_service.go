package leavetype

import (
	"context"
	"errors"

	leavetypeerrors "go-leaves/internal/leavetype/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leavetype_service.go -destination=mock/leavetype_service_mock.go -package=mock
type Service interface {
	ListActive(ctx context.Context) ([]LeaveTypeResponse, error)
	ListAll(ctx context.Context) ([]LeaveTypeResponse, error)
	GetByID(ctx context.Context, id string) (LeaveTypeResponse, error)
	Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("leavetype.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leavetype.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) ListActive(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) ListAll(ctx context.Context) ([]LeaveTypeResponse, error) {
	types, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(types), nil
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	lt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
		}
		return LeaveTypeResponse{}, err
	}
	return mapToResponse(*lt), nil
}

// Update changes the allocation used for future lazy balance initialisation.
// Balances that already exist keep their allocation.
func (s *service) Update(ctx context.Context, id string, req UpdateLeaveTypeRequest) (LeaveTypeResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveTypeResponse{}, leavetypeerrors.ErrInvalidLeaveTypeID
	}
	if req.YearlyAllocation.IsNegative() {
		return LeaveTypeResponse{}, leavetypeerrors.ErrNegativeAllocation
	}
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	affected, err := s.repo.UpdateSettings(ctx, id, req.YearlyAllocation, active)
	if err != nil {
		s.logger.Error("update leave type persist failed", zap.String("leave_type_id", id), zap.Error(err))
		return LeaveTypeResponse{}, err
	}
	if affected == 0 {
		return LeaveTypeResponse{}, leavetypeerrors.ErrLeaveTypeNotFound
	}

	s.logger.Info("update leave type success",
		zap.String("leave_type_id", id),
		zap.String("yearly_allocation", req.YearlyAllocation.String()),
		zap.Bool("active", active),
	)
	return s.GetByID(ctx, id)
}

func mapToResponse(lt LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:               lt.ID.String(),
		Name:             lt.Name,
		YearlyAllocation: lt.YearlyAllocation,
		Active:           lt.Active,
	}
}

func mapToListResponse(types []LeaveType) []LeaveTypeResponse {
	resp := make([]LeaveTypeResponse, len(types))
	for i, lt := range types {
		resp[i] = mapToResponse(lt)
	}
	return resp
}
