package leave

import (
	"context"
	"errors"
	"time"

	leaveerrors "go-leaves/internal/leave/errors"
	"go-leaves/internal/leavetype"
	"go-leaves/internal/user"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeDirectory resolves the submitting employee's name and email.
type EmployeeDirectory interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type DetailDate struct {
	Date          time.Time
	LeaveTypeID   uuid.UUID
	LeaveTypeName string
}

// RequestDetail is a request joined with its employee and leave type names.
type RequestDetail struct {
	Request       LeaveRequest
	EmployeeName  string
	EmployeeEmail string
	Dates         []DetailDate
}

// TypeNames lists the distinct leave type names in date order.
func (d RequestDetail) TypeNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, dd := range d.Dates {
		if seen[dd.LeaveTypeName] {
			continue
		}
		seen[dd.LeaveTypeName] = true
		names = append(names, dd.LeaveTypeName)
	}
	return names
}

type DetailReader interface {
	GetDetail(ctx context.Context, requestID string) (RequestDetail, error)
}

type detailReader struct {
	repo       Repository
	leaveTypes leavetype.Repository
	employees  EmployeeDirectory
}

func NewDetailReader(repo Repository, leaveTypes leavetype.Repository, employees EmployeeDirectory) DetailReader {
	return &detailReader{repo: repo, leaveTypes: leaveTypes, employees: employees}
}

func (r *detailReader) GetDetail(ctx context.Context, requestID string) (RequestDetail, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return RequestDetail{}, leaveerrors.ErrInvalidLeaveID
	}
	req, err := r.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestDetail{}, leaveerrors.ErrLeaveNotFound
		}
		return RequestDetail{}, err
	}
	details, err := r.enrich(ctx, []LeaveRequest{*req})
	if err != nil {
		return RequestDetail{}, err
	}
	return details[0], nil
}

// enrich resolves type names and employees for a batch with one type
// lookup and one user lookup per distinct employee.
func (r *detailReader) enrich(ctx context.Context, reqs []LeaveRequest) ([]RequestDetail, error) {
	typeIDs := make([]string, 0)
	seenTypes := make(map[uuid.UUID]bool)
	for _, req := range reqs {
		for _, d := range req.Dates {
			if !seenTypes[d.LeaveTypeID] {
				seenTypes[d.LeaveTypeID] = true
				typeIDs = append(typeIDs, d.LeaveTypeID.String())
			}
		}
	}

	names := make(map[uuid.UUID]string, len(typeIDs))
	if len(typeIDs) > 0 {
		types, err := r.leaveTypes.FindByIDs(ctx, typeIDs)
		if err != nil {
			return nil, err
		}
		for _, lt := range types {
			names[lt.ID] = lt.Name
		}
	}

	employees := make(map[uuid.UUID]*user.User)
	out := make([]RequestDetail, 0, len(reqs))
	for _, req := range reqs {
		emp, ok := employees[req.EmployeeID]
		if !ok {
			u, err := r.employees.FindByID(ctx, req.EmployeeID.String())
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
			emp = u
			employees[req.EmployeeID] = u
		}

		d := RequestDetail{Request: req}
		if emp != nil {
			d.EmployeeName = emp.Name
			d.EmployeeEmail = emp.Email
		}
		for _, ld := range req.Dates {
			d.Dates = append(d.Dates, DetailDate{
				Date:          ld.LeaveDate,
				LeaveTypeID:   ld.LeaveTypeID,
				LeaveTypeName: names[ld.LeaveTypeID],
			})
		}
		out = append(out, d)
	}
	return out, nil
}
