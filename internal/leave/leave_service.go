package leave

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"time"

	"go-leaves/internal/balance"
	leaveerrors "go-leaves/internal/leave/errors"
	"go-leaves/internal/leavetype"
	"go-leaves/internal/shared/emaillist"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateLayout = "2006-01-02"

	SubmitSuccessMessage = "Leave request submitted successfully!"
)

var logDetails = map[string]string{
	LogSubmitted: "Leave request submitted",
	LogApproved:  "Leave request approved by HR",
	LogRejected:  "Leave request rejected by HR",
}

// Notifier delivers the emails that follow a committed transition.
type Notifier interface {
	NotifySubmitted(ctx context.Context, requestID string) error
	NotifyDecided(ctx context.Context, requestID string, action Action) error
}

// ContactRecorder remembers the manager and reliever addresses an employee used.
type ContactRecorder interface {
	RecordSubmission(ctx context.Context, userID, managerEmails, relieverEmails string) error
}

// Guard runs inside the decision transaction, after the pending check and
// before the status change. A non-nil error aborts the decision.
type Guard func(ctx context.Context, tx *sql.Tx, req *LeaveRequest) error

type Decision struct {
	RequestID string
	Action    Action
	Actor     Actor
	Guard     Guard
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (SubmitResponse, error)
	Approve(ctx context.Context, requestID string, actor Actor) (LeaveResponse, error)
	Reject(ctx context.Context, requestID string, actor Actor) (LeaveResponse, error)
	Decide(ctx context.Context, d Decision) (LeaveResponse, error)
	GetByID(ctx context.Context, id string) (LeaveResponse, error)
	GetDetail(ctx context.Context, id string) (RequestDetail, error)
	ListMine(ctx context.Context, employeeID string) ([]LeaveResponse, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveResponse, int64, error)
	ListLogs(ctx context.Context, requestID string) ([]LeaveLogResponse, error)
}

type Dependencies struct {
	DB         *sql.DB
	Repo       Repository
	LeaveTypes leavetype.Repository
	Employees  EmployeeDirectory
	Balances   balance.Service
	Notifier   Notifier
	Contacts   ContactRecorder
	Clock      func() time.Time
}

type service struct {
	db         *sql.DB
	repo       Repository
	leaveTypes leavetype.Repository
	balances   balance.Service
	details    *detailReader
	notifier   Notifier
	contacts   ContactRecorder
	now        func() time.Time
	logger     *zap.Logger
}

func NewService(deps Dependencies, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	now := deps.Clock
	if now == nil {
		now = time.Now
	}
	return &service{
		db:         deps.DB,
		repo:       deps.Repo,
		leaveTypes: deps.LeaveTypes,
		balances:   deps.Balances,
		details:    &detailReader{repo: deps.Repo, leaveTypes: deps.LeaveTypes, employees: deps.Employees},
		notifier:   deps.Notifier,
		contacts:   deps.Contacts,
		now:        now,
		logger:     l,
	}
}

type parsedDate struct {
	date        time.Time
	leaveTypeID uuid.UUID
}

type submission struct {
	employeeID     uuid.UUID
	employeeCode   string
	managerEmails  string
	relieverEmails string
	reason         string
	dates          []parsedDate
	types          map[uuid.UUID]leavetype.LeaveType
}

// validate checks everything that does not need a balance row. Nothing is
// written until it passes.
func (s *service) validate(ctx context.Context, employeeID string, req SubmitLeaveRequest) (submission, error) {
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return submission{}, leaveerrors.ErrInvalidEmployeeID
	}

	sub := submission{
		employeeID:   empID,
		employeeCode: strings.TrimSpace(req.EmployeeCode),
		reason:       strings.TrimSpace(req.Reason),
	}
	if sub.employeeCode == "" {
		return submission{}, leaveerrors.ErrEmployeeCodeRequired
	}
	if len(req.Dates) == 0 {
		return submission{}, leaveerrors.ErrDatesRequired
	}

	managers, bad, ok := emaillist.Normalize(req.ManagerEmails)
	if !ok {
		return submission{}, leaveerrors.InvalidEmails("manager_emails", bad)
	}
	relievers, bad, ok := emaillist.Normalize(req.RelieverEmails)
	if !ok {
		return submission{}, leaveerrors.InvalidEmails("reliever_emails", bad)
	}
	sub.managerEmails = managers
	sub.relieverEmails = relievers

	seen := make(map[string]bool, len(req.Dates))
	typeIDs := make([]string, 0)
	seenTypes := make(map[string]bool)
	for _, in := range req.Dates {
		raw := strings.TrimSpace(in.Date)
		if raw == "" || strings.TrimSpace(in.LeaveTypeID) == "" {
			return submission{}, leaveerrors.ErrDatesRequired
		}
		d, err := time.Parse(dateLayout, raw)
		if err != nil {
			return submission{}, leaveerrors.ErrInvalidDateFormat
		}
		key := d.Format(dateLayout)
		if seen[key] {
			return submission{}, leaveerrors.DuplicateLeaveDate(key)
		}
		seen[key] = true

		ltID, err := uuid.Parse(strings.TrimSpace(in.LeaveTypeID))
		if err != nil {
			return submission{}, leaveerrors.ErrInvalidLeaveTypeID
		}
		if !seenTypes[ltID.String()] {
			seenTypes[ltID.String()] = true
			typeIDs = append(typeIDs, ltID.String())
		}
		sub.dates = append(sub.dates, parsedDate{date: d, leaveTypeID: ltID})
	}

	types, err := s.leaveTypes.FindByIDs(ctx, typeIDs)
	if err != nil {
		return submission{}, err
	}
	sub.types = make(map[uuid.UUID]leavetype.LeaveType, len(types))
	for _, lt := range types {
		if lt.Active {
			sub.types[lt.ID] = lt
		}
	}
	for _, id := range typeIDs {
		if _, ok := sub.types[uuid.MustParse(id)]; !ok {
			return submission{}, leaveerrors.ErrInactiveLeaveType
		}
	}

	sort.Slice(sub.dates, func(i, j int) bool { return sub.dates[i].date.Before(sub.dates[j].date) })
	return sub, nil
}

// tally counts days per leave type, returned in a stable order.
func tally(dates []parsedDate) ([]uuid.UUID, map[uuid.UUID]decimal.Decimal) {
	days := make(map[uuid.UUID]decimal.Decimal)
	var order []uuid.UUID
	for _, d := range dates {
		if _, ok := days[d.leaveTypeID]; !ok {
			order = append(order, d.leaveTypeID)
			days[d.leaveTypeID] = decimal.Zero
		}
		days[d.leaveTypeID] = days[d.leaveTypeID].Add(decimal.NewFromInt(1))
	}
	sort.Slice(order, func(i, j int) bool { return order[i].String() < order[j].String() })
	return order, days
}

func (s *service) Submit(ctx context.Context, employeeID string, req SubmitLeaveRequest) (SubmitResponse, error) {
	sub, err := s.validate(ctx, employeeID, req)
	if err != nil {
		return SubmitResponse{}, err
	}

	year := s.now().Year()
	order, days := tally(sub.dates)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SubmitResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	btx := s.balances.WithTx(tx)

	for _, ltID := range order {
		bal, err := btx.GetBalance(ctx, sub.employeeID.String(), ltID.String(), year)
		if err != nil {
			return SubmitResponse{}, err
		}
		if days[ltID].GreaterThan(bal.Remaining) {
			return SubmitResponse{}, leaveerrors.InsufficientBalance(
				sub.types[ltID].Name,
				bal.Remaining.String(),
			)
		}
	}

	now := s.now().UTC()
	lr := &LeaveRequest{
		ID:             uuid.New(),
		EmployeeID:     sub.employeeID,
		EmployeeCode:   sub.employeeCode,
		ManagerEmails:  sub.managerEmails,
		RelieverEmails: sub.relieverEmails,
		Reason:         sub.reason,
		Status:         StatusPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := qtx.Create(ctx, lr); err != nil {
		return SubmitResponse{}, err
	}

	dates := make([]LeaveDate, 0, len(sub.dates))
	for _, d := range sub.dates {
		dates = append(dates, LeaveDate{
			ID:          uuid.New(),
			RequestID:   lr.ID,
			LeaveDate:   d.date,
			LeaveTypeID: d.leaveTypeID,
			CreatedAt:   now,
		})
	}
	if err := qtx.CreateDates(ctx, dates); err != nil {
		return SubmitResponse{}, err
	}

	if err := qtx.CreateLog(ctx, &LeaveLog{
		ID:          uuid.New(),
		EmployeeID:  sub.employeeID,
		RequestID:   &lr.ID,
		Action:      LogSubmitted,
		Details:     logDetails[LogSubmitted],
		Year:        year,
		PerformedBy: &sub.employeeID,
		Channel:     ChannelWeb,
		CreatedAt:   now,
	}); err != nil {
		return SubmitResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return SubmitResponse{}, err
	}
	lr.Dates = dates

	s.afterSubmit(ctx, lr)

	typeNames := make(map[uuid.UUID]string, len(sub.types))
	for id, lt := range sub.types {
		typeNames[id] = lt.Name
	}
	return SubmitResponse{
		Message: SubmitSuccessMessage,
		Request: s.committedResponse(ctx, lr, typeNames),
	}, nil
}

// afterSubmit runs the side effects that must not undo a committed request.
func (s *service) afterSubmit(ctx context.Context, lr *LeaveRequest) {
	if s.contacts != nil {
		if err := s.contacts.RecordSubmission(ctx, lr.EmployeeID.String(), lr.ManagerEmails, lr.RelieverEmails); err != nil {
			s.logger.Warn("record contacts failed",
				zap.String("request_id", lr.ID.String()),
				zap.Error(err),
			)
		}
	}
	if s.notifier != nil {
		if err := s.notifier.NotifySubmitted(ctx, lr.ID.String()); err != nil {
			s.logger.Warn("submission notification failed",
				zap.String("request_id", lr.ID.String()),
				zap.Error(err),
			)
		}
	}
}

func (s *service) Approve(ctx context.Context, requestID string, actor Actor) (LeaveResponse, error) {
	return s.Decide(ctx, Decision{RequestID: requestID, Action: ActionApprove, Actor: actor})
}

func (s *service) Reject(ctx context.Context, requestID string, actor Actor) (LeaveResponse, error) {
	return s.Decide(ctx, Decision{RequestID: requestID, Action: ActionReject, Actor: actor})
}

// Decide applies an approve or reject decision in one transaction. The
// balance credit, the status change and the audit entry commit together.
func (s *service) Decide(ctx context.Context, d Decision) (LeaveResponse, error) {
	if _, err := uuid.Parse(d.RequestID); err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveID
	}
	target := d.Action.TargetStatus()
	if target == "" {
		return LeaveResponse{}, leaveerrors.ErrUnknownAction
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	req, err := qtx.FindByID(ctx, d.RequestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}
	if req.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	if d.Guard != nil {
		if err := d.Guard(ctx, tx, req); err != nil {
			return LeaveResponse{}, err
		}
	}

	now := s.now().UTC()
	year := s.now().Year()

	if d.Action == ActionApprove {
		btx := s.balances.WithTx(tx)
		parsed := make([]parsedDate, 0, len(req.Dates))
		for _, ld := range req.Dates {
			parsed = append(parsed, parsedDate{date: ld.LeaveDate, leaveTypeID: ld.LeaveTypeID})
		}
		order, days := tally(parsed)
		for _, ltID := range order {
			if err := btx.CreditUsage(ctx, req.EmployeeID.String(), ltID.String(), days[ltID], year); err != nil {
				return LeaveResponse{}, err
			}
		}
	}

	affected, err := qtx.TransitionStatus(ctx, d.RequestID, target, d.Actor, now)
	if err != nil {
		return LeaveResponse{}, err
	}
	if affected == 0 {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	logAction := d.Action.logAction()
	details := logDetails[logAction]
	if d.Actor.Channel == ChannelEmailLink {
		details += " via email link"
	}
	if err := qtx.CreateLog(ctx, &LeaveLog{
		ID:          uuid.New(),
		EmployeeID:  req.EmployeeID,
		RequestID:   &req.ID,
		Action:      logAction,
		Details:     details,
		Year:        year,
		PerformedBy: d.Actor.UserID,
		Channel:     d.Actor.Channel,
		CreatedAt:   now,
	}); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request decided",
		zap.String("request_id", d.RequestID),
		zap.String("status", target),
		zap.String("actor", d.Actor.String()),
	)

	req.Status = target
	channel := d.Actor.Channel
	req.ApprovalChannel = &channel
	req.ApprovedBy = d.Actor.UserID
	req.ApprovedAt = &now
	req.UpdatedAt = now

	if s.notifier != nil {
		if err := s.notifier.NotifyDecided(ctx, d.RequestID, d.Action); err != nil {
			s.logger.Warn("decision notification failed",
				zap.String("request_id", d.RequestID),
				zap.Error(err),
			)
		}
	}

	return s.committedResponse(ctx, req, nil), nil
}

func (s *service) GetDetail(ctx context.Context, id string) (RequestDetail, error) {
	return s.details.GetDetail(ctx, id)
}

func (s *service) GetByID(ctx context.Context, id string) (LeaveResponse, error) {
	d, err := s.details.GetDetail(ctx, id)
	if err != nil {
		return LeaveResponse{}, err
	}
	return mapDetailToResponse(d), nil
}

func (s *service) ListMine(ctx context.Context, employeeID string) ([]LeaveResponse, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	reqs, err := s.repo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	return s.toResponses(ctx, reqs)
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]LeaveResponse, int64, error) {
	reqs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	out, err := s.toResponses(ctx, reqs)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (s *service) ListLogs(ctx context.Context, requestID string) ([]LeaveLogResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	logs, err := s.repo.ListLogs(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, mapLogToResponse(l))
	}
	return out, nil
}

func (s *service) toResponse(ctx context.Context, req *LeaveRequest) (LeaveResponse, error) {
	out, err := s.toResponses(ctx, []LeaveRequest{*req})
	if err != nil {
		return LeaveResponse{}, err
	}
	return out[0], nil
}

// committedResponse maps a request whose write has already committed. An
// enrichment failure falls back to the employee code and the known type
// names, or the type IDs.
func (s *service) committedResponse(ctx context.Context, req *LeaveRequest, typeNames map[uuid.UUID]string) LeaveResponse {
	resp, err := s.toResponse(ctx, req)
	if err == nil {
		return resp
	}
	s.logger.Warn("enrich committed leave request failed",
		zap.String("request_id", req.ID.String()),
		zap.Error(err),
	)

	d := RequestDetail{Request: *req, EmployeeName: req.EmployeeCode}
	for _, ld := range req.Dates {
		name, ok := typeNames[ld.LeaveTypeID]
		if !ok {
			name = ld.LeaveTypeID.String()
		}
		d.Dates = append(d.Dates, DetailDate{
			Date:          ld.LeaveDate,
			LeaveTypeID:   ld.LeaveTypeID,
			LeaveTypeName: name,
		})
	}
	return mapDetailToResponse(d)
}

func (s *service) toResponses(ctx context.Context, reqs []LeaveRequest) ([]LeaveResponse, error) {
	details, err := s.details.enrich(ctx, reqs)
	if err != nil {
		return nil, err
	}
	out := make([]LeaveResponse, 0, len(details))
	for _, d := range details {
		out = append(out, mapDetailToResponse(d))
	}
	return out, nil
}
