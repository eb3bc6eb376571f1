package app_test

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"go-leaves/internal/approvaltoken"
	"go-leaves/internal/balance"
	"go-leaves/internal/leave"
	"go-leaves/internal/leavetype"
	"go-leaves/internal/notification"
	"go-leaves/internal/shared/contextutil"
	"go-leaves/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ---- in-memory stores ----

type memLeaveRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]leave.LeaveRequest
	dates    map[uuid.UUID][]leave.LeaveDate
	logs     []leave.LeaveLog
}

func newMemLeaveRepo() *memLeaveRepo {
	return &memLeaveRepo{
		requests: map[uuid.UUID]leave.LeaveRequest{},
		dates:    map[uuid.UUID][]leave.LeaveDate{},
	}
}

func (m *memLeaveRepo) WithTx(*sql.Tx) leave.Repository { return m }

func (m *memLeaveRepo) Create(_ context.Context, req *leave.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = *req
	return nil
}

func (m *memLeaveRepo) CreateDates(_ context.Context, dates []leave.LeaveDate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range dates {
		m.dates[d.RequestID] = append(m.dates[d.RequestID], d)
	}
	return nil
}

func (m *memLeaveRepo) CreateLog(_ context.Context, log *leave.LeaveLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memLeaveRepo) FindByID(_ context.Context, id string) (*leave.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, gorm.ErrRecordNotFound
	}
	r, ok := m.requests[uid]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	r.Dates = append([]leave.LeaveDate(nil), m.dates[uid]...)
	return &r, nil
}

func (m *memLeaveRepo) TransitionStatus(_ context.Context, id, status string, actor leave.Actor, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	uid := uuid.MustParse(id)
	r, ok := m.requests[uid]
	if !ok || r.Status != leave.StatusPending {
		return 0, nil
	}
	channel := actor.Channel
	r.Status = status
	r.ApprovedBy = actor.UserID
	r.ApprovalChannel = &channel
	r.ApprovedAt = &at
	r.UpdatedAt = at
	m.requests[uid] = r
	return 1, nil
}

func (m *memLeaveRepo) ListByEmployee(context.Context, string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (m *memLeaveRepo) List(context.Context, leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}

func (m *memLeaveRepo) ListLogs(_ context.Context, requestID string) ([]leave.LeaveLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []leave.LeaveLog
	for _, l := range m.logs {
		if l.RequestID != nil && l.RequestID.String() == requestID {
			out = append(out, l)
		}
	}
	return out, nil
}

type memLeaveTypes struct {
	types map[uuid.UUID]leavetype.LeaveType
}

func (m *memLeaveTypes) FindByID(_ context.Context, id string) (*leavetype.LeaveType, error) {
	lt, ok := m.types[uuid.MustParse(id)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &lt, nil
}

func (m *memLeaveTypes) FindByIDs(_ context.Context, ids []string) ([]leavetype.LeaveType, error) {
	var out []leavetype.LeaveType
	for _, id := range ids {
		if lt, ok := m.types[uuid.MustParse(id)]; ok {
			out = append(out, lt)
		}
	}
	return out, nil
}

func (m *memLeaveTypes) ListActive(context.Context) ([]leavetype.LeaveType, error) { return nil, nil }
func (m *memLeaveTypes) ListAll(context.Context) ([]leavetype.LeaveType, error)    { return nil, nil }
func (m *memLeaveTypes) UpdateSettings(context.Context, string, decimal.Decimal, bool) (int64, error) {
	return 0, nil
}

type memUsers struct {
	users map[string]user.User
	err   error
}

func (m *memUsers) Create(context.Context, *user.User) error { return nil }

func (m *memUsers) FindByID(_ context.Context, id string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memUsers) FindByEmail(context.Context, string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (m *memUsers) FindAll(context.Context) ([]user.User, error) { return nil, nil }

type balanceKey struct {
	employee, leaveType string
	year                int
}

type memBalances struct {
	mu   sync.Mutex
	rows map[balanceKey]balance.Balance
}

func (m *memBalances) WithTx(*sql.Tx) balance.Repository { return m }

func (m *memBalances) Find(_ context.Context, employeeID, leaveTypeID string, year int) (*balance.Balance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.rows[balanceKey{employeeID, leaveTypeID, year}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &b, nil
}

func (m *memBalances) InitIfMissing(_ context.Context, b *balance.Balance) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := balanceKey{b.EmployeeID.String(), b.LeaveTypeID.String(), b.Year}
	if _, ok := m.rows[k]; !ok {
		m.rows[k] = *b
	}
	return nil
}

func (m *memBalances) AddUsage(_ context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := balanceKey{employeeID, leaveTypeID, year}
	b, ok := m.rows[k]
	if !ok {
		return 0, nil
	}
	b.Used = b.Used.Add(days)
	b.Remaining = b.Allocated.Sub(b.Used)
	m.rows[k] = b
	return 1, nil
}

type memTokens struct {
	mu     sync.Mutex
	tokens map[string]approvaltoken.ActionToken
}

func (m *memTokens) WithTx(*sql.Tx) approvaltoken.Repository { return m }

func (m *memTokens) CreateBatch(_ context.Context, tokens []approvaltoken.ActionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range tokens {
		m.tokens[t.Token] = t
	}
	return nil
}

func (m *memTokens) FindByToken(_ context.Context, token string) (*approvaltoken.ActionToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (m *memTokens) Consume(_ context.Context, token string, at time.Time, ip, userAgent string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tokens[token]
	if !ok || t.UsedAt != nil || !t.ExpiresAt.After(at) {
		return 0, nil
	}
	t.UsedAt = &at
	t.IPAddress = &ip
	t.UserAgent = &userAgent
	m.tokens[token] = t
	return 1, nil
}

func (m *memTokens) DeleteExpiredBefore(context.Context, time.Time) (int64, error) { return 0, nil }

type memTemplates struct{}

func (memTemplates) FindActiveByType(_ context.Context, templateType string) (*notification.EmailTemplate, error) {
	body := "Dates: {{leave_dates}}"
	if templateType == notification.TemplateSubmitted {
		body = "Approve: {{approve_link}}\nReject: {{reject_link}}"
	}
	return &notification.EmailTemplate{
		TemplateType: templateType,
		Subject:      templateType + " for {{employee_name}}",
		Body:         body,
		Active:       true,
	}, nil
}

func (memTemplates) FindByType(ctx context.Context, templateType string) (*notification.EmailTemplate, error) {
	return memTemplates{}.FindActiveByType(ctx, templateType)
}

func (memTemplates) ListAll(context.Context) ([]notification.EmailTemplate, error) { return nil, nil }
func (memTemplates) Update(context.Context, string, string, string, bool) (int64, error) {
	return 0, nil
}

type memNotifyLogs struct {
	mu   sync.Mutex
	logs []notification.NotificationLog
}

func (m *memNotifyLogs) Create(_ context.Context, log *notification.NotificationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, *log)
	return nil
}

func (m *memNotifyLogs) ListByRequest(context.Context, string) ([]notification.NotificationLog, error) {
	return nil, nil
}

type sentMail struct {
	to, subject, body string
}

type captureMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

func (c *captureMailer) Send(_ context.Context, to, subject, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, sentMail{to, subject, body})
	return nil
}

func (c *captureMailer) to(addr string) []sentMail {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []sentMail
	for _, m := range c.sent {
		if m.to == addr {
			out = append(out, m)
		}
	}
	return out
}

// ---- flow ----

const (
	hrEmail      = "hr@example.com"
	managerEmail = "boss@example.com"
)

var linkPattern = regexp.MustCompile(`/(approve|reject)/([A-Za-z0-9_-]{64})`)

func TestLeaveFlow_SubmitThenDecideByEmailLink(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	annual := leavetype.LeaveType{
		ID:               uuid.New(),
		Name:             "Annual Leave",
		YearlyAllocation: decimal.NewFromInt(12),
		Active:           true,
	}
	employee := user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Role: user.RoleEmployee}

	leaveRepo := newMemLeaveRepo()
	types := &memLeaveTypes{types: map[uuid.UUID]leavetype.LeaveType{annual.ID: annual}}
	users := &memUsers{users: map[string]user.User{employee.ID.String(): employee}}
	balanceRepo := &memBalances{rows: map[balanceKey]balance.Balance{}}
	tokenRepo := &memTokens{tokens: map[string]approvaltoken.ActionToken{}}
	logs := &memNotifyLogs{}
	mailer := &captureMailer{}
	logger := zap.NewNop()

	balances := balance.NewService(balanceRepo, types, logger)
	tokens := approvaltoken.NewService(tokenRepo, leaveRepo, approvaltoken.Config{Clock: clock}, logger)
	dispatcher := notification.NewDispatcher(
		leave.NewDetailReader(leaveRepo, types, users),
		tokens,
		memTemplates{},
		logs,
		mailer,
		notification.Settings{
			Enabled:   true,
			OnSubmit:  true,
			OnApprove: true,
			OnReject:  true,
			HREmail:   hrEmail,
			BaseURL:   "https://leaves.example.com",
		},
		logger,
	).WithClock(clock)

	leaves := leave.NewService(leave.Dependencies{
		DB:         db,
		Repo:       leaveRepo,
		LeaveTypes: types,
		Employees:  users,
		Balances:   balances,
		Notifier:   dispatcher,
		Clock:      clock,
	}, logger)
	redeemer := approvaltoken.NewRedeemer(tokens, leaves, logger)

	// Submit.
	submitted, err := leaves.Submit(ctx, employee.ID.String(), leave.SubmitLeaveRequest{
		EmployeeCode:   "EMP-001",
		ManagerEmails:  managerEmail,
		RelieverEmails: "peer@example.com",
		Reason:         "Family trip",
		Dates: []leave.LeaveDateInput{
			{Date: "2026-03-10", LeaveTypeID: annual.ID.String()},
			{Date: "2026-03-11", LeaveTypeID: annual.ID.String()},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, leave.SubmitSuccessMessage, submitted.Message)
	assert.Equal(t, leave.StatusPending, submitted.Request.Status)
	requestID := submitted.Request.ID

	// HR receives one approve and one reject link.
	hrMail := mailer.to(hrEmail)
	require.Len(t, hrMail, 1)
	assert.Equal(t, notification.TemplateSubmitted+" for Jane Doe", hrMail[0].subject)
	links := map[string]string{}
	for _, m := range linkPattern.FindAllStringSubmatch(hrMail[0].body, -1) {
		links[m[1]] = m[2]
	}
	require.Len(t, links, 2)
	assert.NotEqual(t, links["approve"], links["reject"])
	assert.Len(t, tokenRepo.tokens, 2)
	assert.Len(t, mailer.to(managerEmail), 1)
	assert.Len(t, mailer.to("peer@example.com"), 1)

	client := contextutil.ClientInfo{IP: "203.0.113.7", UserAgent: "MailClient/1.0", At: now}

	// Approve through the email link.
	now = now.Add(time.Hour)
	result, err := redeemer.Redeem(ctx, leave.ActionApprove, links["approve"], client)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	require.NotNil(t, result.Request)
	assert.Equal(t, leave.StatusApproved, result.Request.Status)

	stored, err := leaveRepo.FindByID(ctx, requestID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.Nil(t, stored.ApprovedBy)
	require.NotNil(t, stored.ApprovalChannel)
	assert.Equal(t, leave.ChannelEmailLink, *stored.ApprovalChannel)

	bal, err := balances.GetBalance(ctx, employee.ID.String(), annual.ID.String(), 2026)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(bal.Used))
	assert.True(t, decimal.NewFromInt(10).Equal(bal.Remaining))

	employeeMail := mailer.to(employee.Email)
	require.Len(t, employeeMail, 1)
	assert.Contains(t, employeeMail[0].subject, notification.TemplateApproved)

	used := tokenRepo.tokens[links["approve"]]
	require.NotNil(t, used.UsedAt)
	require.NotNil(t, used.IPAddress)
	assert.Equal(t, "203.0.113.7", *used.IPAddress)

	logsForRequest, err := leaves.ListLogs(ctx, requestID)
	require.NoError(t, err)
	require.Len(t, logsForRequest, 2)
	assert.Equal(t, "Leave request approved by HR via email link", logsForRequest[1].Details)

	// Revisiting the approve link reports it as used.
	again, err := redeemer.Redeem(ctx, leave.ActionApprove, links["approve"], client)
	require.NoError(t, err)
	assert.False(t, again.Succeeded())
	assert.Equal(t, approvaltoken.OutcomeAlreadyUsed, again.Validation.Outcome)

	// The reject link of the same pair no longer applies.
	late, err := redeemer.Redeem(ctx, leave.ActionReject, links["reject"], client)
	require.NoError(t, err)
	assert.False(t, late.Succeeded())
	assert.Equal(t, approvaltoken.OutcomeRequestNotPending, late.Validation.Outcome)
	assert.Equal(t, leave.StatusApproved, late.Validation.RequestStatus)

	bal, err = balances.GetBalance(ctx, employee.ID.String(), annual.ID.String(), 2026)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(bal.Used))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaveFlow_EmailLinkSucceedsWhenLookupFailsAfterCommit(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()
	mock.ExpectBegin()
	mock.ExpectCommit()

	annual := leavetype.LeaveType{ID: uuid.New(), Name: "Annual Leave", YearlyAllocation: decimal.NewFromInt(12), Active: true}
	employee := user.User{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com", Role: user.RoleEmployee}

	leaveRepo := newMemLeaveRepo()
	types := &memLeaveTypes{types: map[uuid.UUID]leavetype.LeaveType{annual.ID: annual}}
	users := &memUsers{users: map[string]user.User{employee.ID.String(): employee}}
	tokenRepo := &memTokens{tokens: map[string]approvaltoken.ActionToken{}}
	mailer := &captureMailer{}
	logger := zap.NewNop()

	balances := balance.NewService(&memBalances{rows: map[balanceKey]balance.Balance{}}, types, logger)
	tokens := approvaltoken.NewService(tokenRepo, leaveRepo, approvaltoken.Config{Clock: clock}, logger)
	dispatcher := notification.NewDispatcher(
		leave.NewDetailReader(leaveRepo, types, users),
		tokens,
		memTemplates{},
		&memNotifyLogs{},
		mailer,
		notification.Settings{Enabled: true, OnSubmit: true, OnApprove: true, HREmail: hrEmail, BaseURL: "https://leaves.example.com"},
		logger,
	).WithClock(clock)
	leaves := leave.NewService(leave.Dependencies{
		DB:         db,
		Repo:       leaveRepo,
		LeaveTypes: types,
		Employees:  users,
		Balances:   balances,
		Notifier:   dispatcher,
		Clock:      clock,
	}, logger)
	redeemer := approvaltoken.NewRedeemer(tokens, leaves, logger)

	submitted, err := leaves.Submit(ctx, employee.ID.String(), leave.SubmitLeaveRequest{
		EmployeeCode:  "EMP-001",
		ManagerEmails: managerEmail,
		Dates:         []leave.LeaveDateInput{{Date: "2026-03-10", LeaveTypeID: annual.ID.String()}},
	})
	require.NoError(t, err)

	hrMail := mailer.to(hrEmail)
	require.Len(t, hrMail, 1)
	links := map[string]string{}
	for _, m := range linkPattern.FindAllStringSubmatch(hrMail[0].body, -1) {
		links[m[1]] = m[2]
	}
	require.Contains(t, links, "approve")

	users.err = errors.New("connection reset")
	client := contextutil.ClientInfo{IP: "203.0.113.7", UserAgent: "MailClient/1.0", At: now}

	result, err := redeemer.Redeem(ctx, leave.ActionApprove, links["approve"], client)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	require.NotNil(t, result.Request)
	assert.Equal(t, leave.StatusApproved, result.Request.Status)
	assert.Equal(t, "EMP-001", result.Request.EmployeeName)

	stored, err := leaveRepo.FindByID(ctx, submitted.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
	assert.NotNil(t, tokenRepo.tokens[links["approve"]].UsedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
