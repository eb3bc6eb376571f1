package notification

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go-leaves/internal/approvaltoken"
	"go-leaves/internal/leave"
	"go-leaves/internal/shared/emaillist"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	dateDisplayLayout   = "Jan 2, 2006"
	stampDisplayLayout  = "January 2, 2006 3:04 PM MST"
	unknownEmployeeName = "Employee"
)

// Settings are the runtime toggles and addresses the dispatcher reads.
type Settings struct {
	Enabled           bool
	OnSubmit          bool
	OnApprove         bool
	OnReject          bool
	HREmail           string
	BaseURL           string
	AdminDashboardURL string
}

// TokenMinter issues the approve/reject link pair sent to HR.
type TokenMinter interface {
	MintPair(ctx context.Context, requestID, recipientEmail string) (approvaltoken.Pair, error)
}

type Dispatcher struct {
	details   leave.DetailReader
	tokens    TokenMinter
	templates TemplateRepository
	logs      LogRepository
	mailer    Mailer
	settings  Settings
	now       func() time.Time
	logger    *zap.Logger
}

func NewDispatcher(
	details leave.DetailReader,
	tokens TokenMinter,
	templates TemplateRepository,
	logs LogRepository,
	mailer Mailer,
	settings Settings,
	logger ...*zap.Logger,
) *Dispatcher {
	l := zap.L().Named("notification.dispatcher")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.dispatcher")
	}
	return &Dispatcher{
		details:   details,
		tokens:    tokens,
		templates: templates,
		logs:      logs,
		mailer:    mailer,
		settings:  settings,
		now:       time.Now,
		logger:    l,
	}
}

// WithClock replaces the time source.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	d.now = now
	return d
}

func (d *Dispatcher) NotifySubmitted(ctx context.Context, requestID string) error {
	if !d.settings.Enabled || !d.settings.OnSubmit {
		return nil
	}
	detail, err := d.details.GetDetail(ctx, requestID)
	if err != nil {
		return err
	}
	vars := baseVars(detail)
	req := detail.Request

	var errs []error
	hr := strings.TrimSpace(d.settings.HREmail)
	if hr != "" {
		hrVars := cloneVars(vars)
		hrVars["admin_dashboard_url"] = d.settings.AdminDashboardURL
		pair, err := d.tokens.MintPair(ctx, requestID, hr)
		if err != nil {
			d.record(ctx, req.ID, TemplateSubmitted, hr, "HR notification: could not mint approval links: "+err.Error(), StatusFailed)
			errs = append(errs, err)
		} else {
			hrVars["approve_link"] = d.link("approve", pair.Approve)
			hrVars["reject_link"] = d.link("reject", pair.Reject)
			hrVars["token_expiry"] = pair.ExpiresAt.UTC().Format(stampDisplayLayout)
			errs = append(errs, d.send(ctx, req.ID, TemplateSubmitted, hr, hrVars, "HR notification"))
		}
	}

	for _, to := range CollectUniqueRecipients(req.ManagerEmails, req.RelieverEmails) {
		if hr != "" && strings.EqualFold(to, hr) {
			continue
		}
		errs = append(errs, d.sendContact(ctx, req, to, vars, "submission"))
	}
	return errors.Join(errs...)
}

func (d *Dispatcher) NotifyDecided(ctx context.Context, requestID string, action leave.Action) error {
	var employeeTemplate string
	switch action {
	case leave.ActionApprove:
		if !d.settings.Enabled || !d.settings.OnApprove {
			return nil
		}
		employeeTemplate = TemplateApproved
	case leave.ActionReject:
		if !d.settings.Enabled || !d.settings.OnReject {
			return nil
		}
		employeeTemplate = TemplateRejected
	default:
		return nil
	}

	detail, err := d.details.GetDetail(ctx, requestID)
	if err != nil {
		return err
	}
	vars := baseVars(detail)
	processed := d.now()
	if detail.Request.ApprovedAt != nil {
		processed = *detail.Request.ApprovedAt
	}
	vars["approved_date"] = processed.UTC().Format(stampDisplayLayout)
	req := detail.Request

	var errs []error
	employee := strings.TrimSpace(detail.EmployeeEmail)
	if employee != "" {
		errs = append(errs, d.send(ctx, req.ID, employeeTemplate, employee, vars, "employee "+action.TargetStatus()+" notification"))
	}
	for _, to := range CollectUniqueRecipients(req.ManagerEmails, req.RelieverEmails) {
		if employee != "" && strings.EqualFold(to, employee) {
			continue
		}
		errs = append(errs, d.sendContact(ctx, req, to, vars, action.TargetStatus()))
	}
	return errors.Join(errs...)
}

// sendContact picks the manager template for anyone listed as a manager,
// even if they are also a reliever.
func (d *Dispatcher) sendContact(ctx context.Context, req leave.LeaveRequest, to string, vars map[string]string, event string) error {
	if emaillist.Contains(req.ManagerEmails, to) {
		return d.send(ctx, req.ID, TemplateManager, to, vars, "manager "+event+" notification")
	}
	return d.send(ctx, req.ID, TemplateReliever, to, vars, "reliever "+event+" notification")
}

func (d *Dispatcher) send(ctx context.Context, requestID uuid.UUID, templateType, to string, vars map[string]string, detail string) error {
	tpl, err := d.templates.FindActiveByType(ctx, templateType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			d.record(ctx, requestID, templateType, to, detail+": no active template", StatusSkipped)
			return nil
		}
		d.record(ctx, requestID, templateType, to, detail+": "+err.Error(), StatusFailed)
		return err
	}

	subject, body := Render(tpl.Subject, tpl.Body, vars)
	if err := d.mailer.Send(ctx, to, subject, body); err != nil {
		d.logger.Warn("send notification failed",
			zap.String("request_id", requestID.String()),
			zap.String("template", templateType),
			zap.String("to", to),
			zap.Error(err),
		)
		d.record(ctx, requestID, templateType, to, detail+": "+err.Error(), StatusFailed)
		return err
	}

	d.record(ctx, requestID, templateType, to, detail, StatusSent)
	return nil
}

func (d *Dispatcher) record(ctx context.Context, requestID uuid.UUID, templateType, to, detail, status string) {
	now := d.now().UTC()
	entry := &NotificationLog{
		ID:           uuid.New(),
		RequestID:    requestID,
		EmailType:    templateType,
		EmailAddress: to,
		Detail:       detail,
		Status:       status,
		CreatedAt:    now,
	}
	if status == StatusSent {
		entry.SentAt = &now
	}
	if err := d.logs.Create(ctx, entry); err != nil {
		d.logger.Warn("record notification failed",
			zap.String("request_id", requestID.String()),
			zap.String("status", status),
			zap.Error(err),
		)
	}
}

func (d *Dispatcher) link(path, token string) string {
	return strings.TrimRight(d.settings.BaseURL, "/") + "/" + path + "/" + token
}

func baseVars(d leave.RequestDetail) map[string]string {
	name := d.EmployeeName
	if name == "" {
		name = unknownEmployeeName
	}
	dates := make([]string, 0, len(d.Dates))
	for _, dd := range d.Dates {
		dates = append(dates, dd.Date.Format(dateDisplayLayout))
	}
	return map[string]string{
		"employee_name":   name,
		"employee_email":  d.EmployeeEmail,
		"employee_id":     d.Request.EmployeeCode,
		"leave_dates":     strings.Join(dates, ", "),
		"leave_types":     strings.Join(d.TypeNames(), ", "),
		"total_days":      strconv.Itoa(len(d.Dates)),
		"reason":          d.Request.Reason,
		"status":          d.Request.Status,
		"manager_emails":  d.Request.ManagerEmails,
		"reliever_emails": d.Request.RelieverEmails,
	}
}

func cloneVars(vars map[string]string) map[string]string {
	out := make(map[string]string, len(vars)+4)
	for k, v := range vars {
		out[k] = v
	}
	return out
}
