package leave

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	leaveerrors "go-leaves/internal/leave/errors"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	exportSheet    = "Leave Requests"
	exportPageSize = 100
	// exportMaxRows bounds one workbook; narrow the filter for more.
	exportMaxRows = 5000
)

var exportHeaders = []string{
	"Employee", "Email", "Employee Code", "Status", "Dates", "Leave Types",
	"Total Days", "Reason", "Managers", "Relievers", "Channel", "Decided At", "Submitted At",
}

// Exporter renders leave requests for use outside the application.
type Exporter interface {
	// Workbook writes every request matching filter to an xlsx file and
	// returns it with a suggested file name.
	Workbook(ctx context.Context, filter ListFilter) (*bytes.Buffer, string, error)
	// Calendar returns an iCalendar feed of the employee's approved leave.
	Calendar(ctx context.Context, employeeID string) ([]byte, error)
}

type exporter struct {
	service Service
	now     func() time.Time
	logger  *zap.Logger
}

func NewExporter(service Service, logger ...*zap.Logger) Exporter {
	l := zap.L().Named("leave.exporter")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.exporter")
	}
	return &exporter{service: service, now: time.Now, logger: l}
}

func (e *exporter) collect(ctx context.Context, filter ListFilter) ([]LeaveResponse, error) {
	filter.PageSize = exportPageSize
	var all []LeaveResponse
	for page := 1; ; page++ {
		filter.Page = page
		rows, total, err := e.service.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, rows...)
		if len(rows) == 0 || int64(len(all)) >= total || len(all) >= exportMaxRows {
			break
		}
	}
	if len(all) > exportMaxRows {
		all = all[:exportMaxRows]
	}
	return all, nil
}

func (e *exporter) Workbook(ctx context.Context, filter ListFilter) (*bytes.Buffer, string, error) {
	rows, err := e.collect(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, "", e.fail(err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, "", e.fail(err)
	}

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, "", e.fail(err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(exportHeaders))
	_ = f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle)
	_ = f.SetColWidth(exportSheet, "A", "B", 28)
	_ = f.SetColWidth(exportSheet, "E", "F", 30)
	_ = f.SetColWidth(exportSheet, "H", "J", 32)

	for r, lr := range rows {
		values := exportRow(lr)
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, "", e.fail(err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", e.fail(err)
	}

	name := fmt.Sprintf("leave-requests-%s.xlsx", e.now().UTC().Format("20060102-1504"))
	return buf, name, nil
}

func exportRow(lr LeaveResponse) []any {
	dates := make([]string, 0, len(lr.Dates))
	for _, d := range lr.Dates {
		dates = append(dates, d.Date)
	}
	channel, decidedAt := "", ""
	if lr.ApprovalChannel != nil {
		channel = *lr.ApprovalChannel
	}
	if lr.ApprovedAt != nil {
		decidedAt = *lr.ApprovedAt
	}
	return []any{
		lr.EmployeeName,
		lr.EmployeeEmail,
		lr.EmployeeCode,
		lr.Status,
		strings.Join(dates, ", "),
		strings.Join(typeNames(lr.Dates), ", "),
		lr.TotalDays,
		lr.Reason,
		lr.ManagerEmails,
		lr.RelieverEmails,
		channel,
		decidedAt,
		lr.CreatedAt,
	}
}

func typeNames(dates []LeaveDateResponse) []string {
	seen := make(map[string]struct{}, len(dates))
	var out []string
	for _, d := range dates {
		if _, ok := seen[d.LeaveTypeName]; ok || d.LeaveTypeName == "" {
			continue
		}
		seen[d.LeaveTypeName] = struct{}{}
		out = append(out, d.LeaveTypeName)
	}
	return out
}

func (e *exporter) fail(err error) error {
	e.logger.Error("generate leave workbook failed", zap.Error(err))
	return leaveerrors.ErrExportFailed
}

// leaveSpan is a run of consecutive days of one leave type.
type leaveSpan struct {
	start, end time.Time
	typeName   string
}

func (e *exporter) Calendar(ctx context.Context, employeeID string) ([]byte, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	rows, err := e.service.ListMine(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	now := e.now().UTC()
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//go-leaves//Leave Calendar//EN")
	cal.SetXWRCalName("Approved leave")

	for _, lr := range rows {
		if lr.Status != StatusApproved {
			continue
		}
		for i, span := range spans(lr.Dates) {
			ev := cal.AddEvent(fmt.Sprintf("%s-%d@go-leaves", lr.ID, i))
			ev.SetDtStampTime(now)
			ev.SetSummary(span.typeName)
			if lr.Reason != "" {
				ev.SetDescription(lr.Reason)
			}
			ev.SetStatus(ics.ObjectStatusConfirmed)
			ev.SetAllDayStartAt(span.start)
			ev.SetAllDayEndAt(span.end.AddDate(0, 0, 1))
		}
	}

	return []byte(cal.Serialize()), nil
}

// spans merges sorted dates into runs that share a leave type.
func spans(dates []LeaveDateResponse) []leaveSpan {
	var out []leaveSpan
	for _, d := range dates {
		day, err := time.Parse(dateLayout, d.Date)
		if err != nil {
			continue
		}
		if n := len(out); n > 0 &&
			out[n-1].typeName == d.LeaveTypeName &&
			out[n-1].end.AddDate(0, 0, 1).Equal(day) {
			out[n-1].end = day
			continue
		}
		out = append(out, leaveSpan{start: day, end: day, typeName: d.LeaveTypeName})
	}
	return out
}
