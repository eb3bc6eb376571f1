package leave

import "time"

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func mapDetailToResponse(d RequestDetail) LeaveResponse {
	r := d.Request
	resp := LeaveResponse{
		ID:              r.ID.String(),
		EmployeeID:      r.EmployeeID.String(),
		EmployeeName:    d.EmployeeName,
		EmployeeEmail:   d.EmployeeEmail,
		EmployeeCode:    r.EmployeeCode,
		ManagerEmails:   r.ManagerEmails,
		RelieverEmails:  r.RelieverEmails,
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovalChannel: r.ApprovalChannel,
		CreatedAt:       formatTime(r.CreatedAt),
		TotalDays:       len(d.Dates),
		Dates:           make([]LeaveDateResponse, 0, len(d.Dates)),
	}
	if r.ApprovedBy != nil {
		by := r.ApprovedBy.String()
		resp.ApprovedBy = &by
	}
	if r.ApprovedAt != nil {
		at := formatTime(*r.ApprovedAt)
		resp.ApprovedAt = &at
	}
	for _, dd := range d.Dates {
		resp.Dates = append(resp.Dates, LeaveDateResponse{
			Date:          dd.Date.Format(dateLayout),
			LeaveTypeID:   dd.LeaveTypeID.String(),
			LeaveTypeName: dd.LeaveTypeName,
		})
	}
	return resp
}

func mapLogToResponse(l LeaveLog) LeaveLogResponse {
	resp := LeaveLogResponse{
		ID:         l.ID.String(),
		EmployeeID: l.EmployeeID.String(),
		Action:     l.Action,
		Details:    l.Details,
		Year:       l.Year,
		Channel:    l.Channel,
		CreatedAt:  formatTime(l.CreatedAt),
	}
	if l.RequestID != nil {
		id := l.RequestID.String()
		resp.RequestID = &id
	}
	if l.PerformedBy != nil {
		by := l.PerformedBy.String()
		resp.PerformedBy = &by
	}
	return resp
}
