package leave

type LeaveDateInput struct {
	Date        string `json:"date"`
	LeaveTypeID string `json:"leave_type_id"`
}

type SubmitLeaveRequest struct {
	EmployeeCode   string           `json:"employee_code"`
	ManagerEmails  string           `json:"manager_emails"`
	RelieverEmails string           `json:"reliever_emails"`
	Reason         string           `json:"reason"`
	Dates          []LeaveDateInput `json:"dates"`
}

type SubmitResponse struct {
	Message string        `json:"message"`
	Request LeaveResponse `json:"request"`
}

type ListLeavesRequest struct {
	Status      string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	Year        int    `form:"year" binding:"omitempty,min=1"`
	LeaveTypeID string `form:"leave_type_id" binding:"omitempty,uuid"`
	Search      string `form:"search"`
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
}

type LeaveDateResponse struct {
	Date          string `json:"date"`
	LeaveTypeID   string `json:"leave_type_id"`
	LeaveTypeName string `json:"leave_type_name"`
}

type LeaveResponse struct {
	ID              string              `json:"id"`
	EmployeeID      string              `json:"employee_id"`
	EmployeeName    string              `json:"employee_name,omitempty"`
	EmployeeEmail   string              `json:"employee_email,omitempty"`
	EmployeeCode    string              `json:"employee_code"`
	ManagerEmails   string              `json:"manager_emails"`
	RelieverEmails  string              `json:"reliever_emails"`
	Reason          string              `json:"reason"`
	Status          string              `json:"status"`
	ApprovedBy      *string             `json:"approved_by,omitempty"`
	ApprovalChannel *string             `json:"approval_channel,omitempty"`
	ApprovedAt      *string             `json:"approved_at,omitempty"`
	CreatedAt       string              `json:"created_at"`
	TotalDays       int                 `json:"total_days"`
	Dates           []LeaveDateResponse `json:"dates"`
}

type LeaveLogResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	RequestID   *string `json:"request_id,omitempty"`
	Action      string  `json:"action"`
	Details     string  `json:"details"`
	Year        int     `json:"year"`
	PerformedBy *string `json:"performed_by,omitempty"`
	Channel     string  `json:"channel"`
	CreatedAt   string  `json:"created_at"`
}
