package leave

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Channels recorded on transitions and audit entries.
const (
	ChannelWeb       = "web"
	ChannelAdmin     = "admin"
	ChannelEmailLink = "email_link"
)

// Audit log actions.
const (
	LogSubmitted = "submitted"
	LogApproved  = "approved"
	LogRejected  = "rejected"
)

type LeaveRequest struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index:idx_leave_requests_employee"`
	EmployeeCode    string     `gorm:"type:varchar(100);not null"`
	ManagerEmails   string     `gorm:"type:text;not null"`
	RelieverEmails  string     `gorm:"type:text;not null"`
	Reason          string     `gorm:"type:text;not null"`
	Status          string     `gorm:"type:varchar(20);not null;index:idx_leave_requests_status"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovalChannel *string    `gorm:"type:varchar(20)"`
	ApprovedAt      *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Dates []LeaveDate `gorm:"foreignKey:RequestID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

type LeaveDate struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_leave_dates_request_date"`
	LeaveDate   time.Time `gorm:"type:date;not null;uniqueIndex:uq_leave_dates_request_date"`
	LeaveTypeID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time
}

func (LeaveDate) TableName() string {
	return "leave_dates"
}

type LeaveLog struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	EmployeeID  uuid.UUID  `gorm:"type:uuid;not null"`
	RequestID   *uuid.UUID `gorm:"type:uuid"`
	Action      string     `gorm:"type:varchar(50);not null"`
	Details     string     `gorm:"type:text;not null"`
	Year        int        `gorm:"not null"`
	PerformedBy *uuid.UUID `gorm:"type:uuid"`
	Channel     string     `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
}

func (LeaveLog) TableName() string {
	return "leave_logs"
}
