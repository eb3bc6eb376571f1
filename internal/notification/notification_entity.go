package notification

import (
	"time"

	"github.com/google/uuid"
)

// Template types.
const (
	TemplateSubmitted = "leave_request_submitted"
	TemplateApproved  = "leave_request_approved"
	TemplateRejected  = "leave_request_rejected"
	TemplateManager   = "leave_notification_manager"
	TemplateReliever  = "leave_notification_reliever"
)

// Delivery statuses recorded per attempt.
const (
	StatusSent    = "sent"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

type EmailTemplate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TemplateType string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_email_templates_type"`
	Subject      string    `gorm:"type:varchar(255);not null"`
	Body         string    `gorm:"type:text;not null"`
	Active       bool      `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (EmailTemplate) TableName() string {
	return "email_templates"
}

type NotificationLog struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	RequestID    uuid.UUID `gorm:"type:uuid;not null;index:idx_leave_notifications_request"`
	EmailType    string    `gorm:"type:varchar(50);not null"`
	EmailAddress string    `gorm:"type:varchar(255);not null"`
	Detail       string    `gorm:"type:text;not null"`
	Status       string    `gorm:"type:varchar(20);not null"`
	SentAt       *time.Time
	CreatedAt    time.Time
}

func (NotificationLog) TableName() string {
	return "leave_notifications"
}
