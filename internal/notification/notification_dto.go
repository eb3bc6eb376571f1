package notification

type UpdateTemplateRequest struct {
	Subject string `json:"subject" binding:"required,max=255"`
	Body    string `json:"body" binding:"required"`
	Active  *bool  `json:"active" binding:"required"`
}

type TemplateResponse struct {
	TemplateType string `json:"template_type"`
	Subject      string `json:"subject"`
	Body         string `json:"body"`
	Active       bool   `json:"active"`
	UpdatedAt    string `json:"updated_at"`
}

type NotificationLogResponse struct {
	ID           string  `json:"id"`
	RequestID    string  `json:"request_id"`
	EmailType    string  `json:"email_type"`
	EmailAddress string  `json:"email_address"`
	Detail       string  `json:"detail"`
	Status       string  `json:"status"`
	SentAt       *string `json:"sent_at,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
