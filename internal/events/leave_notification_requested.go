package events

import "time"

const LeaveNotificationsTopic = "leave.notifications.v1"

const (
	LeaveNotificationEventType = "leave_notification_requested"
	LeaveRequestAggregate      = "leave_request"
)

// Kinds of leave notification.
const (
	LeaveSubmitted = "submitted"
	LeaveApproved  = "approved"
	LeaveRejected  = "rejected"
)

// LeaveNotificationRequestedEvent asks the consumer to send the emails that
// follow a committed leave transition.
type LeaveNotificationRequestedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	Kind       string    `json:"kind"`
	RequestID  string    `json:"request_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
