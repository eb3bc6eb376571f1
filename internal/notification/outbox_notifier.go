package notification

import (
	"context"
	"time"

	"go-leaves/internal/events"
	"go-leaves/internal/leave"
	"go-leaves/internal/messaging/kafka"
	"go-leaves/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutboxNotifier queues notifications as outbox events for the consumer
// instead of sending mail on the request path.
type OutboxNotifier struct {
	outbox kafka.OutboxRepository
	now    func() time.Time
	logger *zap.Logger
}

func NewOutboxNotifier(outbox kafka.OutboxRepository, logger ...*zap.Logger) *OutboxNotifier {
	l := zap.L().Named("notification.outbox")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.outbox")
	}
	return &OutboxNotifier{outbox: outbox, now: time.Now, logger: l}
}

func (n *OutboxNotifier) NotifySubmitted(ctx context.Context, requestID string) error {
	return n.enqueue(ctx, requestID, events.LeaveSubmitted)
}

func (n *OutboxNotifier) NotifyDecided(ctx context.Context, requestID string, action leave.Action) error {
	kind := events.LeaveRejected
	if action == leave.ActionApprove {
		kind = events.LeaveApproved
	}
	return n.enqueue(ctx, requestID, kind)
}

func (n *OutboxNotifier) enqueue(ctx context.Context, requestID, kind string) error {
	payload := events.LeaveNotificationRequestedEvent{
		EventID:    uuid.NewString(),
		EventType:  events.LeaveNotificationEventType,
		Kind:       kind,
		RequestID:  requestID,
		OccurredAt: n.now().UTC(),
	}
	event, err := kafka.NewOutboxEvent(
		events.LeaveNotificationsTopic,
		events.LeaveNotificationEventType,
		events.LeaveRequestAggregate,
		requestID,
		contextutil.GetRequestID(ctx),
		payload,
	)
	if err != nil {
		return err
	}
	if err := n.outbox.Create(ctx, event); err != nil {
		return err
	}
	n.logger.Debug("leave notification queued",
		zap.String("request_id", requestID),
		zap.String("kind", kind),
		zap.String("outbox_id", event.ID),
	)
	return nil
}
