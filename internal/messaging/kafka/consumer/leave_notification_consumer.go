package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"go-leaves/internal/events"
	"go-leaves/internal/leave"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is the part of *kafkago.Reader the consumer uses.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// ConsumeLeaveNotifications hands every leave notification event to
// notifier until ctx is done. A message is committed once its emails were
// attempted; delivery failures are already recorded per recipient.
func ConsumeLeaveNotifications(
	ctx context.Context,
	reader MessageReader,
	notifier leave.Notifier,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_notifications")
	log.Info("leave notification consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave notification consumer stopped")
				return
			}
			log.Error("fetch leave notification message failed", zap.Error(err))
			continue
		}

		var event events.LeaveNotificationRequestedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave notification event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := HandleLeaveNotification(ctx, notifier, event); err != nil {
			log.Warn("leave notification delivered with errors",
				zap.String("event_id", event.EventID),
				zap.String("request_id", event.RequestID),
				zap.String("kind", event.Kind),
				zap.Error(err),
			)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave notification message failed", zap.Error(err))
			continue
		}

		log.Info("leave notification processed",
			zap.String("request_id", event.RequestID),
			zap.String("kind", event.Kind),
		)
	}
}

// HandleLeaveNotification routes one event to the matching notifier call.
func HandleLeaveNotification(ctx context.Context, notifier leave.Notifier, event events.LeaveNotificationRequestedEvent) error {
	switch event.Kind {
	case events.LeaveSubmitted:
		return notifier.NotifySubmitted(ctx, event.RequestID)
	case events.LeaveApproved:
		return notifier.NotifyDecided(ctx, event.RequestID, leave.ActionApprove)
	case events.LeaveRejected:
		return notifier.NotifyDecided(ctx, event.RequestID, leave.ActionReject)
	default:
		return fmt.Errorf("unknown leave notification kind %q", event.Kind)
	}
}
