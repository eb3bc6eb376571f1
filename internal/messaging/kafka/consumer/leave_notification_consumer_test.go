package consumer_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go-leaves/internal/events"
	"go-leaves/internal/leave"
	"go-leaves/internal/messaging/kafka/consumer"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingNotifier struct {
	calls []string
	err   error
}

func (r *recordingNotifier) NotifySubmitted(ctx context.Context, requestID string) error {
	r.calls = append(r.calls, "submitted:"+requestID)
	return r.err
}

func (r *recordingNotifier) NotifyDecided(ctx context.Context, requestID string, action leave.Action) error {
	r.calls = append(r.calls, action.String()+":"+requestID)
	return r.err
}

type fakeReader struct {
	msgs      []kafkago.Message
	committed int
	cancel    context.CancelFunc
}

func (f *fakeReader) FetchMessage(ctx context.Context) (kafkago.Message, error) {
	if len(f.msgs) == 0 {
		f.cancel()
		<-ctx.Done()
		return kafkago.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

func (f *fakeReader) CommitMessages(ctx context.Context, msgs ...kafkago.Message) error {
	f.committed += len(msgs)
	return nil
}

func message(t *testing.T, kind, requestID string) kafkago.Message {
	t.Helper()
	body, err := json.Marshal(events.LeaveNotificationRequestedEvent{Kind: kind, RequestID: requestID})
	require.NoError(t, err)
	return kafkago.Message{Value: body}
}

func TestConsumeLeaveNotifications(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reader := &fakeReader{cancel: cancel, msgs: []kafkago.Message{
		message(t, events.LeaveSubmitted, "r1"),
		{Value: []byte("not json")},
		message(t, events.LeaveApproved, "r2"),
		message(t, events.LeaveRejected, "r3"),
	}}
	notifier := &recordingNotifier{err: errors.New("one recipient failed")}

	consumer.ConsumeLeaveNotifications(ctx, reader, notifier, zap.NewNop())

	assert.Equal(t, []string{"submitted:r1", "approve:r2", "reject:r3"}, notifier.calls)
	assert.Equal(t, 4, reader.committed)
}

func TestHandleLeaveNotification_UnknownKind(t *testing.T) {
	err := consumer.HandleLeaveNotification(context.Background(), &recordingNotifier{}, events.LeaveNotificationRequestedEvent{Kind: "cancelled"})
	assert.Error(t, err)
}
