package notification_test

import (
	"context"
	"testing"

	"go-leaves/internal/notification"
	notificationerrors "go-leaves/internal/notification/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_UpdateTemplate(t *testing.T) {
	ctx := context.Background()
	templates := defaultTemplates()
	svc := notification.NewService(templates, &fakeLogRepository{})
	inactive := false

	resp, err := svc.UpdateTemplate(ctx, notification.TemplateManager, notification.UpdateTemplateRequest{
		Subject: "Heads up - {{employee_name}}",
		Body:    "Body",
		Active:  &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Heads up - {{employee_name}}", resp.Subject)
	assert.False(t, resp.Active)

	_, err = svc.UpdateTemplate(ctx, "birthday_card", notification.UpdateTemplateRequest{Subject: "x", Body: "y", Active: &inactive})
	assert.ErrorIs(t, err, notificationerrors.ErrUnknownTemplateType)

	delete(templates.templates, notification.TemplateReliever)
	_, err = svc.UpdateTemplate(ctx, notification.TemplateReliever, notification.UpdateTemplateRequest{Subject: "x", Body: "y", Active: &inactive})
	assert.ErrorIs(t, err, notificationerrors.ErrTemplateNotFound)
}

func TestService_ListLogs(t *testing.T) {
	ctx := context.Background()
	logs := &fakeLogRepository{}
	requestID := uuid.New()
	logs.logs = []notification.NotificationLog{
		{ID: uuid.New(), RequestID: requestID, EmailType: notification.TemplateSubmitted, EmailAddress: "hr@example.com", Status: notification.StatusSent},
		{ID: uuid.New(), RequestID: uuid.New(), EmailType: notification.TemplateManager, Status: notification.StatusFailed},
	}
	svc := notification.NewService(defaultTemplates(), logs)

	out, err := svc.ListLogs(ctx, requestID.String())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "hr@example.com", out[0].EmailAddress)

	_, err = svc.ListLogs(ctx, "nope")
	assert.ErrorIs(t, err, notificationerrors.ErrInvalidRequestID)
}
