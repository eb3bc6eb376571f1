package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "go-leaves/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var knownTemplateTypes = map[string]bool{
	TemplateSubmitted: true,
	TemplateApproved:  true,
	TemplateRejected:  true,
	TemplateManager:   true,
	TemplateReliever:  true,
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	ListTemplates(ctx context.Context) ([]TemplateResponse, error)
	UpdateTemplate(ctx context.Context, templateType string, req UpdateTemplateRequest) (TemplateResponse, error)
	ListLogs(ctx context.Context, requestID string) ([]NotificationLogResponse, error)
}

type service struct {
	templates TemplateRepository
	logs      LogRepository
	logger    *zap.Logger
}

func NewService(templates TemplateRepository, logs LogRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{templates: templates, logs: logs, logger: l}
}

func (s *service) ListTemplates(ctx context.Context) ([]TemplateResponse, error) {
	ts, err := s.templates.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TemplateResponse, 0, len(ts))
	for _, t := range ts {
		out = append(out, mapTemplateToResponse(t))
	}
	return out, nil
}

func (s *service) UpdateTemplate(ctx context.Context, templateType string, req UpdateTemplateRequest) (TemplateResponse, error) {
	if !knownTemplateTypes[templateType] {
		return TemplateResponse{}, notificationerrors.ErrUnknownTemplateType
	}

	affected, err := s.templates.Update(ctx, templateType, req.Subject, req.Body, *req.Active)
	if err != nil {
		return TemplateResponse{}, err
	}
	if affected == 0 {
		return TemplateResponse{}, notificationerrors.ErrTemplateNotFound
	}

	t, err := s.templates.FindByType(ctx, templateType)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TemplateResponse{}, notificationerrors.ErrTemplateNotFound
		}
		return TemplateResponse{}, err
	}

	s.logger.Info("email template updated",
		zap.String("template_type", templateType),
		zap.Bool("active", t.Active),
	)
	return mapTemplateToResponse(*t), nil
}

func (s *service) ListLogs(ctx context.Context, requestID string) ([]NotificationLogResponse, error) {
	if _, err := uuid.Parse(requestID); err != nil {
		return nil, notificationerrors.ErrInvalidRequestID
	}
	logs, err := s.logs.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	out := make([]NotificationLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, mapLogToResponse(l))
	}
	return out, nil
}

func mapTemplateToResponse(t EmailTemplate) TemplateResponse {
	return TemplateResponse{
		TemplateType: t.TemplateType,
		Subject:      t.Subject,
		Body:         t.Body,
		Active:       t.Active,
		UpdatedAt:    t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapLogToResponse(l NotificationLog) NotificationLogResponse {
	resp := NotificationLogResponse{
		ID:           l.ID.String(),
		RequestID:    l.RequestID.String(),
		EmailType:    l.EmailType,
		EmailAddress: l.EmailAddress,
		Detail:       l.Detail,
		Status:       l.Status,
		CreatedAt:    l.CreatedAt.UTC().Format(time.RFC3339),
	}
	if l.SentAt != nil {
		at := l.SentAt.UTC().Format(time.RFC3339)
		resp.SentAt = &at
	}
	return resp
}
