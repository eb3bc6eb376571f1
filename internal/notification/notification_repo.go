package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=notification_repo.go -destination=mock/notification_repo_mock.go -package=mock
type TemplateRepository interface {
	FindActiveByType(ctx context.Context, templateType string) (*EmailTemplate, error)
	FindByType(ctx context.Context, templateType string) (*EmailTemplate, error)
	ListAll(ctx context.Context) ([]EmailTemplate, error)
	Update(ctx context.Context, templateType, subject, body string, active bool) (int64, error)
}

type LogRepository interface {
	Create(ctx context.Context, log *NotificationLog) error
	ListByRequest(ctx context.Context, requestID string) ([]NotificationLog, error)
}

type templateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepository{db: db}
}

func (r *templateRepository) FindActiveByType(ctx context.Context, templateType string) (*EmailTemplate, error) {
	var t EmailTemplate
	err := r.db.WithContext(ctx).
		Where("template_type = ? AND active = ?", templateType, true).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) FindByType(ctx context.Context, templateType string) (*EmailTemplate, error) {
	var t EmailTemplate
	err := r.db.WithContext(ctx).Where("template_type = ?", templateType).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *templateRepository) ListAll(ctx context.Context) ([]EmailTemplate, error) {
	var ts []EmailTemplate
	err := r.db.WithContext(ctx).Order("template_type ASC").Find(&ts).Error
	return ts, err
}

func (r *templateRepository) Update(ctx context.Context, templateType, subject, body string, active bool) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&EmailTemplate{}).
		Where("template_type = ?", templateType).
		Updates(map[string]interface{}{
			"subject":    subject,
			"body":       body,
			"active":     active,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

type logRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) LogRepository {
	return &logRepository{db: db}
}

func (r *logRepository) Create(ctx context.Context, log *NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *logRepository) ListByRequest(ctx context.Context, requestID string) ([]NotificationLog, error) {
	var logs []NotificationLog
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&logs).Error
	return logs, err
}
