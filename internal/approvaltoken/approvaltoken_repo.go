package approvaltoken

import (
	"context"
	"database/sql"
	"time"

	"go-leaves/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=approvaltoken_repo.go -destination=mock/approvaltoken_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	CreateBatch(ctx context.Context, tokens []ActionToken) error
	FindByToken(ctx context.Context, token string) (*ActionToken, error)
	// Consume marks an unused, unexpired token as used and reports how many
	// rows changed.
	Consume(ctx context.Context, token string, at time.Time, ip, userAgent string) (int64, error)
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) CreateBatch(ctx context.Context, tokens []ActionToken) error {
	if len(tokens) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&tokens).Error
}

func (r *repository) FindByToken(ctx context.Context, token string) (*ActionToken, error) {
	var t ActionToken
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repository) Consume(ctx context.Context, token string, at time.Time, ip, userAgent string) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE action_tokens SET used_at = ?, ip_address = ?, user_agent = ?
		WHERE token = ? AND used_at IS NULL AND expires_at > ?`,
		at, ip, userAgent, token, at,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at < ?", cutoff).
		Delete(&ActionToken{})
	return res.RowsAffected, res.Error
}
