package contact

import (
	"context"

	"go-leaves/internal/shared/connection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const SuggestLimit = 10

//go:generate mockgen -source=contact_repo.go -destination=mock/contact_repo_mock.go -package=mock
type Repository interface {
	// Upsert inserts c or bumps usage of the existing (user, type, email) row.
	Upsert(ctx context.Context, c *Contact) error
	Suggest(ctx context.Context, userID, contactType, query string, limit int) ([]Contact, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Upsert(ctx context.Context, c *Contact) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "contact_type"}, {Name: "email_address"}},
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "usage_count"}, Value: gorm.Expr("contacts.usage_count + 1")},
				{Column: clause.Column{Name: "last_used"}, Value: gorm.Expr("EXCLUDED.last_used")},
				{Column: clause.Column{Name: "display_name"}, Value: gorm.Expr(
					"CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE contacts.display_name END",
				)},
			},
		}).
		Create(c).Error
}

func (r *repository) Suggest(ctx context.Context, userID, contactType, query string, limit int) ([]Contact, error) {
	if limit <= 0 || limit > SuggestLimit {
		limit = SuggestLimit
	}
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND contact_type = ?", userID, contactType)
	if query != "" {
		like := connection.ContainsPattern(query)
		q = q.Where(`email_address ILIKE ? ESCAPE '\' OR display_name ILIKE ? ESCAPE '\'`, like, like)
	}

	var contacts []Contact
	err := q.
		Order("usage_count DESC").
		Order("last_used DESC").
		Limit(limit).
		Find(&contacts).Error
	return contacts, err
}
