package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	contacterrors "go-leaves/internal/contact/errors"
	"go-leaves/internal/shared/emaillist"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const suggestCacheTTL = 10 * time.Minute

// SuggestCacheKey holds every cached suggestion list of one user as hash
// fields, so a single delete invalidates them all.
func SuggestCacheKey(userID string) string {
	return fmt.Sprintf("contacts:suggest:%s", userID)
}

func suggestCacheField(contactType, query string) string {
	return contactType + ":" + strings.ToLower(query)
}

//go:generate mockgen -source=contact_service.go -destination=mock/contact_service_mock.go -package=mock
type Service interface {
	Record(ctx context.Context, userID, contactType, email, displayName string) error
	RecordSubmission(ctx context.Context, userID, managerEmails, relieverEmails string) error
	Suggest(ctx context.Context, userID, contactType, query string) ([]ContactResponse, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("contact.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("contact.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, now: time.Now, logger: l}
}

func validType(t string) bool {
	return t == TypeManager || t == TypeReliever
}

func (s *service) Record(ctx context.Context, userID, contactType, email, displayName string) error {
	if err := s.record(ctx, userID, contactType, email, displayName); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

func (s *service) record(ctx context.Context, userID, contactType, email, displayName string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return contacterrors.ErrInvalidUserID
	}
	if !validType(contactType) {
		return contacterrors.ErrInvalidContactType
	}
	email = strings.TrimSpace(email)
	if !emaillist.IsValid(email) {
		return contacterrors.ErrInvalidEmail
	}

	now := s.now().UTC()
	return s.repo.Upsert(ctx, &Contact{
		ID:           uuid.New(),
		UserID:       uid,
		ContactType:  contactType,
		EmailAddress: strings.ToLower(email),
		DisplayName:  strings.TrimSpace(displayName),
		UsageCount:   1,
		LastUsed:     now,
		CreatedAt:    now,
	})
}

// RecordSubmission remembers every valid address of a submitted request.
func (s *service) RecordSubmission(ctx context.Context, userID, managerEmails, relieverEmails string) error {
	var errs []error
	for _, email := range emaillist.Unique(emaillist.Split(managerEmails)) {
		errs = append(errs, s.record(ctx, userID, TypeManager, email, ""))
	}
	for _, email := range emaillist.Unique(emaillist.Split(relieverEmails)) {
		errs = append(errs, s.record(ctx, userID, TypeReliever, email, ""))
	}
	s.invalidate(ctx, userID)
	return errors.Join(errs...)
}

func (s *service) invalidate(ctx context.Context, userID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, SuggestCacheKey(userID)).Err(); err != nil {
		s.logger.Warn("invalidate contact suggestions failed",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *service) Suggest(ctx context.Context, userID, contactType, query string) ([]ContactResponse, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, contacterrors.ErrInvalidUserID
	}
	if !validType(contactType) {
		return nil, contacterrors.ErrInvalidContactType
	}
	query = strings.TrimSpace(query)

	cacheKey := SuggestCacheKey(userID)
	field := suggestCacheField(contactType, query)

	if s.rdb != nil {
		cached, err := s.rdb.HGet(ctx, cacheKey, field).Result()
		if err == nil {
			var resp []ContactResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey+"|"+field, func() (interface{}, error) {
		contacts, err := s.repo.Suggest(ctx, userID, contactType, query, SuggestLimit)
		if err != nil {
			return nil, err
		}
		resp := mapToResponses(contacts)

		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				pipe := s.rdb.TxPipeline()
				pipe.HSet(ctx, cacheKey, field, payload)
				pipe.Expire(ctx, cacheKey, suggestCacheTTL)
				if _, err := pipe.Exec(ctx); err != nil {
					s.logger.Debug("cache contact suggestions failed", zap.Error(err))
				}
			}
		}
		return resp, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]ContactResponse), nil
}

func mapToResponses(contacts []Contact) []ContactResponse {
	out := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, ContactResponse{
			Email:       c.EmailAddress,
			DisplayName: c.DisplayName,
			UsageCount:  c.UsageCount,
			LastUsed:    c.LastUsed.UTC().Format(time.RFC3339),
		})
	}
	return out
}
