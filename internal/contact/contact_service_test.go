package contact_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"go-leaves/internal/contact"
	contacterrors "go-leaves/internal/contact/errors"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactRepository struct {
	upserted   []contact.Contact
	upsertErr  error
	suggestFn  func(userID, contactType, query string, limit int) ([]contact.Contact, error)
	suggestHit int
}

func (f *fakeContactRepository) Upsert(_ context.Context, c *contact.Contact) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, *c)
	return nil
}

func (f *fakeContactRepository) Suggest(_ context.Context, userID, contactType, query string, limit int) ([]contact.Contact, error) {
	f.suggestHit++
	if f.suggestFn != nil {
		return f.suggestFn(userID, contactType, query, limit)
	}
	return nil, nil
}

func TestContactService_RecordSubmission(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()

	t.Run("records each unique address with its role", func(t *testing.T) {
		repo := &fakeContactRepository{}
		svc := contact.NewService(repo, nil)

		err := svc.RecordSubmission(ctx, userID,
			"Boss@Example.com, boss@example.com",
			"peer@example.com")
		require.NoError(t, err)

		require.Len(t, repo.upserted, 2)
		assert.Equal(t, contact.TypeManager, repo.upserted[0].ContactType)
		assert.Equal(t, "boss@example.com", repo.upserted[0].EmailAddress)
		assert.Equal(t, 1, repo.upserted[0].UsageCount)
		assert.Equal(t, contact.TypeReliever, repo.upserted[1].ContactType)
		assert.Equal(t, "peer@example.com", repo.upserted[1].EmailAddress)
	})

	t.Run("invalidates cached suggestions", func(t *testing.T) {
		repo := &fakeContactRepository{}
		rdb, mock := redismock.NewClientMock()
		svc := contact.NewService(repo, rdb)

		mock.ExpectDel(contact.SuggestCacheKey(userID)).SetVal(1)

		require.NoError(t, svc.RecordSubmission(ctx, userID, "boss@example.com", ""))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repository failure is reported", func(t *testing.T) {
		repo := &fakeContactRepository{upsertErr: errors.New("db down")}
		svc := contact.NewService(repo, nil)

		err := svc.RecordSubmission(ctx, userID, "boss@example.com", "")
		assert.Error(t, err)
	})
}

func TestContactService_Record(t *testing.T) {
	ctx := context.Background()
	svc := contact.NewService(&fakeContactRepository{}, nil)

	tests := []struct {
		name    string
		userID  string
		ctype   string
		email   string
		wantErr error
	}{
		{"bad user", "nope", contact.TypeManager, "a@example.com", contacterrors.ErrInvalidUserID},
		{"bad type", uuid.NewString(), "boss", "a@example.com", contacterrors.ErrInvalidContactType},
		{"bad email", uuid.NewString(), contact.TypeReliever, "not-an-email", contacterrors.ErrInvalidEmail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Record(ctx, tt.userID, tt.ctype, tt.email, "")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestContactService_Suggest(t *testing.T) {
	ctx := context.Background()
	userID := uuid.NewString()
	lastUsed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	stored := []contact.Contact{
		{EmailAddress: "boss@example.com", DisplayName: "Boss", UsageCount: 4, LastUsed: lastUsed},
	}
	expected := []contact.ContactResponse{
		{Email: "boss@example.com", DisplayName: "Boss", UsageCount: 4, LastUsed: "2026-03-01T09:00:00Z"},
	}

	t.Run("without cache reads repository", func(t *testing.T) {
		repo := &fakeContactRepository{
			suggestFn: func(uid, ctype, q string, limit int) ([]contact.Contact, error) {
				assert.Equal(t, userID, uid)
				assert.Equal(t, contact.TypeManager, ctype)
				assert.Equal(t, "bo", q)
				assert.Equal(t, contact.SuggestLimit, limit)
				return stored, nil
			},
		}
		svc := contact.NewService(repo, nil)

		got, err := svc.Suggest(ctx, userID, contact.TypeManager, " bo ")
		require.NoError(t, err)
		assert.Equal(t, expected, got)
	})

	t.Run("cache hit skips repository", func(t *testing.T) {
		repo := &fakeContactRepository{}
		rdb, mock := redismock.NewClientMock()
		svc := contact.NewService(repo, rdb)

		payload, _ := json.Marshal(expected)
		mock.ExpectHGet(contact.SuggestCacheKey(userID), "manager:bo").SetVal(string(payload))

		got, err := svc.Suggest(ctx, userID, contact.TypeManager, "Bo")
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		assert.Zero(t, repo.suggestHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cache miss stores result", func(t *testing.T) {
		repo := &fakeContactRepository{
			suggestFn: func(string, string, string, int) ([]contact.Contact, error) { return stored, nil },
		}
		rdb, mock := redismock.NewClientMock()
		svc := contact.NewService(repo, rdb)

		key := contact.SuggestCacheKey(userID)
		payload, _ := json.Marshal(expected)
		mock.ExpectHGet(key, "reliever:").RedisNil()
		mock.ExpectTxPipeline()
		mock.ExpectHSet(key, "reliever:", payload).SetVal(1)
		mock.ExpectExpire(key, 10*time.Minute).SetVal(true)
		mock.ExpectTxPipelineExec()

		got, err := svc.Suggest(ctx, userID, contact.TypeReliever, "")
		require.NoError(t, err)
		assert.Equal(t, expected, got)
		assert.Equal(t, 1, repo.suggestHit)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("invalid type", func(t *testing.T) {
		svc := contact.NewService(&fakeContactRepository{}, nil)
		_, err := svc.Suggest(ctx, userID, "hr", "")
		assert.ErrorIs(t, err, contacterrors.ErrInvalidContactType)
	})
}
