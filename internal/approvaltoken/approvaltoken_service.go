package approvaltoken

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	approvaltokenerrors "go-leaves/internal/approvaltoken/errors"
	"go-leaves/internal/leave"
	"go-leaves/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// 48 random bytes encode to 64 URL-safe characters.
	tokenBytes = 48

	DefaultTTL       = 7 * 24 * time.Hour
	DefaultRetention = 30 * 24 * time.Hour
)

type Outcome string

const (
	OutcomeValid             Outcome = "valid"
	OutcomeInvalid           Outcome = "invalid"
	OutcomeAlreadyUsed       Outcome = "already_used"
	OutcomeExpired           Outcome = "expired"
	OutcomeRequestNotPending Outcome = "request_not_pending"
)

// Validation is the result of checking a token. Only the fields relevant to
// Outcome are set.
type Validation struct {
	Outcome       Outcome
	Token         *ActionToken
	UsedAt        *time.Time
	ExpiresAt     time.Time
	RequestStatus string
}

type Pair struct {
	Approve   string
	Reject    string
	ExpiresAt time.Time
}

// RequestReader is the part of the leave store validation needs.
type RequestReader interface {
	FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error)
}

//go:generate mockgen -source=approvaltoken_service.go -destination=mock/approvaltoken_service_mock.go -package=mock
type Service interface {
	WithTx(tx *sql.Tx) Service
	MintPair(ctx context.Context, requestID, recipientEmail string) (Pair, error)
	Validate(ctx context.Context, token string) (Validation, error)
	Consume(ctx context.Context, token string, client contextutil.ClientInfo) error
	Sweep(ctx context.Context) (int64, error)
}

type Config struct {
	TTL       time.Duration
	Retention time.Duration
	Clock     func() time.Time
}

type service struct {
	repo      Repository
	requests  RequestReader
	ttl       time.Duration
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewService(repo Repository, requests RequestReader, cfg Config, logger ...*zap.Logger) Service {
	l := zap.L().Named("approvaltoken.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approvaltoken.service")
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Retention <= 0 {
		cfg.Retention = DefaultRetention
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &service{
		repo:      repo,
		requests:  requests,
		ttl:       cfg.TTL,
		retention: cfg.Retention,
		now:       cfg.Clock,
		logger:    l,
	}
}

func (s *service) WithTx(tx *sql.Tx) Service {
	cp := *s
	cp.repo = s.repo.WithTx(tx)
	return &cp
}

func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (s *service) MintPair(ctx context.Context, requestID, recipientEmail string) (Pair, error) {
	reqID, err := uuid.Parse(requestID)
	if err != nil {
		return Pair{}, approvaltokenerrors.ErrInvalidRequestID
	}
	recipientEmail = strings.TrimSpace(recipientEmail)
	if recipientEmail == "" {
		return Pair{}, approvaltokenerrors.ErrRecipientRequired
	}

	approve, err := newToken()
	if err != nil {
		return Pair{}, approvaltokenerrors.ErrTokenGenerationFailed
	}
	reject, err := newToken()
	if err != nil {
		return Pair{}, approvaltokenerrors.ErrTokenGenerationFailed
	}

	now := s.now().UTC()
	expires := now.Add(s.ttl)
	rows := []ActionToken{
		{ID: uuid.New(), RequestID: reqID, Token: approve, Action: leave.ActionApprove.String(), RecipientEmail: recipientEmail, ExpiresAt: expires, CreatedAt: now},
		{ID: uuid.New(), RequestID: reqID, Token: reject, Action: leave.ActionReject.String(), RecipientEmail: recipientEmail, ExpiresAt: expires, CreatedAt: now},
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return Pair{}, err
	}

	s.logger.Debug("minted approval token pair",
		zap.String("request_id", requestID),
		zap.Time("expires_at", expires),
	)
	return Pair{Approve: approve, Reject: reject, ExpiresAt: expires}, nil
}

// Validate checks existence, then use, then expiry, then the parent
// request's state. The first failing check decides the outcome.
func (s *service) Validate(ctx context.Context, token string) (Validation, error) {
	if token == "" {
		return Validation{Outcome: OutcomeInvalid}, nil
	}

	t, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Validation{Outcome: OutcomeInvalid}, nil
		}
		return Validation{}, err
	}

	if t.UsedAt != nil {
		return Validation{Outcome: OutcomeAlreadyUsed, Token: t, UsedAt: t.UsedAt, ExpiresAt: t.ExpiresAt}, nil
	}
	if s.now().After(t.ExpiresAt) {
		return Validation{Outcome: OutcomeExpired, Token: t, ExpiresAt: t.ExpiresAt}, nil
	}

	req, err := s.requests.FindByID(ctx, t.RequestID.String())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Validation{Outcome: OutcomeInvalid}, nil
		}
		return Validation{}, err
	}
	if req.Status != leave.StatusPending {
		return Validation{Outcome: OutcomeRequestNotPending, Token: t, ExpiresAt: t.ExpiresAt, RequestStatus: req.Status}, nil
	}

	return Validation{Outcome: OutcomeValid, Token: t, ExpiresAt: t.ExpiresAt}, nil
}

// Consume claims the token for one action. A token that was used or expired
// in the meantime yields ErrTokenAlreadyUsed.
func (s *service) Consume(ctx context.Context, token string, client contextutil.ClientInfo) error {
	affected, err := s.repo.Consume(ctx, token, s.now().UTC(), client.IP, client.UserAgent)
	if err != nil {
		return err
	}
	if affected != 1 {
		return approvaltokenerrors.ErrTokenAlreadyUsed
	}
	return nil
}

func (s *service) Sweep(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().Add(-s.retention)
	deleted, err := s.repo.DeleteExpiredBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("swept stale approval tokens",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return deleted, nil
}
