package nonce

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-leaves/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
)

const (
	ActionSubmitLeave    = "submit_leave"
	ActionApproveLeave   = "approve_leave"
	ActionRejectLeave    = "reject_leave"
	ActionManageSettings = "manage_settings"
)

var knownActions = map[string]struct{}{
	ActionSubmitLeave:    {},
	ActionApproveLeave:   {},
	ActionRejectLeave:    {},
	ActionManageSettings: {},
}

var (
	ErrUnknownAction = apperror.New(
		apperror.CodeInvalidInput,
		"unknown nonce action",
		http.StatusBadRequest,
	)
	errNonceMismatch = errors.New("nonce does not match user or action")
)

type claims struct {
	Action string `json:"act"`
	jwt.RegisteredClaims
}

//go:generate mockgen -source=nonce.go -destination=mock/nonce_mock.go -package=mock
type Service interface {
	Issue(userID, action string) (string, time.Time, error)
	Verify(nonce, userID, action string) error
}

type service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService signs nonces with a secret that must differ from the access
// token secret, so an access token can never pass as a nonce.
func NewService(secret string, ttl time.Duration) Service {
	return &service{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *service) Issue(userID, action string) (string, time.Time, error) {
	if _, ok := knownActions[action]; !ok {
		return "", time.Time{}, ErrUnknownAction
	}
	now := s.now()
	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Action: action,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *service) Verify(nonce, userID, action string) error {
	var c claims
	_, err := jwt.ParseWithClaims(nonce, &c, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return err
	}
	if c.Subject != userID || c.Action != action {
		return errNonceMismatch
	}
	return nil
}
