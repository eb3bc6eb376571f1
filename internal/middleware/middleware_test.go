package middleware_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leaves/internal/domain"
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

const testSecret = "access-secret-for-tests"

type apiEnvelope struct {
	Ok    bool `json:"ok"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	assert.NoError(t, json.Unmarshal(body, &env))
	return env
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	assert.NoError(t, err)
	return token
}

type fakeEnforcer struct {
	allowed bool
	err     error
}

func (f fakeEnforcer) Enforce(req domain.EnforceRequest) (bool, error) {
	return f.allowed, f.err
}

type fakeNonces struct {
	valid string
}

func (f fakeNonces) Verify(nonce, userID, action string) error {
	if nonce != f.valid {
		return errors.New("bad nonce")
	}
	return nil
}

func init() {
	gin.SetMode(gin.TestMode)
}

func TestAuthMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString("user_id"), "role": c.GetString("role")})
	})

	t.Run("valid bearer token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "user-1",
			"role":    "hr_admin",
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"user_id":"user-1","role":"hr_admin"}`, w.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token := signToken(t, jwt.MapClaims{
			"user_id": "user-1",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		})
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Token expired", decodeEnvelope(t, w.Body.Bytes()).Error.Message)
	})
}

func TestRBACAuthorize_DeniedAndNonceFailureLookTheSame(t *testing.T) {
	newRouter := func(enforcer fakeEnforcer) *gin.Engine {
		router := gin.New()
		router.POST("/approve",
			func(c *gin.Context) {
				c.Set("user_id", "user-1")
				c.Set("role", "employee")
				c.Next()
			},
			middleware.RBACAuthorize(enforcer, "leave", "approve"),
			middleware.RequireNonce(fakeNonces{valid: "good"}, "approve_leave"),
			func(c *gin.Context) { c.Status(http.StatusNoContent) },
		)
		return router
	}

	deny := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set(middleware.NonceHeader, "good")
	newRouter(fakeEnforcer{allowed: false}).ServeHTTP(deny, req)

	badNonce := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set(middleware.NonceHeader, "forged")
	newRouter(fakeEnforcer{allowed: true}).ServeHTTP(badNonce, req)

	ok := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/approve", nil)
	req.Header.Set(middleware.NonceHeader, "good")
	newRouter(fakeEnforcer{allowed: true}).ServeHTTP(ok, req)

	assert.Equal(t, http.StatusForbidden, deny.Code)
	assert.Equal(t, http.StatusForbidden, badNonce.Code)
	assert.Equal(t, deny.Body.String(), badNonce.Body.String())
	assert.Equal(t, "UNAUTHORIZED", decodeEnvelope(t, deny.Body.Bytes()).Error.Code)
	assert.Equal(t, http.StatusNoContent, ok.Code)
}

func TestRBACAuthorize_EnforcerError(t *testing.T) {
	router := gin.New()
	router.GET("/x",
		func(c *gin.Context) { c.Set("role", "employee"); c.Next() },
		middleware.RBACAuthorize(fakeEnforcer{err: errors.New("boom")}, "leave", "read_all"),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIdempotency(t *testing.T) {
	const cacheKey = "idemp:/leaves:user-1:key-1"

	newRouter := func(t *testing.T) (*gin.Engine, redismock.ClientMock, *bool, *string) {
		db, mock := redismock.NewClientMock()
		called := false
		gotKey := ""
		router := gin.New()
		router.POST("/leaves",
			func(c *gin.Context) { c.Set("user_id_validated", "user-1"); c.Next() },
			middleware.Idempotency(db),
			func(c *gin.Context) {
				called = true
				gotKey = c.GetString(middleware.IdempotencyCacheKey)
				c.Status(http.StatusCreated)
			},
		)
		return router, mock, &called, &gotKey
	}

	t.Run("replays cached result", func(t *testing.T) {
		router, mock, called, _ := newRouter(t)
		mock.ExpectGet(cacheKey).SetVal(`{"message":"done"}`)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, *called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request takes the lock", func(t *testing.T) {
		router, mock, called, gotKey := newRouter(t)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(true)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, *called)
		assert.Equal(t, cacheKey, *gotKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		router, mock, called, _ := newRouter(t)
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(cacheKey+":lock", "locked", 30*time.Second).SetVal(false)

		req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, *called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no key passes through", func(t *testing.T) {
		router, mock, called, gotKey := newRouter(t)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leaves", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, *called)
		assert.Empty(t, *gotKey)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
