package rbac

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go-leaves/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type mockService struct{}

func (m *mockService) LoadPolicy(ctx context.Context) error {
	return nil
}

func (m *mockService) Enforce(req domain.EnforceRequest) (bool, error) {
	return req.Role == RoleHRAdmin && req.Resource == "leave" && req.Action == "approve", nil
}

func TestHandler_Check(t *testing.T) {
	gin.SetMode(gin.TestMode)

	handler := NewHandler(&mockService{})

	newRouter := func(role string) *gin.Engine {
		router := gin.New()
		router.GET("/permissions/check", func(c *gin.Context) {
			c.Set("role", role)
			c.Next()
		}, handler.Check)
		return router
	}

	decode := func(t *testing.T, w *httptest.ResponseRecorder) domain.EnforceResponse {
		var env struct {
			Ok   bool                   `json:"ok"`
			Data domain.EnforceResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
		assert.True(t, env.Ok)
		return env.Data
	}

	t.Run("admin allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/permissions/check?resource=leave&action=approve", nil)
		newRouter(RoleHRAdmin).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode(t, w).Allowed)
	})

	t.Run("employee denied", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/permissions/check?resource=leave&action=approve", nil)
		newRouter(RoleEmployee).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.False(t, decode(t, w).Allowed)
	})

	t.Run("missing query", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/permissions/check", nil)
		newRouter(RoleEmployee).ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
