package middleware

import (
	"time"

	"go-leaves/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContextLogger copies request metadata from gin into the standard context so
// services and repositories can read it through contextutil.
func ContextLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetString("request_id")
		if rid == "" {
			rid = c.GetHeader("X-Request-ID")
		}
		if rid == "" {
			rid = uuid.New().String()
		}
		c.Header("X-Request-ID", rid)

		uid := c.GetString("user_id_validated")

		reqLogger := logger.With(
			zap.String("request_id", rid),
			zap.String("user_id", uid),
		)

		ctx := c.Request.Context()
		ctx = contextutil.WithRequestID(ctx, rid)
		ctx = contextutil.WithUserID(ctx, uid)
		ctx = contextutil.WithLogger(ctx, reqLogger)
		ctx = contextutil.WithClient(ctx, contextutil.ClientInfo{
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			At:        time.Now().UTC(),
		})

		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
