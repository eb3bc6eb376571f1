package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Guard bundles what feature routes need to protect themselves.
type Guard struct {
	JWTSecret string
	RBAC      RBACService
	Nonces    NonceVerifier
	Redis     *redis.Client
}

// Authenticated returns the chain every logged-in route starts with.
func (g *Guard) Authenticated() []gin.HandlerFunc {
	return []gin.HandlerFunc{AuthMiddleware(g.JWTSecret), ExtractUserID()}
}

func (g *Guard) Authorize(resource, action string) gin.HandlerFunc {
	return RBACAuthorize(g.RBAC, resource, action)
}

func (g *Guard) Nonce(action string) gin.HandlerFunc {
	return RequireNonce(g.Nonces, action)
}

// Idempotent is a pass-through when no redis client is configured.
func (g *Guard) Idempotent() gin.HandlerFunc {
	if g.Redis == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return Idempotency(g.Redis)
}
