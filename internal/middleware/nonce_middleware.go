package middleware

import (
	"github.com/gin-gonic/gin"
)

const NonceHeader = "X-Action-Nonce"

type NonceVerifier interface {
	Verify(nonce, userID, action string) error
}

// RequireNonce checks the per-action anti-forgery nonce of a state-changing
// request. It must run after AuthMiddleware.
func RequireNonce(verifier NonceVerifier, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		nonce := c.GetHeader(NonceHeader)
		if nonce == "" {
			writeSecurityCheckFailed(c)
			return
		}
		if err := verifier.Verify(nonce, c.GetString(ContextUserID), action); err != nil {
			writeSecurityCheckFailed(c)
			return
		}
		c.Next()
	}
}
