package nonce

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	nonces := r.Group("/nonces")
	nonces.Use(guard.Authenticated()...)
	{
		nonces.GET("/:action", middleware.RateLimitByUser(2, 10), handler.Issue)
	}
}
