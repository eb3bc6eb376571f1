package auth

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", middleware.AuthMiddleware(guard.JWTSecret), middleware.RateLimitByUser(2, 5), handler.Me)
		auth.POST("/login", middleware.RateLimitByIP(0.08, 5), handler.Login)
		auth.POST("/logout", handler.Logout)
	}
}
