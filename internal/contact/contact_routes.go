package contact

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	contacts := r.Group("/contacts")
	contacts.Use(guard.Authenticated()...)
	{
		contacts.GET("/suggest",
			guard.Authorize("contact", "read"),
			middleware.RateLimitByUser(rate.Limit(5), 20),
			handler.Suggest,
		)
	}
}
