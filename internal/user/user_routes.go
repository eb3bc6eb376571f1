package user

import (
	"go-leaves/internal/middleware"
	"go-leaves/internal/nonce"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	users := r.Group("/users")
	users.Use(guard.Authenticated()...)
	users.Use(guard.Authorize("user", "manage"))
	{
		users.GET("", middleware.RateLimitByUser(3, 10), handler.GetAll)
		users.GET("/:id", middleware.RateLimitByUser(3, 10), handler.GetByID)
		users.POST("",
			middleware.RateLimitByUser(0.5, 2),
			guard.Nonce(nonce.ActionManageSettings),
			handler.Create,
		)
	}
}
