package rbac

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	group := r.Group("/permissions")
	group.Use(guard.Authenticated()...)
	{
		group.GET("/check", handler.Check)
	}
}
