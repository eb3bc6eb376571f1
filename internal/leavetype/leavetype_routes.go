package leavetype

import (
	"go-leaves/internal/middleware"
	"go-leaves/internal/nonce"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	types := r.Group("/leave-types")
	types.Use(guard.Authenticated()...)
	{
		types.GET("", guard.Authorize("leave_type", "read"), handler.GetAll)
		types.GET("/:id", guard.Authorize("leave_type", "read"), handler.GetByID)
		types.PUT("/:id",
			guard.Authorize("leave_type", "manage"),
			guard.Nonce(nonce.ActionManageSettings),
			handler.Update,
		)
	}
}
