package leave

import (
	"go-leaves/internal/middleware"
	"go-leaves/internal/nonce"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	leaves := r.Group("/leaves")
	leaves.Use(guard.Authenticated()...)
	{
		leaves.POST("",
			guard.Authorize("leave", "create"),
			guard.Nonce(nonce.ActionSubmitLeave),
			guard.Idempotent(),
			handler.Submit,
		)
		leaves.GET("/mine", guard.Authorize("leave", "read_own"), handler.ListMine)

		leaves.GET("", guard.Authorize("leave", "read_all"), handler.List)
		leaves.GET("/:id", guard.Authorize("leave", "read_all"), handler.GetByID)
		leaves.GET("/:id/logs", guard.Authorize("leave", "read_all"), handler.ListLogs)
		leaves.POST("/:id/approve",
			guard.Authorize("leave", "approve"),
			guard.Nonce(nonce.ActionApproveLeave),
			handler.Approve,
		)
		leaves.POST("/:id/reject",
			guard.Authorize("leave", "approve"),
			guard.Nonce(nonce.ActionRejectLeave),
			handler.Reject,
		)
	}
}

func RegisterExportRoutes(r *gin.RouterGroup, handler *ExportHandler, guard *middleware.Guard) {
	leaves := r.Group("/leaves")
	leaves.Use(guard.Authenticated()...)
	{
		leaves.GET("/export", guard.Authorize("leave", "read_all"), handler.Workbook)
		leaves.GET("/mine/calendar.ics", guard.Authorize("leave", "read_own"), handler.Calendar)
	}
}
