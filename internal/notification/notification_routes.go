package notification

import (
	"go-leaves/internal/middleware"
	"go-leaves/internal/nonce"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	templates := r.Group("/email-templates")
	templates.Use(guard.Authenticated()...)
	{
		templates.GET("", guard.Authorize("email_template", "manage"), handler.ListTemplates)
		templates.PUT("/:type",
			guard.Authorize("email_template", "manage"),
			guard.Nonce(nonce.ActionManageSettings),
			handler.UpdateTemplate,
		)
	}

	notifications := r.Group("/notifications")
	notifications.Use(guard.Authenticated()...)
	{
		notifications.GET("/:request_id", guard.Authorize("leave", "read_all"), handler.ListLogs)
	}
}
