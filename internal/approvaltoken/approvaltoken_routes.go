package approvaltoken

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the public link endpoints. They carry no session,
// so they are rate limited per client IP.
func RegisterRoutes(r gin.IRouter, handler *Handler) {
	links := r.Group("")
	links.Use(middleware.RateLimitByIP(rate.Limit(1), 10))
	{
		links.GET("/approve/:token", handler.Approve)
		links.GET("/reject/:token", handler.Reject)
	}
}
