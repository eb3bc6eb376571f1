package balance

import (
	"go-leaves/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, guard *middleware.Guard) {
	balances := r.Group("/balances")
	balances.Use(guard.Authenticated()...)
	{
		balances.GET("", guard.Authorize("balance", "read_own"), handler.GetMine)
		balances.GET("/:employee_id", guard.Authorize("balance", "read_all"), handler.GetByEmployee)
	}
}
