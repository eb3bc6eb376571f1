package balance

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	balanceerrors "go-leaves/internal/balance/errors"
	"go-leaves/internal/shared/apperror"
	"go-leaves/internal/shared/response"
	"go-leaves/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EmployeeLookup confirms an employee exists before balances are read for them.
type EmployeeLookup interface {
	FindByID(ctx context.Context, id string) (*user.User, error)
}

type Handler struct {
	service   Service
	employees EmployeeLookup
}

func NewHandler(service Service, employees EmployeeLookup) *Handler {
	return &Handler{service: service, employees: employees}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func yearFromQuery(c *gin.Context) (int, error) {
	raw := c.Query("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, balanceerrors.ErrInvalidYear
	}
	return year, nil
}

// GetMine lists the caller's balances.
func (h *Handler) GetMine(c *gin.Context) {
	h.list(c, c.GetString("user_id_validated"))
}

// GetByEmployee lists any employee's balances. Unknown employees are a 404
// so no balance rows are created for them.
func (h *Handler) GetByEmployee(c *gin.Context) {
	employeeID := c.Param("employee_id")
	if _, err := uuid.Parse(employeeID); err != nil {
		h.writeServiceError(c, balanceerrors.ErrInvalidEmployeeID)
		return
	}
	if _, err := h.employees.FindByID(c.Request.Context(), employeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = balanceerrors.ErrEmployeeNotFound
		}
		h.writeServiceError(c, err)
		return
	}
	h.list(c, employeeID)
}

func (h *Handler) list(c *gin.Context, employeeID string) {
	year, err := yearFromQuery(c)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	resp, err := h.service.ListAllBalances(c.Request.Context(), employeeID, year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}
