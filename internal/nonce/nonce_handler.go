package nonce

import (
	"net/http"
	"time"

	"go-leaves/internal/shared/apperror"
	"go-leaves/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type IssueResponse struct {
	Action    string `json:"action"`
	Nonce     string `json:"nonce"`
	ExpiresAt string `json:"expires_at"`
}

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Issue(c *gin.Context) {
	action := c.Param("action")
	token, expiresAt, err := h.service.Issue(c.GetString("user_id_validated"), action)
	if err != nil {
		httpErr := apperror.ToHTTP(err)
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return
	}

	response.Success(c, http.StatusOK, IssueResponse{
		Action:    action,
		Nonce:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil)
}
