package approvaltoken

import (
	"net/http"

	"go-leaves/internal/leave"
	"go-leaves/internal/shared/contextutil"
	"go-leaves/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	redeemer     Redeemer
	dashboardURL string
	logger       *zap.Logger
}

func NewHandler(redeemer Redeemer, dashboardURL string, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("approvaltoken.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approvaltoken.handler")
	}
	return &Handler{redeemer: redeemer, dashboardURL: dashboardURL, logger: l}
}

func (h *Handler) Approve(c *gin.Context) {
	h.redeem(c, leave.ActionApprove)
}

func (h *Handler) Reject(c *gin.Context) {
	h.redeem(c, leave.ActionReject)
}

func (h *Handler) redeem(c *gin.Context, action leave.Action) {
	ctx := c.Request.Context()
	client := contextutil.GetClient(ctx)
	if client.IP == "" {
		client.IP = c.ClientIP()
		client.UserAgent = c.Request.UserAgent()
	}

	p := errorPage(h.dashboardURL)
	res, err := h.redeemer.Redeem(ctx, action, c.Param("token"), client)
	if err != nil {
		h.logger.Error("redeem approval link failed",
			zap.String("action", action.String()),
			zap.String("ip", client.IP),
			zap.Error(err),
		)
	} else {
		p = resultPage(res, h.dashboardURL)
		if p.Status != http.StatusOK {
			h.logger.Info("approval link refused",
				zap.String("action", action.String()),
				zap.String("outcome", string(res.Validation.Outcome)),
				zap.String("ip", client.IP),
			)
		}
	}

	c.Header("Cache-Control", "no-store")
	c.Header("Referrer-Policy", "no-referrer")
	body, err := p.render()
	if err != nil {
		h.logger.Error("render approval page failed", zap.Error(err))
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	response.HTML(c, p.Status, body)
}
