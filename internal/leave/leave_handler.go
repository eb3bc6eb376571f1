package leave

import (
	"encoding/json"
	"net/http"
	"time"

	leaveerrors "go-leaves/internal/leave/errors"
	"go-leaves/internal/middleware"
	"go-leaves/internal/shared/apperror"
	"go-leaves/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Handler struct {
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("leave.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.handler")
	}
	return &Handler{service: service, rdb: rdb, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("leave request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	ctx := c.Request.Context()
	employeeID := c.GetString("user_id_validated")

	cacheKey, _ := c.Get(middleware.IdempotencyCacheKey)
	lockKey, _ := c.Get(middleware.IdempotencyLockKey)
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(ctx, lk)
		}
	}

	var req SubmitLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	resp, err := h.service.Submit(ctx, employeeID, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(ctx, ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) ListMine(c *gin.Context) {
	resp, err := h.service.ListMine(c.Request.Context(), c.GetString("user_id_validated"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) List(c *gin.Context) {
	var q ListLeavesRequest
	if err := c.ShouldBindQuery(&q); err != nil {
		h.writeServiceError(c, apperror.MapValidationError(err))
		return
	}

	filter := ListFilter{
		Status:      q.Status,
		Year:        q.Year,
		LeaveTypeID: q.LeaveTypeID,
		Search:      q.Search,
		Page:        q.Page,
		PageSize:    q.PageSize,
	}.normalized()

	resp, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	meta := response.NewPaginationMeta(total, filter.Page, filter.PageSize)
	response.Success(c, http.StatusOK, resp, &meta)
}

func (h *Handler) GetByID(c *gin.Context) {
	resp, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ListLogs(c *gin.Context) {
	resp, err := h.service.ListLogs(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Approve(c *gin.Context) {
	h.decide(c, ActionApprove)
}

func (h *Handler) Reject(c *gin.Context) {
	h.decide(c, ActionReject)
}

func (h *Handler) decide(c *gin.Context, action Action) {
	actorID, err := uuid.Parse(c.GetString("user_id_validated"))
	if err != nil {
		h.writeServiceError(c, leaveerrors.ErrInvalidEmployeeID)
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), Decision{
		RequestID: c.Param("id"),
		Action:    action,
		Actor:     UserActor(actorID, ChannelAdmin),
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	h.logger.Info("leave request decided by admin",
		zap.String("request_id", resp.ID),
		zap.String("status", resp.Status),
		zap.String("actor_id", actorID.String()),
	)
	response.Success(c, http.StatusOK, resp, nil)
}
