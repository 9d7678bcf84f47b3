// Package api exposes reply generation, credential management and sale plans over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"seller-assistant/internal/common/errors"
	"seller-assistant/internal/common/logger"
	"seller-assistant/internal/credentials"
	"seller-assistant/internal/reply"
	"seller-assistant/internal/sale"

	"github.com/gin-gonic/gin"
)

// Replier produces reply candidates for a customer message.
type Replier interface {
	GenerateResponse(ctx context.Context, message, apiKey string) (reply.ResultSet, error)
}

// SaleScheduler is the part of sale.Scheduler the API needs.
type SaleScheduler interface {
	Trigger(trigger string) sale.Plan
	Latest() (sale.Plan, bool)
	NextRun() time.Time
}

// ReadyCheck reports whether a dependency is reachable.
type ReadyCheck func(ctx context.Context) error

type Handler struct {
	replier   Replier
	store     credentials.Store
	scheduler SaleScheduler
	ready     ReadyCheck
	log       logger.Logger
}

func NewHandler(replier Replier, store credentials.Store, scheduler SaleScheduler, ready ReadyCheck, log logger.Logger) *Handler {
	return &Handler{replier: replier, store: store, scheduler: scheduler, ready: ready, log: log}
}

// GenerateReply handles POST /api/v1/replies.
func (h *Handler) GenerateReply(c *gin.Context) {
	ctx := c.Request.Context()

	var req ReplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}

	apiKey, err := credentials.Resolve(ctx, h.store, req.APIKey)
	if err != nil {
		h.respondError(c, err)
		return
	}

	rs, err := h.replier.GenerateResponse(ctx, req.Message, apiKey)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ReplyResponse{
		RequestID:  RequestIDFrom(c),
		Replies:    rs.Texts(),
		Candidates: rs,
	})
}

// SaveCredential handles PUT /api/v1/credentials.
func (h *Handler) SaveCredential(c *gin.Context) {
	ctx := c.Request.Context()

	var req CredentialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, errors.NewInvalidInputError(err.Error()))
		return
	}
	if err := h.store.Save(ctx, req.APIKey); err != nil {
		h.respondError(c, err)
		return
	}

	status, err := credentials.GetStatus(ctx, h.store)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info("API credential saved", map[string]interface{}{"masked": status.Masked})
	c.JSON(http.StatusOK, status)
}

// CredentialStatus handles GET /api/v1/credentials/status.
func (h *Handler) CredentialStatus(c *gin.Context) {
	status, err := credentials.GetStatus(c.Request.Context(), h.store)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// ClearCredential handles DELETE /api/v1/credentials.
func (h *Handler) ClearCredential(c *gin.Context) {
	if err := h.store.Clear(c.Request.Context()); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// TriggerSale handles POST /api/v1/sales/trigger.
func (h *Handler) TriggerSale(c *gin.Context) {
	plan := h.scheduler.Trigger(sale.TriggerManual)
	c.JSON(http.StatusCreated, h.saleResponse(&plan))
}

// LatestSale handles GET /api/v1/sales/latest.
func (h *Handler) LatestSale(c *gin.Context) {
	plan, ok := h.scheduler.Latest()
	if !ok {
		c.JSON(http.StatusOK, h.saleResponse(nil))
		return
	}
	c.JSON(http.StatusOK, h.saleResponse(&plan))
}

func (h *Handler) saleResponse(plan *sale.Plan) SaleResponse {
	resp := SaleResponse{Plan: plan}
	if next := h.scheduler.NextRun(); !next.IsZero() {
		resp.NextRun = next.Format(time.RFC3339)
	}
	return resp
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// Ready handles GET /ready.
func (h *Handler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unavailable",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	stdErr := errors.Normalize(err)
	status := statusFor(stdErr.Code)

	fields := map[string]interface{}{
		"requestId": RequestIDFrom(c),
		"code":      string(stdErr.Code),
		"status":    status,
		"error":     err.Error(),
	}
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", fields)
	} else {
		h.log.Warn("Request rejected", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		RequestID: RequestIDFrom(c),
		Error: ErrorBody{
			Code:    string(stdErr.Code),
			Message: stdErr.Message,
			Details: stdErr.Details,
		},
	})
}

func statusFor(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	case errors.ErrCodeCredentialInvalid:
		return http.StatusUnauthorized
	case errors.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case errors.ErrCodeTransportFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
