package handler

import (
	"context"
	"net/http"

	"junkportal_backend/internal/leads/service"
	"junkportal_backend/internal/leads/transport"
	"junkportal_backend/platform/httpkit"
	"junkportal_backend/platform/logger"
	"junkportal_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubmissionLimiter enforces the persistent per-window submission quota.
type SubmissionLimiter interface {
	Allow(ctx context.Context, ip, endpoint string) bool
}

// PublicHandler handles the public (unauthenticated) estimate endpoints.
type PublicHandler struct {
	svc     *service.Service
	limiter SubmissionLimiter
	val     *validator.Validator
	log     *logger.Logger
}

const submitEndpoint = "estimate_submit"

func NewPublicHandler(svc *service.Service, limiter SubmissionLimiter, val *validator.Validator, log *logger.Logger) *PublicHandler {
	return &PublicHandler{svc: svc, limiter: limiter, val: val, log: log}
}

// RegisterRoutes registers public estimate routes.
func (h *PublicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.POST("/recalculate", h.Recalculate)
}

// Submit accepts an estimate request, runs the pricing pipeline and stores
// a new lead.
func (h *PublicHandler) Submit(c *gin.Context) {
	var req transport.SubmitEstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	// Bots fill the honeypot field. Pretend everything worked so they
	// cannot tell they were filtered.
	if req.Website != "" {
		h.log.Warn("honeypot triggered on estimate submit", "clientIp", c.ClientIP())
		httpkit.JSON(c, http.StatusCreated, transport.EstimateResponse{LeadID: uuid.New()})
		return
	}

	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if h.limiter != nil && !h.limiter.Allow(c.Request.Context(), c.ClientIP(), submitEndpoint) {
		httpkit.Error(c, http.StatusTooManyRequests, "too many submissions, please try again later", nil)
		return
	}

	resp, err := h.svc.SubmitEstimate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, resp)
}

// Recalculate replays a checklist transition and returns the new price range.
func (h *PublicHandler) Recalculate(c *gin.Context) {
	var req transport.RecalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	resp, err := h.svc.Recalculate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, resp)
}
