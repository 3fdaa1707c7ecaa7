package policy

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
	"classmarket/internal/pkg/response"
)

// Source supplies the current policy values. Implemented by the settings store.
type Source interface {
	GetCancellationPolicy(ctx context.Context) (CancellationPolicy, error)
	GetCommissionConfig(ctx context.Context) (CommissionConfig, error)
}

type Handler struct {
	source  Source
	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewHandler(source Source, log logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{source: source, log: log, metrics: m, now: time.Now}
}

// RefundQuote handles POST /policies/refund-quote.
func (h *Handler) RefundQuote(c *gin.Context) {
	var req RefundQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	var hours float64
	switch {
	case req.HoursBeforeStart != nil:
		hours = *req.HoursBeforeStart
	case req.ClassStartsAt != nil:
		hours = HoursBeforeStart(*req.ClassStartsAt, h.now())
	default:
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "hours_before_start or class_starts_at is required")
		return
	}

	p, err := h.source.GetCancellationPolicy(c.Request.Context())
	if err != nil {
		h.log.Error("load cancellation policy", "error", err)
		h.metrics.ObserveError("load_cancellation_policy")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load cancellation policy")
		return
	}

	refund, err := EvaluateRefund(p, req.Amount, hours)
	if err != nil {
		var covErr *PolicyCoverageError
		switch {
		case errors.As(err, &covErr):
			h.metrics.ObservePolicy("cancellation", "uncovered")
			response.ErrorWithDetails(c, http.StatusUnprocessableEntity, "POLICY_NOT_COVERED", err.Error(), gin.H{"hours_before_start": covErr.Hours})
		case errors.Is(err, ErrValidation):
			h.metrics.ObservePolicy("cancellation", "invalid")
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to evaluate refund")
		}
		return
	}

	h.metrics.ObservePolicy("cancellation", "ok")
	response.Success(c, http.StatusOK, RefundQuoteResponse{
		HoursBeforeStart: hours,
		RefundPct:        refund.RefundPct,
		RefundAmount:     refund.RefundAmount,
	})
}

// CommissionQuote handles POST /policies/commission-quote.
func (h *Handler) CommissionQuote(c *gin.Context) {
	var req CommissionQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	cfg, err := h.source.GetCommissionConfig(c.Request.Context())
	if err != nil {
		h.log.Error("load commission config", "error", err)
		h.metrics.ObserveError("load_commission_config")
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load commission config")
		return
	}

	split, err := CalculateCommission(req.Amount, req.IsSubscriber, cfg)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidRate):
			h.metrics.ObservePolicy("commission", "invalid_rate")
			response.Error(c, http.StatusUnprocessableEntity, "INVALID_RATE", err.Error())
		case errors.Is(err, ErrValidation):
			h.metrics.ObservePolicy("commission", "invalid")
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to calculate commission")
		}
		return
	}

	h.metrics.ObservePolicy("commission", "ok")
	response.Success(c, http.StatusOK, CommissionQuoteResponse{
		Rate:         split.Rate,
		Commission:   split.Commission,
		NetToPartner: split.NetToPartner,
	})
}
