package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmarket/internal/domain/policy"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
	"classmarket/internal/pkg/validator"
)

type Handler struct {
	store *Store
	log   logger.Logger
}

func NewHandler(store *Store, log logger.Logger) *Handler {
	return &Handler{store: store, log: log}
}

func (h *Handler) GetCancellationPolicy(c *gin.Context) {
	p, err := h.store.GetCancellationPolicy(c.Request.Context())
	if err != nil {
		h.log.Error("get cancellation policy", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load cancellation policy")
		return
	}
	response.Success(c, http.StatusOK, p)
}

func (h *Handler) PutCancellationPolicy(c *gin.Context) {
	var req CancellationPolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid cancellation policy", errs)
		return
	}

	p := req.ToPolicy()
	if err := h.store.PutCancellationPolicy(c.Request.Context(), p); err != nil {
		h.writeError(c, err, "failed to save cancellation policy")
		return
	}
	response.Success(c, http.StatusOK, p.Clone())
}

func (h *Handler) GetCommission(c *gin.Context) {
	cfg, err := h.store.GetCommissionConfig(c.Request.Context())
	if err != nil {
		h.log.Error("get commission config", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load commission config")
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) PutCommission(c *gin.Context) {
	var req CommissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid commission config", errs)
		return
	}

	cfg := req.ToConfig()
	if err := h.store.PutCommissionConfig(c.Request.Context(), cfg); err != nil {
		h.writeError(c, err, "failed to save commission config")
		return
	}
	response.Success(c, http.StatusOK, cfg)
}

func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	var vErr *policy.ValidationError
	if errors.As(err, &vErr) {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", vErr.Error(), gin.H{"field": vErr.Field, "reason": vErr.Reason})
		return
	}
	h.log.Error(msg, "error", err)
	response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
}
