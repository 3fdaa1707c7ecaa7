package payout

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/policy"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
)

// CommissionSource supplies the active commission rates for credits.
type CommissionSource interface {
	GetCommissionConfig(ctx context.Context) (policy.CommissionConfig, error)
}

type Handler struct {
	service    *Service
	commission CommissionSource
	log        logger.Logger
}

func NewHandler(service *Service, commission CommissionSource, log logger.Logger) *Handler {
	return &Handler{service: service, commission: commission, log: log}
}

func (h *Handler) GetMySummary(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), partnerID)
	if err != nil {
		h.log.Error("payout summary", "partner_id", partnerID, "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to get payout summary")
		return
	}
	response.Success(c, http.StatusOK, summary)
}

func (h *Handler) ListMyEntries(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	entries, err := h.service.ListEntries(c.Request.Context(), partnerID)
	if err != nil {
		h.log.Error("list ledger entries", "partner_id", partnerID, "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list ledger entries")
		return
	}

	out := make([]EntryResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toEntryResponse(&entries[i]))
	}
	response.Success(c, http.StatusOK, gin.H{"entries": out})
}

func (h *Handler) WithdrawMine(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	bal, entry, err := h.service.Withdraw(c.Request.Context(), partnerID, req.Amount)
	if err != nil {
		h.writeError(c, err, "failed to withdraw")
		return
	}
	response.Success(c, http.StatusOK, MovementResponse{Summary: toSummary(bal), Entry: toEntryResponse(entry)})
}

func (h *Handler) ReleaseForPartner(c *gin.Context) {
	partnerID, ok := partnerParam(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	bal, entry, err := h.service.Release(c.Request.Context(), partnerID, req.Amount)
	if err != nil {
		h.writeError(c, err, "failed to release funds")
		return
	}
	response.Success(c, http.StatusOK, MovementResponse{Summary: toSummary(bal), Entry: toEntryResponse(entry)})
}

func (h *Handler) CreditForPartner(c *gin.Context) {
	partnerID, ok := partnerParam(c)
	if !ok {
		return
	}

	var req CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid request body")
		return
	}

	cfg, err := h.commission.GetCommissionConfig(c.Request.Context())
	if err != nil {
		h.log.Error("load commission config", "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to load commission config")
		return
	}

	entry, err := h.service.Credit(c.Request.Context(), partnerID, req.BookingID, req.IsSubscriber, cfg)
	if err != nil {
		h.writeError(c, err, "failed to credit booking")
		return
	}
	response.Success(c, http.StatusCreated, toEntryResponse(entry))
}

func (h *Handler) writeError(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, policy.ErrValidation):
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, ErrInsufficientFunds):
		response.Error(c, http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS", err.Error())
	case errors.Is(err, booking.ErrNotFound):
		response.Error(c, http.StatusNotFound, "BOOKING_NOT_FOUND", "booking not found")
	case errors.Is(err, ErrAlreadyCredited):
		response.Error(c, http.StatusConflict, "ALREADY_CREDITED", err.Error())
	case errors.Is(err, policy.ErrInvalidRate):
		response.Error(c, http.StatusUnprocessableEntity, "INVALID_RATE", err.Error())
	default:
		h.log.Error(msg, "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", msg)
	}
}

func partnerParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid partner id")
		return 0, false
	}
	return id, true
}
