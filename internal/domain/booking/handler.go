package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
)

type Handler struct {
	repo Repository
	log  logger.Logger
}

func NewHandler(repo Repository, log logger.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// ListMyBookings handles GET /partner/bookings.
func (h *Handler) ListMyBookings(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	bookings, err := h.repo.ListBookings(c.Request.Context(), partnerID)
	if err != nil {
		h.log.Error("list bookings", "partner_id", partnerID, "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to list bookings")
		return
	}

	response.Success(c, http.StatusOK, gin.H{"bookings": bookings})
}

// UpdateAttendance handles PATCH /partner/bookings/:id/attendance.
func (h *Handler) UpdateAttendance(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}

	var req UpdateAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "status must be one of unset, attended, no_show")
		return
	}

	b, err := h.repo.UpdateAttendance(c.Request.Context(), partnerID, c.Param("id"), AttendanceStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "booking not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		default:
			h.log.Error("update attendance", "partner_id", partnerID, "booking_id", c.Param("id"), "error", err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to update attendance")
		}
		return
	}

	response.Success(c, http.StatusOK, b)
}
