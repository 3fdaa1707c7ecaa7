package dashboard

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"classmarket/internal/domain/analytics"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/response"
)

type Handler struct {
	service *Service
	log     logger.Logger
	now     func() time.Time
}

func NewHandler(service *Service, log logger.Logger) *Handler {
	return &Handler{service: service, log: log, now: time.Now}
}

// GetMine handles GET /partner/dashboard?period=30d.
func (h *Handler) GetMine(c *gin.Context) {
	partnerID := c.GetInt64("user_id")
	if partnerID == 0 {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized")
		return
	}
	h.respond(c, partnerID)
}

// GetForPartner handles GET /admin/partners/:id/dashboard.
func (h *Handler) GetForPartner(c *gin.Context) {
	partnerID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || partnerID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid partner id")
		return
	}
	h.respond(c, partnerID)
}

func (h *Handler) respond(c *gin.Context, partnerID int64) {
	period, err := analytics.ParsePeriod(c.Query("period"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_PERIOD", err.Error())
		return
	}

	snap, err := h.service.Snapshot(c.Request.Context(), partnerID, period, h.now())
	if err != nil {
		h.log.Error("build dashboard", "partner_id", partnerID, "error", err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to build dashboard")
		return
	}
	response.Success(c, http.StatusOK, snap)
}
