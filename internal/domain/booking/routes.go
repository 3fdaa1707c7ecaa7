package booking

import "github.com/gin-gonic/gin"

// RegisterPartnerRoutes expects rg to be the authenticated partner group.
func (h *Handler) RegisterPartnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListMyBookings)
	rg.PATCH("/bookings/:id/attendance", h.UpdateAttendance)
}
