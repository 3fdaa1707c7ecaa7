package settings

import "github.com/gin-gonic/gin"

// RegisterAdminRoutes expects rg to be behind the admin role gate.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	s := rg.Group("/settings")
	{
		s.GET("/cancellation-policy", h.GetCancellationPolicy)
		s.PUT("/cancellation-policy", h.PutCancellationPolicy)
		s.GET("/commission", h.GetCommission)
		s.PUT("/commission", h.PutCommission)
	}
}
