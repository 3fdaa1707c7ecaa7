package dashboard

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPartnerRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.GetMine)
}

// RegisterAdminRoutes mounts under /admin/partners.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/dashboard", h.GetForPartner)
}

func (f *LiveFeed) RegisterRoutes(r gin.IRoutes) {
	r.GET("/ws/dashboard", f.Serve)
}
