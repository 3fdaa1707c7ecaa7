package payout

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterPartnerRoutes(rg *gin.RouterGroup) {
	p := rg.Group("/payouts")
	{
		p.GET("/summary", h.GetMySummary)
		p.GET("/entries", h.ListMyEntries)
		p.POST("/withdraw", h.WithdrawMine)
	}
}

// RegisterAdminRoutes mounts under /admin/partners.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/payouts/release", h.ReleaseForPartner)
	rg.POST("/:id/payouts/credit", h.CreditForPartner)
}
