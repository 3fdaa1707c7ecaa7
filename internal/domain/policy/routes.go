package policy

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	policies := rg.Group("/policies")
	{
		policies.POST("/refund-quote", h.RefundQuote)
		policies.POST("/commission-quote", h.CommissionQuote)
	}
}
