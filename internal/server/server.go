package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/dashboard"
	"classmarket/internal/domain/payout"
	"classmarket/internal/domain/policy"
	"classmarket/internal/domain/settings"
	"classmarket/internal/middleware"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
)

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return []interface{}{
		&booking.Model{},
		&settings.Setting{},
		&payout.PartnerBalance{},
		&payout.LedgerEntry{},
	}
}

type Handlers struct {
	Booking   *booking.Handler
	Policy    *policy.Handler
	Settings  *settings.Handler
	Payout    *payout.Handler
	Dashboard *dashboard.Handler
	LiveFeed  *dashboard.LiveFeed
}

type Deps struct {
	Log         logger.Logger
	Metrics     *metrics.Metrics
	Tokens      middleware.TokenValidator
	CORSOrigins []string
	Handlers    Handlers
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.ErrorLogger(d.Log))
	r.Use(middleware.CORS(d.CORSOrigins))
	r.Use(middleware.Metrics(d.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))

	d.Handlers.LiveFeed.RegisterRoutes(r)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(d.Tokens))
	{
		d.Handlers.Policy.RegisterRoutes(v1)

		partner := v1.Group("/partner")
		partner.Use(middleware.PartnerOnly())
		{
			d.Handlers.Dashboard.RegisterPartnerRoutes(partner)
			d.Handlers.Booking.RegisterPartnerRoutes(partner)
			d.Handlers.Payout.RegisterPartnerRoutes(partner)
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			d.Handlers.Settings.RegisterAdminRoutes(admin)

			partners := admin.Group("/partners")
			d.Handlers.Dashboard.RegisterAdminRoutes(partners)
			d.Handlers.Payout.RegisterAdminRoutes(partners)
		}
	}

	return r
}
