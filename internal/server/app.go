package server

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"classmarket/internal/config"
	"classmarket/internal/domain/booking"
	"classmarket/internal/domain/dashboard"
	"classmarket/internal/domain/payout"
	"classmarket/internal/domain/policy"
	"classmarket/internal/domain/settings"
	"classmarket/internal/pkg/jwt"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
)

// Build wires stores, services and handlers over an opened database.
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB, log logger.Logger, m *metrics.Metrics) (*gin.Engine, error) {
	base := settings.BuiltinDefaults()
	base.Commission = cfg.DefaultCommission
	defaults, err := settings.LoadDefaults(cfg.PolicyDefaultsFile, base)
	if err != nil {
		return nil, err
	}

	store := settings.NewStore(settings.NewRepository(db), defaults, log)
	if err := store.Warm(ctx); err != nil {
		return nil, fmt.Errorf("load platform settings: %w", err)
	}

	tokens := jwt.New(cfg.JWTSecret, cfg.JWTAccessTTL)
	bookingRepo := booking.NewBookingRepository(db)
	payoutService := payout.NewService(db, bookingRepo, log)
	dashboardService := dashboard.NewService(bookingRepo, payoutService, cfg.ReportLocation, log, m)

	return NewRouter(Deps{
		Log:         log,
		Metrics:     m,
		Tokens:      tokens,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Handlers: Handlers{
			Booking:   booking.NewHandler(bookingRepo, log),
			Policy:    policy.NewHandler(store, log, m),
			Settings:  settings.NewHandler(store, log),
			Payout:    payout.NewHandler(payoutService, store, log),
			Dashboard: dashboard.NewHandler(dashboardService, log),
			LiveFeed:  dashboard.NewLiveFeed(dashboardService, tokens, cfg.DashboardRefresh, log),
		},
	}), nil
}
