package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"classmarket/internal/config"
	"classmarket/internal/database"
	"classmarket/internal/pkg/logger"
	"classmarket/internal/pkg/metrics"
	"classmarket/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(false).Fatal("load config", "error", err)
	}

	log := logger.New(cfg.IsDev())
	defer log.Sync()

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	if err := database.Migrate(db, server.Models()...); err != nil {
		log.Fatal("migrate database", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	router, err := server.Build(ctx, cfg, db, log, metrics.New(cfg.MetricsNamespace))
	if err != nil {
		log.Fatal("build server", "error", err)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", srv.Addr, "env", cfg.AppEnv, "report_timezone", cfg.ReportTimezone)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown", "error", err)
	}
}
