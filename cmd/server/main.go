package main

import (
	"context"
	"errors"
	"lawhealth/internal/app"
	"lawhealth/internal/config"
	"lawhealth/internal/logger"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title Law Health Check API
// @version 1.0
// @description Legal compliance self-assessment for small businesses
// @host localhost:8080
// @BasePath /v1
func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if !cfg.EnvFileLoaded {
		log.Debug("no .env file, using process environment")
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	if cfg.DefaultSecret() {
		log.Warn("JWT_SECRET not set, using the development placeholder")
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("startup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort)
		log.Info("endpoints",
			"domains", "GET /v1/lhc/domains",
			"questions", "GET /v1/lhc/questions?count=N",
			"evaluate", "POST /v1/lhc/assessments",
			"history", "GET /v1/lhc/assessments",
			"retake", "GET /v1/lhc/assessments/{id}/retake",
			"ws", "WS /v1/ws/assessments?token=...",
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	a.Close(shutdownCtx)

	log.Info("server exited")
}
