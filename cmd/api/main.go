package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lifelineclinics/booking-gateway/internal/api/router"
	"github.com/lifelineclinics/booking-gateway/internal/app/bootstrap"
	"github.com/lifelineclinics/booking-gateway/internal/booking"
	"github.com/lifelineclinics/booking-gateway/internal/clinic"
	appconfig "github.com/lifelineclinics/booking-gateway/internal/config"
	"github.com/lifelineclinics/booking-gateway/internal/http/handlers"
	"github.com/lifelineclinics/booking-gateway/internal/lifeline"
	"github.com/lifelineclinics/booking-gateway/internal/notify"
	"github.com/lifelineclinics/booking-gateway/internal/observability/metrics"
	"github.com/lifelineclinics/booking-gateway/internal/receipt"
	"github.com/lifelineclinics/booking-gateway/internal/store"
	"github.com/lifelineclinics/booking-gateway/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting booking-gateway API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"clinic_api", cfg.ClinicAPIBaseURL,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Upstream client and shared state.
	client := lifeline.NewClient(cfg.ClinicAPIBaseURL, cfg.ClinicAPITimeout, logger)

	var cache *clinic.ProfileCache
	if redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true); redisClient != nil {
		cache = clinic.NewProfileCache(redisClient, cfg.ProfileCacheTTL)
		logger.Info("profile cache enabled", "ttl", cfg.ProfileCacheTTL)
	}
	st := store.New(client, cache, logger)

	registry := booking.NewRegistry(cfg.SessionTTL, logger)
	registry.StartSweeper(ctx, cfg.SessionSweepInterval)
	archive := receipt.NewArchive()

	// Confirmation email (best effort; nil sender disables it).
	var notifier *notify.Service
	if sender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sender != nil {
		notifier = notify.NewService(sender, cfg.PublicBaseURL, logger)
	}

	reg := prometheus.NewRegistry()
	bookingMetrics := metrics.NewBookingMetrics(reg)

	routerCfg := &router.Config{
		Logger:             logger,
		ClinicHandler:      handlers.NewClinicHandler(st, bookingMetrics, logger),
		BookingHandler:     handlers.NewBookingHandler(st, registry, archive, notifier, bookingMetrics, logger),
		PaymentsHandler:    handlers.NewPaymentsHandler(st, archive, logger),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
		BookingRateLimit:   5,
		BookingRateBurst:   20,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
