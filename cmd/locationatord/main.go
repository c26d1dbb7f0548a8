// Package main provides the entrypoint for the Locationator daemon.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/api"
	"github.com/locationator/locationator/internal/api/middleware"
	"github.com/locationator/locationator/internal/config"
	"github.com/locationator/locationator/internal/geoservice"
	"github.com/locationator/locationator/internal/observability"
	"github.com/locationator/locationator/internal/service"
	"github.com/locationator/locationator/internal/telemetry"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "locationatord"

	cfg, err := config.Load()
	if err != nil {
		errLog := zerolog.New(os.Stderr)
		errLog.Fatal().Err(err).Msg("invalid configuration")
	}

	// Setup structured logging
	level := zerolog.InfoLevel
	if cfg.Debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Int("port", cfg.Port).
		Str("provider", string(cfg.Provider)).
		Dur("timeout", cfg.Timeout).
		Msg("starting Locationator daemon")

	// Initialize OpenTelemetry
	ctx := context.Background()
	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    cfg.Env,
		OTLPEndpoint:   cfg.OTLPEndpoint,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if cfg.OTELEnabled {
		log.Info().
			Str("otlp_endpoint", cfg.OTLPEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize HTTP metrics
	httpMetrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Domain metrics live in their own registry, served on /metrics.
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Initialize the geocoding provider
	provider, err := geoservice.NewProvider(geoservice.ProviderConfig{
		Type:   cfg.Provider,
		APIKey: cfg.APIKey,
		Logger: log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize geocoding provider")
	}
	log.Info().Str("provider", provider.Name()).Msg("geocoding provider initialized")

	// Initialize the locator service
	locator := service.New(service.Config{
		Provider: provider,
		Logger:   log,
		Metrics:  metrics,
		Timeout:  cfg.Timeout,
		CacheTTL: cfg.CacheTTL,
	})

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:         Version,
		Port:            cfg.Port,
		Logger:          log,
		ServiceName:     serviceName,
		Metrics:         httpMetrics,
		Locator:         locator,
		DefaultAccuracy: cfg.Accuracy,
		RateLimit: middleware.RateLimitConfig{
			RequestLimit: cfg.RateLimit,
			WindowLength: time.Minute,
		},
		Gatherer: registry,
	})

	// Create HTTP server. Write timeout leaves headroom over the bridge
	// timeout so slow geocodes still get their 500 body out.
	server := &http.Server{
		Addr:         "127.0.0.1:" + strconv.Itoa(cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
