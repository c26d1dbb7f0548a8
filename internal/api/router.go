// Package api provides the HTTP API for the Locationator daemon.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/api/handler"
	"github.com/locationator/locationator/internal/api/middleware"
	"github.com/locationator/locationator/internal/api/response"
	"github.com/locationator/locationator/internal/geo"
	"github.com/locationator/locationator/internal/service"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version         string
	Port            int
	Logger          zerolog.Logger
	ServiceName     string
	Metrics         *middleware.Metrics
	Locator         *service.Locator
	DefaultAccuracy geo.Accuracy

	// RateLimit throttles per client IP when enabled. The daemon is
	// local-first, so the zero value leaves it off.
	RateLimit middleware.RateLimitConfig

	// Gatherer backs GET /metrics. Nil skips the route.
	Gatherer prometheus.Gatherer
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "locationatord"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	if cfg.RateLimit.Enabled() {
		r.Use(middleware.RateLimitByIP(cfg.RateLimit))
	}

	// Initialize handlers
	rootHandler := handler.NewRootHandler(cfg.Version, cfg.Port)
	geocodeHandler := handler.NewGeocodeHandler(cfg.Locator, cfg.Logger)
	locationHandler := handler.NewLocationHandler(cfg.Locator, cfg.DefaultAccuracy, cfg.Logger)

	r.Get("/", rootHandler.Banner)
	r.Get("/reverse_geocode", geocodeHandler.Get)
	r.Put("/reverse_geocode", geocodeHandler.Put)
	r.Get("/current_location", locationHandler.Get)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Unknown routes answer in the plain-text contract, not chi's default.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, req)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.NotFound(w, req)
	})

	return r
}
