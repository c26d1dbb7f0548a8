// Package service implements the Locator, the unit the HTTP handlers
// call into: it validates coordinates, consults the placemark cache, and
// drives the async provider through the sync bridge and the location
// guard.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/bridge"
	"github.com/locationator/locationator/internal/geo"
	"github.com/locationator/locationator/internal/geocache"
	"github.com/locationator/locationator/internal/geoservice"
	"github.com/locationator/locationator/internal/observability"
)

const (
	opReverseGeocode  = "reverse_geocode"
	opCurrentLocation = "current_location"
)

// Config holds configuration for the Locator.
type Config struct {
	Provider geoservice.Service
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
	Clock    clockwork.Clock

	// Timeout bounds each bridged call when the request does not carry
	// its own. Default 15s.
	Timeout time.Duration

	// CacheTTL is how long reverse-geocode results are cached. Zero
	// disables the cache.
	CacheTTL time.Duration
}

// Locator serves reverse-geocode and current-location requests.
type Locator struct {
	provider geoservice.Service
	guard    *bridge.Guard
	cache    *geocache.Cache
	clock    clockwork.Clock
	logger   zerolog.Logger
	metrics  *observability.Metrics
	timeout  time.Duration
}

// New creates a Locator.
func New(cfg Config) *Locator {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	guardCfg := bridge.GuardConfig{
		Service: cfg.Provider,
		Clock:   clock,
		Logger:  cfg.Logger,
	}
	if cfg.Metrics != nil {
		guardCfg.Issued = cfg.Metrics.LocationIssued
		guardCfg.Joined = cfg.Metrics.LocationJoined
	}

	return &Locator{
		provider: cfg.Provider,
		guard:    bridge.NewGuard(guardCfg),
		cache:    geocache.New(cfg.CacheTTL, clock),
		clock:    clock,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
		timeout:  timeout,
	}
}

// Timeout returns the default per-request timeout.
func (l *Locator) Timeout() time.Duration {
	return l.timeout
}

// ReverseGeocode resolves a coordinate to a placemark, blocking up to
// the configured timeout. Concurrent calls proceed fully in parallel;
// each owns an independent bridged pending call.
func (l *Locator) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*geo.Placemark, error) {
	if !geo.ValidLatitude(coord.Latitude) {
		return nil, &geo.ValidationError{Field: "latitude", Message: "Invalid latitude"}
	}
	if !geo.ValidLongitude(coord.Longitude) {
		return nil, &geo.ValidationError{Field: "longitude", Message: "Invalid longitude"}
	}

	if placemark, ok := l.cache.Get(coord); ok {
		l.cacheEvent("hit")
		l.logger.Debug().
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Msg("reverse geocode served from cache")
		return placemark, nil
	}
	l.cacheEvent("miss")

	start := l.clock.Now()
	placemark, err := bridge.Call(l.clock, l.timeout, func(done func(*geo.Placemark, error)) {
		l.provider.ReverseGeocode(ctx, coord, done)
	})
	l.observe(opReverseGeocode, start, err)

	if err != nil {
		l.logger.Error().Err(err).
			Float64("latitude", coord.Latitude).
			Float64("longitude", coord.Longitude).
			Bool("timeout", errors.Is(err, geo.ErrTimeout)).
			Msg("reverse geocode failed")
		return nil, err
	}

	l.cache.Put(coord, placemark)
	return placemark, nil
}

// CurrentLocation resolves the device's current location, coalescing
// with any in-flight request. A non-positive timeout falls back to the
// configured default.
func (l *Locator) CurrentLocation(ctx context.Context, accuracy geo.Accuracy, timeout time.Duration) (*geo.Location, error) {
	if timeout <= 0 {
		timeout = l.timeout
	}

	start := l.clock.Now()
	location, err := l.guard.RequestLocation(ctx, accuracy, timeout)
	l.observe(opCurrentLocation, start, err)

	if err != nil {
		l.logger.Error().Err(err).
			Str("accuracy", string(accuracy)).
			Bool("timeout", errors.Is(err, geo.ErrTimeout)).
			Msg("current location lookup failed")
		return nil, err
	}
	return location, nil
}

func (l *Locator) observe(operation string, start time.Time, err error) {
	if l.metrics == nil {
		return
	}
	outcome := observability.OutcomeSuccess
	switch {
	case errors.Is(err, geo.ErrTimeout):
		outcome = observability.OutcomeTimeout
	case err != nil:
		outcome = observability.OutcomeUpstream
	}
	l.metrics.GeocodeRequests.WithLabelValues(operation, outcome).Inc()
	l.metrics.BridgeWait.WithLabelValues(operation).Observe(l.clock.Since(start).Seconds())
}

func (l *Locator) cacheEvent(result string) {
	if l.metrics != nil {
		l.metrics.CacheEvents.WithLabelValues(result).Inc()
	}
}
