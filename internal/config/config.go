// Package config loads the daemon configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/locationator/locationator/internal/geo"
	"github.com/locationator/locationator/internal/geoservice"
)

// Config holds the configuration settings for the Locationator daemon.
type Config struct {
	// Env is the current environment: local, dev, prod.
	Env string
	// Port is the HTTP listen port.
	Port int
	// Timeout bounds each bridged geocode or location call.
	Timeout time.Duration
	// Provider selects the geocoding backend (google, nominatim).
	Provider geoservice.ProviderType
	// APIKey is the credential for providers that need one.
	APIKey string
	// Accuracy is the default accuracy for current-location requests
	// that carry no accuracy parameter.
	Accuracy geo.Accuracy
	// RateLimit is requests per minute per client IP. Zero disables.
	RateLimit int
	// CacheTTL is how long reverse-geocode results are cached. Zero
	// disables the cache.
	CacheTTL time.Duration
	// Debug enables debug-level logging.
	Debug bool

	// OTELEnabled turns on trace and metric export over OTLP.
	OTELEnabled bool
	// OTLPEndpoint is the OTLP gRPC collector address.
	OTLPEndpoint string
}

// Load reads configuration from the environment. A .env file in the
// working directory is merged in first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	port, err := intEnv("LOCATIONATOR_PORT", 8000)
	if err != nil {
		return nil, err
	}
	timeout, err := durationEnv("LOCATIONATOR_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("LOCATIONATOR_TIMEOUT: must be positive, got %s", timeout)
	}
	cacheTTL, err := durationEnv("LOCATIONATOR_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intEnv("LOCATIONATOR_RATE_LIMIT", 0)
	if err != nil {
		return nil, err
	}

	accuracy := geo.AccuracyBest
	if tok := os.Getenv("LOCATIONATOR_ACCURACY"); tok != "" {
		accuracy, err = geo.ParseAccuracy(tok)
		if err != nil {
			return nil, fmt.Errorf("LOCATIONATOR_ACCURACY: %w", err)
		}
	}

	provider := geoservice.ProviderType(defaultEnv("LOCATIONATOR_PROVIDER", string(geoservice.ProviderNominatim)))
	switch provider {
	case geoservice.ProviderGoogle, geoservice.ProviderNominatim:
	default:
		return nil, fmt.Errorf("LOCATIONATOR_PROVIDER: unknown provider %q", provider)
	}

	return &Config{
		Env:          defaultEnv("APP_ENV", "local"),
		Port:         port,
		Timeout:      timeout,
		Provider:     provider,
		APIKey:       os.Getenv("LOCATIONATOR_GOOGLE_API_KEY"),
		Accuracy:     accuracy,
		RateLimit:    rateLimit,
		CacheTTL:     cacheTTL,
		Debug:        os.Getenv("LOCATIONATOR_DEBUG") == "true",
		OTELEnabled:  os.Getenv("OTEL_ENABLED") == "true",
		OTLPEndpoint: defaultEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}, nil
}

func defaultEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func intEnv(key string, fallback int) (int, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: expected an integer, got %q", key, value)
	}
	return n, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback, nil
	}
	// Accept both bare seconds ("15") and Go durations ("15s").
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: expected a duration, got %q", key, value)
	}
	return d, nil
}
