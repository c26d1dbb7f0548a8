package geoservice

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/geoservice/google"
	"github.com/locationator/locationator/internal/geoservice/nominatim"
)

// ProviderType selects the geocoding backend.
type ProviderType string

const (
	// ProviderGoogle uses the Google Maps APIs (requires an API key).
	ProviderGoogle ProviderType = "google"
	// ProviderNominatim uses OpenStreetMap's Nominatim API (free, no
	// API key, reverse geocoding only).
	ProviderNominatim ProviderType = "nominatim"
)

// ProviderConfig holds configuration for creating a provider.
type ProviderConfig struct {
	Type   ProviderType
	APIKey string
	Logger zerolog.Logger
}

// NewProvider creates a geocoding provider from configuration. Provider
// instantiation is decoupled from the bridge and HTTP layers so the
// backend can be swapped at runtime.
func NewProvider(cfg ProviderConfig) (Service, error) {
	switch cfg.Type {
	case ProviderGoogle:
		if cfg.APIKey == "" {
			return nil, errors.New("API key is required for the google provider")
		}
		return google.New(cfg.APIKey, cfg.Logger)
	case ProviderNominatim:
		return nominatim.New(cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %q", cfg.Type)
	}
}
