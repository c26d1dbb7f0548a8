// Package google adapts the Google Maps APIs to the geoservice
// capability: the Geocoding API for reverse geocoding, the Geolocation
// API for current-location fixes, and the Time Zone API to fill in the
// placemark's timezone fields.
package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"

	"github.com/locationator/locationator/internal/geo"
)

// ErrEmptyResponse is returned when the Geocoding API responds with no
// results for the requested coordinate.
var ErrEmptyResponse = errors.New("google maps returned no results for coordinate")

// API is the subset of the Google Maps client the provider uses.
// Allows mocking in tests.
type API interface {
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
	Geolocate(ctx context.Context, r *maps.GeolocationRequest) (*maps.GeolocationResult, error)
	Timezone(ctx context.Context, r *maps.TimezoneRequest) (*maps.TimezoneResult, error)
}

// Provider implements geoservice.Service against the Google Maps APIs.
type Provider struct {
	client API
	logger zerolog.Logger
}

// New creates a Google provider from an API key.
func New(apiKey string, logger zerolog.Logger) (*Provider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("create google maps client: %w", err)
	}
	return NewWithClient(client, logger), nil
}

// NewWithClient creates a Google provider with a custom API client.
func NewWithClient(client API, logger zerolog.Logger) *Provider {
	return &Provider{client: client, logger: logger}
}

// Name implements geoservice.Service.
func (p *Provider) Name() string { return "google" }

// ReverseGeocode implements geoservice.Service. The API round trips run
// on their own goroutine; done is invoked exactly once.
func (p *Provider) ReverseGeocode(ctx context.Context, coord geo.Coordinate, done func(*geo.Placemark, error)) {
	go func() {
		placemark, err := p.reverse(ctx, coord)
		if err != nil {
			done(nil, geo.Upstream(p.Name(), err))
			return
		}
		done(placemark, nil)
	}()
}

// RequestLocation implements geoservice.Service. The Geolocation API has
// no accuracy knob; the requested accuracy only shapes what the caller
// accepts, so it is logged and otherwise ignored.
func (p *Provider) RequestLocation(ctx context.Context, accuracy geo.Accuracy, done func(*geo.Location, error)) {
	go func() {
		p.logger.Debug().Str("accuracy", string(accuracy)).Msg("google geolocate")

		result, err := p.client.Geolocate(ctx, &maps.GeolocationRequest{ConsiderIP: true})
		if err != nil {
			done(nil, geo.Upstream(p.Name(), err))
			return
		}

		done(&geo.Location{
			Latitude:           result.Location.Lat,
			Longitude:          result.Location.Lng,
			HorizontalAccuracy: result.Accuracy,
			VerticalAccuracy:   -1,
			Speed:              -1,
			Course:             -1,
			Timestamp:          time.Now(),
		}, nil)
	}()
}

func (p *Provider) reverse(ctx context.Context, coord geo.Coordinate) (*geo.Placemark, error) {
	latlng := &maps.LatLng{Lat: coord.Latitude, Lng: coord.Longitude}

	p.logger.Debug().
		Float64("latitude", coord.Latitude).
		Float64("longitude", coord.Longitude).
		Msg("google reverse geocode")

	results, err := p.client.ReverseGeocode(ctx, &maps.GeocodingRequest{LatLng: latlng})
	if err != nil {
		return nil, fmt.Errorf("reverse geocode failed: %w", err)
	}
	if len(results) == 0 {
		return nil, ErrEmptyResponse
	}

	placemark := p.placemark(coord, results)

	// Timezone enrichment is best effort; a placemark without timezone
	// fields is still a valid result.
	if tz, tzErr := p.client.Timezone(ctx, &maps.TimezoneRequest{
		Location:  latlng,
		Timestamp: time.Now(),
	}); tzErr == nil {
		placemark.TimeZoneName = tz.TimeZoneID
		placemark.TimeZoneSecondsFromGMT = tz.RawOffset + tz.DstOffset
		if loc, locErr := time.LoadLocation(tz.TimeZoneID); locErr == nil {
			placemark.TimeZoneAbbreviation = time.Now().In(loc).Format("MST")
		}
	} else {
		p.logger.Warn().Err(tzErr).Msg("timezone lookup failed, leaving timezone fields empty")
	}

	return placemark, nil
}

// placemark flattens the component lists of the geocoding results into
// the placemark shape. The first result drives the address fields;
// points of interest across all results feed areasOfInterest.
func (p *Provider) placemark(coord geo.Coordinate, results []maps.GeocodingResult) *geo.Placemark {
	pm := &geo.Placemark{
		Location: [2]float64{coord.Latitude, coord.Longitude},
	}

	for _, component := range results[0].AddressComponents {
		for _, typ := range component.Types {
			switch typ {
			case "street_number":
				pm.SubThoroughfare = component.LongName
			case "route":
				pm.Thoroughfare = component.LongName
			case "neighborhood", "sublocality", "sublocality_level_1":
				if pm.SubLocality == "" {
					pm.SubLocality = component.LongName
				}
			case "locality", "postal_town":
				if pm.Locality == "" {
					pm.Locality = component.LongName
				}
			case "administrative_area_level_1":
				pm.AdministrativeArea = component.ShortName
			case "administrative_area_level_2":
				pm.SubAdministrativeArea = component.LongName
			case "postal_code":
				pm.PostalCode = component.LongName
			case "country":
				pm.Country = component.LongName
				pm.ISOCountryCode = component.ShortName
			case "natural_feature":
				if pm.InlandWater == "" {
					pm.InlandWater = component.LongName
				}
			}
		}
	}

	for _, result := range results {
		if !hasAnyType(result.Types, "point_of_interest", "premise", "establishment", "stadium") {
			continue
		}
		if len(result.AddressComponents) == 0 {
			continue
		}
		name := result.AddressComponents[0].LongName
		if pm.Name == "" {
			pm.Name = name
		}
		pm.AreasOfInterest = append(pm.AreasOfInterest, name)
	}
	if pm.Name == "" {
		pm.Name = pm.Thoroughfare
	}

	street := pm.Thoroughfare
	if pm.SubThoroughfare != "" {
		street = pm.SubThoroughfare + " " + pm.Thoroughfare
	}
	pm.PostalAddress = geo.PostalAddress{
		Street:                street,
		City:                  pm.Locality,
		State:                 pm.AdministrativeArea,
		Country:               pm.Country,
		PostalCode:            pm.PostalCode,
		ISOCountryCode:        pm.ISOCountryCode,
		SubAdministrativeArea: pm.SubAdministrativeArea,
		SubLocality:           pm.SubLocality,
	}

	return pm
}

func hasAnyType(types []string, wanted ...string) bool {
	for _, t := range types {
		for _, w := range wanted {
			if t == w {
				return true
			}
		}
	}
	return false
}
