// Package nominatim adapts OpenStreetMap's Nominatim API to the
// geoservice capability. Nominatim offers reverse geocoding only; it has
// no notion of the device's current location.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/geo"
	"github.com/locationator/locationator/internal/geoservice/resilience"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org"

// ErrNoLocationSupport is reported when a current-location request is
// routed to this provider.
var ErrNoLocationSupport = errors.New("current location lookup is not supported by the nominatim provider")

// HTTPDoer is the subset of the resilient client the provider needs.
// Allows mocking in tests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Provider implements geoservice.Service against the Nominatim API.
type Provider struct {
	client  HTTPDoer
	baseURL string
	logger  zerolog.Logger
	// userAgent is required by the Nominatim usage policy.
	userAgent string
}

// New creates a Nominatim provider with a breaker-guarded HTTP client.
func New(logger zerolog.Logger) *Provider {
	return NewWithClient(resilience.NewClient(resilience.ClientConfig{Name: "nominatim"}), logger)
}

// NewWithClient creates a Nominatim provider with a custom HTTP client.
func NewWithClient(client HTTPDoer, logger zerolog.Logger) *Provider {
	return &Provider{
		client:    client,
		baseURL:   defaultBaseURL,
		logger:    logger,
		userAgent: "Locationator/1.0 (https://github.com/locationator/locationator)",
	}
}

// SetBaseURL overrides the API endpoint, e.g. for a self-hosted
// Nominatim instance or a test server.
func (p *Provider) SetBaseURL(base string) {
	p.baseURL = strings.TrimRight(base, "/")
}

// Name implements geoservice.Service.
func (p *Provider) Name() string { return "nominatim" }

// ReverseGeocode implements geoservice.Service. The HTTP round trip runs
// on its own goroutine; done is invoked exactly once.
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

// RequestLocation implements geoservice.Service. Nominatim cannot locate
// the device; the request fails upstream immediately.
func (p *Provider) RequestLocation(ctx context.Context, _ geo.Accuracy, done func(*geo.Location, error)) {
	go func() {
		done(nil, geo.Upstream(p.Name(), ErrNoLocationSupport))
	}()
}

// reverseResponse is the subset of the Nominatim jsonv2 reverse response
// the provider consumes.
type reverseResponse struct {
	Error       string `json:"error"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		HouseNumber   string `json:"house_number"`
		Road          string `json:"road"`
		Suburb        string `json:"suburb"`
		Neighbourhood string `json:"neighbourhood"`
		City          string `json:"city"`
		Town          string `json:"town"`
		Village       string `json:"village"`
		County        string `json:"county"`
		State         string `json:"state"`
		ISOLvl4       string `json:"ISO3166-2-lvl4"`
		Postcode      string `json:"postcode"`
		Country       string `json:"country"`
		CountryCode   string `json:"country_code"`
	} `json:"address"`
}

func (p *Provider) reverse(ctx context.Context, coord geo.Coordinate) (*geo.Placemark, error) {
	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(coord.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coord.Longitude, 'f', -1, 64))
	q.Set("addressdetails", "1")

	reqURL := p.baseURL + "/reverse?" + q.Encode()
	p.logger.Debug().Str("url", reqURL).Msg("nominatim reverse geocode")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("build reverse request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("nominatim returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode nominatim response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("nominatim: %s", decoded.Error)
	}

	return p.placemark(coord, &decoded), nil
}

func (p *Provider) placemark(coord geo.Coordinate, r *reverseResponse) *geo.Placemark {
	addr := r.Address

	locality := firstNonEmpty(addr.City, addr.Town, addr.Village)
	subLocality := firstNonEmpty(addr.Suburb, addr.Neighbourhood)

	// Prefer the short region code from the ISO3166-2 subdivision when
	// present ("US-CA" -> "CA"); fall back to the full state name.
	adminArea := addr.State
	if _, code, ok := strings.Cut(addr.ISOLvl4, "-"); ok && code != "" {
		adminArea = code
	}

	name := r.Name
	if name == "" {
		name, _, _ = strings.Cut(r.DisplayName, ",")
	}

	var areas []string
	if r.Name != "" {
		areas = []string{r.Name}
	}

	street := strings.TrimSpace(addr.HouseNumber + " " + addr.Road)

	return &geo.Placemark{
		Location:              [2]float64{coord.Latitude, coord.Longitude},
		Name:                  name,
		Thoroughfare:          addr.Road,
		SubThoroughfare:       addr.HouseNumber,
		Locality:              locality,
		SubLocality:           subLocality,
		AdministrativeArea:    adminArea,
		SubAdministrativeArea: addr.County,
		PostalCode:            addr.Postcode,
		ISOCountryCode:        strings.ToUpper(addr.CountryCode),
		Country:               addr.Country,
		PostalAddress: geo.PostalAddress{
			Street:                street,
			City:                  locality,
			State:                 adminArea,
			Country:               addr.Country,
			PostalCode:            addr.Postcode,
			ISOCountryCode:        strings.ToUpper(addr.CountryCode),
			SubAdministrativeArea: addr.County,
			SubLocality:           subLocality,
		},
		AreasOfInterest: areas,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
