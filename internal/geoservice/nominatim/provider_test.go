package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locationator/locationator/internal/geo"
)

const sofiResponse = `{
	"name": "SoFi Stadium",
	"display_name": "SoFi Stadium, 1001, Stadium Drive, Century, Inglewood, Los Angeles County, California, 90305, United States",
	"address": {
		"house_number": "1001",
		"road": "Stadium Drive",
		"suburb": "Century",
		"city": "Inglewood",
		"county": "Los Angeles County",
		"state": "California",
		"ISO3166-2-lvl4": "US-CA",
		"postcode": "90305",
		"country": "United States",
		"country_code": "us"
	}
}`

type result struct {
	placemark *geo.Placemark
	err       error
}

func awaitGeocode(t *testing.T, p *Provider, coord geo.Coordinate) result {
	t.Helper()
	ch := make(chan result, 1)
	p.ReverseGeocode(context.Background(), coord, func(pm *geo.Placemark, err error) {
		ch <- result{pm, err}
	})
	select {
	case r := <-ch:
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
		return result{}
	}
}

func TestReverseGeocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "jsonv2", r.URL.Query().Get("format"))
		assert.Equal(t, "33.953636", r.URL.Query().Get("lat"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sofiResponse))
	}))
	defer srv.Close()

	p := NewWithClient(http.DefaultClient, zerolog.Nop())
	p.SetBaseURL(srv.URL)

	r := awaitGeocode(t, p, geo.Coordinate{Latitude: 33.953636, Longitude: -118.33895})
	require.NoError(t, r.err)
	require.NotNil(t, r.placemark)

	assert.Equal(t, "SoFi Stadium", r.placemark.Name)
	assert.Equal(t, "Inglewood", r.placemark.Locality)
	assert.Equal(t, "CA", r.placemark.AdministrativeArea)
	assert.Equal(t, "US", r.placemark.ISOCountryCode)
	assert.Equal(t, "1001 Stadium Drive", r.placemark.PostalAddress.Street)
	assert.Equal(t, [2]float64{33.953636, -118.33895}, r.placemark.Location)
	assert.Equal(t, []string{"SoFi Stadium"}, r.placemark.AreasOfInterest)
}

func TestReverseGeocode_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer srv.Close()

	p := NewWithClient(http.DefaultClient, zerolog.Nop())
	p.SetBaseURL(srv.URL)

	r := awaitGeocode(t, p, geo.Coordinate{Latitude: 0, Longitude: 0})
	require.Error(t, r.err)
	assert.True(t, geo.IsUpstream(r.err))
	assert.Contains(t, r.err.Error(), "Unable to geocode")
}

func TestReverseGeocode_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("nominatim is down"))
	}))
	defer srv.Close()

	p := New(zerolog.Nop())
	p.SetBaseURL(srv.URL)

	r := awaitGeocode(t, p, geo.Coordinate{Latitude: 33.953636, Longitude: -118.33895})
	require.Error(t, r.err)
	assert.Nil(t, r.placemark)
	assert.True(t, geo.IsUpstream(r.err))
	assert.Contains(t, r.err.Error(), "Bad Gateway")
	assert.Contains(t, r.err.Error(), "nominatim is down")
}

func TestRequestLocation_Unsupported(t *testing.T) {
	p := NewWithClient(http.DefaultClient, zerolog.Nop())

	ch := make(chan error, 1)
	p.RequestLocation(context.Background(), geo.AccuracyBest, func(loc *geo.Location, err error) {
		assert.Nil(t, loc)
		ch <- err
	})

	select {
	case err := <-ch:
		require.Error(t, err)
		assert.True(t, geo.IsUpstream(err))
	case <-time.After(5 * time.Second):
		t.Fatal("callback never fired")
	}
}
