package geocache

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/locationator/locationator/internal/geo"
)

var sofi = geo.Coordinate{Latitude: 33.953636, Longitude: -118.33895}

func TestCache_HitWithinTTL(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := New(5*time.Minute, clock)

	pm := &geo.Placemark{Locality: "Inglewood"}
	cache.Put(sofi, pm)

	got, ok := cache.Get(sofi)
	require.True(t, ok)
	assert.Same(t, pm, got)

	clock.Advance(4 * time.Minute)
	_, ok = cache.Get(sofi)
	assert.True(t, ok)
}

func TestCache_MissAfterExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := New(5*time.Minute, clock)

	cache.Put(sofi, &geo.Placemark{Locality: "Inglewood"})
	clock.Advance(5*time.Minute + time.Second)

	_, ok := cache.Get(sofi)
	assert.False(t, ok)
}

func TestCache_DistinctCoordinatesDistinctEntries(t *testing.T) {
	cache := New(time.Minute, clockwork.NewFakeClock())

	cache.Put(sofi, &geo.Placemark{Locality: "Inglewood"})
	cache.Put(geo.Coordinate{Latitude: 52.3676, Longitude: 4.9041}, &geo.Placemark{Locality: "Amsterdam"})

	got, ok := cache.Get(sofi)
	require.True(t, ok)
	assert.Equal(t, "Inglewood", got.Locality)
	assert.Equal(t, 2, cache.Len())
}

func TestCache_ZeroTTLDisables(t *testing.T) {
	cache := New(0, clockwork.NewFakeClock())

	cache.Put(sofi, &geo.Placemark{Locality: "Inglewood"})
	_, ok := cache.Get(sofi)
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Len())
}

func TestCache_SweepsExpiredEntries(t *testing.T) {
	clock := clockwork.NewFakeClock()
	cache := New(time.Minute, clock)

	cache.Put(sofi, &geo.Placemark{})
	clock.Advance(10 * time.Minute)

	// The sweep runs on write once the cleanup interval has elapsed.
	other := geo.Coordinate{Latitude: 1, Longitude: 2}
	cache.Put(other, &geo.Placemark{})

	assert.Equal(t, 1, cache.Len())
	_, ok := cache.Get(other)
	assert.True(t, ok)
}
