// Package geocache is an in-memory TTL cache for reverse-geocode
// results. Placemarks for a coordinate are stable on the provider's
// timescale, so repeated lookups within the TTL are served locally and
// byte-identically.
package geocache

import (
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/locationator/locationator/internal/geo"
)

const defaultCleanupInterval = 5 * time.Minute

type entry struct {
	placemark *geo.Placemark
	expiresAt time.Time
}

// Cache caches placemarks by exact coordinate.
type Cache struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	clock           clockwork.Clock

	mu          sync.RWMutex
	entries     map[string]entry
	lastCleanup time.Time
}

// New creates a cache with the given TTL. A zero or negative TTL
// disables caching: Get always misses and Put is a no-op.
func New(ttl time.Duration, clock clockwork.Clock) *Cache {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Cache{
		ttl:             ttl,
		cleanupInterval: defaultCleanupInterval,
		clock:           clock,
		entries:         make(map[string]entry),
		lastCleanup:     clock.Now(),
	}
}

// Get returns the cached placemark for coord, if present and fresh.
func (c *Cache) Get(coord geo.Coordinate) (*geo.Placemark, bool) {
	if c.ttl <= 0 {
		return nil, false
	}

	c.mu.RLock()
	e, ok := c.entries[key(coord)]
	c.mu.RUnlock()

	if !ok || c.clock.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.placemark, true
}

// Put stores a placemark for coord. Expired entries are swept
// opportunistically so the map does not grow without bound.
func (c *Cache) Put(coord geo.Coordinate, placemark *geo.Placemark) {
	if c.ttl <= 0 {
		return
	}

	now := c.clock.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key(coord)] = entry{placemark: placemark, expiresAt: now.Add(c.ttl)}

	if now.Sub(c.lastCleanup) >= c.cleanupInterval {
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
		c.lastCleanup = now
	}
}

// Len returns the number of entries currently held, expired or not.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func key(coord geo.Coordinate) string {
	return strconv.FormatFloat(coord.Latitude, 'f', -1, 64) + "," +
		strconv.FormatFloat(coord.Longitude, 'f', -1, 64)
}
