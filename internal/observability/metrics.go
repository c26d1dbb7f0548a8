// Package observability holds the Prometheus metrics for the daemon.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for geocode request metrics.
const (
	OutcomeSuccess  = "success"
	OutcomeUpstream = "upstream_error"
	OutcomeTimeout  = "timeout"
)

// Metrics holds the Prometheus counters and histograms for the
// geocoding bridge and cache.
type Metrics struct {
	GeocodeRequests *prometheus.CounterVec   // labels: operation={reverse_geocode,current_location}, outcome
	BridgeWait      *prometheus.HistogramVec // labels: operation
	LocationIssued  prometheus.Counter
	LocationJoined  prometheus.Counter
	CacheEvents     *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all daemon metrics with the given
// registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locationator",
			Name:      "geocode_requests_total",
			Help:      "Total bridged geocode and location requests by outcome.",
		}, []string{"operation", "outcome"}),
		BridgeWait: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "locationator",
			Name:      "bridge_wait_seconds",
			Help:      "Time callers spent blocked on the async-to-sync bridge.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}, []string{"operation"}),
		LocationIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "locationator",
			Name:      "location_requests_issued_total",
			Help:      "Location requests actually issued to the provider.",
		}),
		LocationJoined: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "locationator",
			Name:      "location_requests_coalesced_total",
			Help:      "Location requests that joined an in-flight provider call.",
		}),
		CacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "locationator",
			Name:      "geocode_cache_events_total",
			Help:      "Reverse-geocode cache lookups by result.",
		}, []string{"result"}),
	}

	if reg != nil {
		reg.MustRegister(
			m.GeocodeRequests,
			m.BridgeWait,
			m.LocationIssued,
			m.LocationJoined,
			m.CacheEvents,
		)
	}

	return m
}
