package bridge

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/geo"
	"github.com/locationator/locationator/internal/geoservice"
)

// flight is one in-flight current-location window. Its result fields are
// written exactly once, before done is closed; waiters read them only
// after done closes.
type flight struct {
	done     chan struct{}
	location *geo.Location
	err      error
}

// GuardConfig holds configuration for the location guard.
type GuardConfig struct {
	Service geoservice.Service
	Clock   clockwork.Clock
	Logger  zerolog.Logger

	// Issued / Joined count provider calls actually made versus requests
	// that joined an existing window. Optional.
	Issued prometheus.Counter
	Joined prometheus.Counter
}

// Guard coalesces concurrent current-location requests into a single
// outstanding provider call. The provider's location primitive is
// stateful per delegate; two overlapping requests could cross their
// callbacks, so coalescing is a correctness requirement, not an
// optimization.
type Guard struct {
	svc    geoservice.Service
	clock  clockwork.Clock
	logger zerolog.Logger
	issued prometheus.Counter
	joined prometheus.Counter

	mu       sync.Mutex
	inflight *flight
}

// NewGuard creates a location guard.
func NewGuard(cfg GuardConfig) *Guard {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Guard{
		svc:    cfg.Service,
		clock:  clock,
		logger: cfg.Logger,
		issued: cfg.Issued,
		joined: cfg.Joined,
	}
}

// RequestLocation returns the current location, issuing at most one
// provider call per coalescing window. A request arriving while a call
// is in flight waits for that call's terminal result instead of issuing
// its own. A waiter whose timeout elapses first gets geo.ErrTimeout and
// leaves the shared window untouched; the in-flight call keeps running
// for the remaining waiters.
func (g *Guard) RequestLocation(ctx context.Context, accuracy geo.Accuracy, timeout time.Duration) (*geo.Location, error) {
	g.mu.Lock()
	f := g.inflight
	issue := f == nil
	if issue {
		f = &flight{done: make(chan struct{})}
		g.inflight = f
	}
	g.mu.Unlock()

	if issue {
		g.count(g.issued)
		g.logger.Debug().Str("accuracy", string(accuracy)).Msg("issuing location request")
		g.svc.RequestLocation(ctx, accuracy, func(loc *geo.Location, err error) {
			f.location, f.err = loc, err
			// Clear the window before waking waiters so a caller that
			// observes done and immediately re-requests opens a fresh
			// window rather than re-joining this one.
			g.mu.Lock()
			g.inflight = nil
			g.mu.Unlock()
			close(f.done)
		})
	} else {
		g.count(g.joined)
		g.logger.Debug().Msg("joining in-flight location request")
	}

	select {
	case <-f.done:
		return f.location, f.err
	case <-g.clock.After(timeout):
		return nil, geo.ErrTimeout
	}
}

// InFlight reports whether a location call is currently outstanding.
func (g *Guard) InFlight() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.inflight != nil
}

func (g *Guard) count(c prometheus.Counter) {
	if c != nil {
		c.Inc()
	}
}
