// Package bridge converts the asynchronous, callback-completed geoservice
// operations into blocking calls with caller-supplied timeouts, and
// coalesces concurrent current-location requests into a single in-flight
// provider call.
package bridge

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/locationator/locationator/internal/geo"
)

// outcome is the terminal state of one bridged call.
type outcome[T any] struct {
	value T
	err   error
}

// Call issues op and blocks until its completion callback fires or
// timeout elapses on clock.
//
// op must issue exactly one request and return immediately; the
// completion callback it is handed may be invoked from any goroutine.
// The first invocation wins: the result channel is buffered so a
// completion arriving after the timeout parks in an abandoned channel
// and is reclaimed with it, never observed by the timed-out caller.
// The underlying request is not cancelled on timeout; the capability
// has no cancellation primitive.
//
// Call is safe for concurrent use; every invocation owns its own
// pending-call state.
func Call[T any](clock clockwork.Clock, timeout time.Duration, op func(done func(T, error))) (T, error) {
	var zero T

	pending := make(chan outcome[T], 1)
	var once sync.Once
	op(func(value T, err error) {
		once.Do(func() {
			pending <- outcome[T]{value: value, err: err}
		})
	})

	select {
	case o := <-pending:
		if o.err != nil {
			return zero, o.err
		}
		return o.value, nil
	case <-clock.After(timeout):
		return zero, geo.ErrTimeout
	}
}
