// Package resilience wraps the HTTP client used for outbound geocoding
// provider calls with a circuit breaker, so a flapping upstream trips
// fast instead of holding worker goroutines for the full timeout.
package resilience

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the breaker is open and the call was
// not attempted.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// ServerError represents an HTTP 5xx from the upstream provider. 5xx
// responses count as failures for the breaker. Body holds an excerpt of
// the response body so callers can report the upstream message.
type ServerError struct {
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	msg := "server error: " + http.StatusText(e.StatusCode)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// ClientConfig holds configuration for the breaker-guarded HTTP client.
type ClientConfig struct {
	// Name identifies the breaker in logs and state-change callbacks.
	Name string

	// Timeout bounds each individual HTTP call. Default 10s.
	Timeout time.Duration

	// OpenFor is how long the breaker stays open before probing again.
	// Default 60s.
	OpenFor time.Duration

	// ReadyToTrip overrides the trip condition. Defaults to 5+ requests
	// with a failure rate of at least 50%.
	ReadyToTrip func(counts gobreaker.Counts) bool

	// OnStateChange is invoked on breaker transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// Client is an http.Client guarded by a circuit breaker. It performs no
// retries: the daemon's error contract is terminal-per-request, and the
// caller decides whether to try again.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
}

// NewClient creates a breaker-guarded HTTP client.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.OpenFor == 0 {
		cfg.OpenFor = 60 * time.Second
	}
	if cfg.ReadyToTrip == nil {
		cfg.ReadyToTrip = defaultReadyToTrip
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenFor,
		ReadyToTrip: cfg.ReadyToTrip,
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
	}
}

func defaultReadyToTrip(counts gobreaker.Counts) bool {
	failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
	return counts.Requests >= 5 && failureRatio >= 0.5
}

// Do executes the request through the circuit breaker. The caller is
// responsible for closing the response body on success; on error the
// response is nil and the body has already been closed.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
		r, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= 500 {
			excerpt, _ := io.ReadAll(io.LimitReader(r.Body, 512))
			r.Body.Close()
			return nil, &ServerError{
				StatusCode: r.StatusCode,
				Body:       strings.TrimSpace(string(excerpt)),
			}
		}
		return r, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, ErrCircuitOpen
		}
		return nil, err
	}
	return resp, nil
}

// State returns the current breaker state.
func (c *Client) State() gobreaker.State {
	return c.breaker.State()
}
