package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	// Requests per window. Zero disables rate limiting; the daemon is
	// local-first and unthrottled by default.
	RequestLimit int
	// Window duration
	WindowLength time.Duration
}

// Enabled reports whether the config asks for any throttling at all.
func (cfg RateLimitConfig) Enabled() bool {
	return cfg.RequestLimit > 0
}

// RateLimitByIP creates a rate limiter middleware using client IP address.
// Uses X-Forwarded-For header if present (extracted by chi's RealIP middleware).
// A zero RequestLimit yields a pass-through middleware.
func RateLimitByIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	window := cfg.WindowLength
	if window == 0 {
		window = time.Minute
	}
	return httprate.Limit(
		cfg.RequestLimit,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(rateLimitExceededHandler),
	)
}

// rateLimitExceededHandler writes a plain-text response when the rate limit
// is exceeded, matching the daemon's text error contract.
func rateLimitExceededHandler(w http.ResponseWriter, _ *http.Request) {
	// httprate doesn't expose the exact reset time, so use a
	// conservative estimate.
	w.Header().Set("Retry-After", strconv.Itoa(60))
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusTooManyRequests)
	_, _ = w.Write([]byte("Rate limit exceeded. Please try again later."))
}
