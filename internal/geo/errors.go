package geo

import "errors"

// ErrTimeout is returned when a bridged call does not complete within the
// caller's deadline. The underlying provider request is not cancelled;
// its late completion is discarded.
var ErrTimeout = errors.New("timed out waiting for completion")

// ValidationError reports a bad or missing request parameter. It maps to
// HTTP 400 and is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError carries a provider failure message verbatim. It maps to
// HTTP 500 and is distinguishable from ErrTimeout in logs.
type UpstreamError struct {
	Provider string
	Message  string
}

func (e *UpstreamError) Error() string {
	return e.Message
}

// Upstream wraps a provider error, preserving its message verbatim.
func Upstream(provider string, err error) *UpstreamError {
	return &UpstreamError{Provider: provider, Message: err.Error()}
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err is an upstream provider failure.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
