// Package geoservice defines the asynchronous geocoding capability the
// daemon fronts. Every operation issues exactly one upstream request and
// returns immediately; the outcome is delivered exactly once through the
// completion callback, from whatever goroutine the provider uses. There
// is no built-in timeout or cancellation; bounding the wait is the
// bridge's job.
package geoservice

import (
	"context"

	"github.com/locationator/locationator/internal/geo"
)

// GeocodeCallback receives the terminal outcome of a reverse-geocode
// request. Exactly one of placemark/err is non-nil.
type GeocodeCallback = func(placemark *geo.Placemark, err error)

// LocationCallback receives the terminal outcome of a current-location
// request. Exactly one of location/err is non-nil.
type LocationCallback = func(location *geo.Location, err error)

// Service is an opaque geocoding/location capability. Implementations
// must tolerate concurrent invocation and must invoke each callback
// exactly once.
type Service interface {
	// ReverseGeocode resolves a coordinate to a placemark.
	ReverseGeocode(ctx context.Context, coord geo.Coordinate, done GeocodeCallback)

	// RequestLocation resolves the device's current location at the
	// requested accuracy.
	RequestLocation(ctx context.Context, accuracy geo.Accuracy, done LocationCallback)

	// Name identifies the provider for logs and error messages.
	Name() string
}
