// Package models defines the request and response bodies of the
// Locationator HTTP API.
package models

import (
	"time"

	"github.com/locationator/locationator/internal/geo"
)

// CoordinateRequest is the JSON body of PUT /reverse_geocode. Pointer
// fields distinguish absent keys from explicit zeros.
type CoordinateRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// LocationResponse is the JSON body of GET /current_location. On success
// Error is null and the fix fields are set; on failure Error carries the
// message and every other field is null.
type LocationResponse struct {
	Latitude           *float64 `json:"latitude"`
	Longitude          *float64 `json:"longitude"`
	Altitude           *float64 `json:"altitude"`
	HorizontalAccuracy *float64 `json:"horizontal_accuracy"`
	VerticalAccuracy   *float64 `json:"vertical_accuracy"`
	Speed              *float64 `json:"speed"`
	Course             *float64 `json:"course"`
	Timestamp          *string  `json:"timestamp"`
	Error              *string  `json:"error"`
}

// NewLocationResponse builds the success body for a location fix.
func NewLocationResponse(loc *geo.Location) LocationResponse {
	ts := loc.Timestamp.Format(time.RFC3339)
	return LocationResponse{
		Latitude:           ptr(loc.Latitude),
		Longitude:          ptr(loc.Longitude),
		Altitude:           ptr(loc.Altitude),
		HorizontalAccuracy: ptr(loc.HorizontalAccuracy),
		VerticalAccuracy:   ptr(loc.VerticalAccuracy),
		Speed:              ptr(loc.Speed),
		Course:             ptr(loc.Course),
		Timestamp:          &ts,
	}
}

func ptr(f float64) *float64 { return &f }
