package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/api/models"
	"github.com/locationator/locationator/internal/api/response"
	"github.com/locationator/locationator/internal/geo"
)

// locator is the part of the service layer the location handler needs.
type locator interface {
	CurrentLocation(ctx context.Context, accuracy geo.Accuracy, timeout time.Duration) (*geo.Location, error)
}

// LocationHandler serves GET /current_location.
type LocationHandler struct {
	locator         locator
	defaultAccuracy geo.Accuracy
	log             zerolog.Logger
}

// NewLocationHandler creates a location handler. defaultAccuracy applies
// when the request carries no accuracy parameter.
func NewLocationHandler(locator locator, defaultAccuracy geo.Accuracy, log zerolog.Logger) *LocationHandler {
	if defaultAccuracy == "" {
		defaultAccuracy = geo.AccuracyBest
	}
	return &LocationHandler{locator: locator, defaultAccuracy: defaultAccuracy, log: log}
}

// Get handles GET /current_location?accuracy=<tok>&timeout=<secs>.
// Both parameters are optional; accuracy falls back to the daemon
// default and timeout to the configured request timeout.
func (h *LocationHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	accuracy := h.defaultAccuracy
	if q.Has("accuracy") {
		parsed, err := geo.ParseAccuracy(q.Get("accuracy"))
		if err != nil {
			response.BadRequest(w, r, "Invalid accuracy")
			return
		}
		accuracy = parsed
	}

	var timeout time.Duration
	if q.Has("timeout") {
		secs, err := strconv.ParseFloat(q.Get("timeout"), 64)
		if err != nil || secs <= 0 {
			response.BadRequest(w, r, "Invalid timeout")
			return
		}
		timeout = time.Duration(secs * float64(time.Second))
	}

	location, err := h.locator.CurrentLocation(r.Context(), accuracy, timeout)
	if err != nil {
		writeLookupError(w, r, err, "Timeout waiting for location lookup to complete")
		return
	}
	response.JSON(w, r, http.StatusOK, models.NewLocationResponse(location))
}
