package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/locationator/locationator/internal/api/models"
	"github.com/locationator/locationator/internal/api/response"
	"github.com/locationator/locationator/internal/geo"
)

// geocoder is the part of the service layer the geocode handler needs.
type geocoder interface {
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) (*geo.Placemark, error)
}

// GeocodeHandler serves the /reverse_geocode routes.
type GeocodeHandler struct {
	locator geocoder
	log     zerolog.Logger
}

// NewGeocodeHandler creates a geocode handler.
func NewGeocodeHandler(locator geocoder, log zerolog.Logger) *GeocodeHandler {
	return &GeocodeHandler{locator: locator, log: log}
}

// Get handles GET /reverse_geocode?latitude=&longitude=.
func (h *GeocodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("latitude") || !q.Has("longitude") {
		response.BadRequest(w, r, "Missing latitude or longitude query arg")
		return
	}

	latitude, err := strconv.ParseFloat(q.Get("latitude"), 64)
	if err != nil || !geo.ValidLatitude(latitude) {
		response.BadRequest(w, r, "Invalid latitude")
		return
	}
	longitude, err := strconv.ParseFloat(q.Get("longitude"), 64)
	if err != nil || !geo.ValidLongitude(longitude) {
		response.BadRequest(w, r, "Invalid longitude")
		return
	}

	h.resolve(w, r, geo.Coordinate{Latitude: latitude, Longitude: longitude})
}

// Put handles PUT /reverse_geocode with a JSON body {latitude, longitude}.
func (h *GeocodeHandler) Put(w http.ResponseWriter, r *http.Request) {
	var body models.CoordinateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, r, "Invalid latitude/longitude: "+err.Error())
		return
	}
	if body.Latitude == nil || body.Longitude == nil {
		response.BadRequest(w, r, "Missing latitude or longitude query arg")
		return
	}
	if !geo.ValidLatitude(*body.Latitude) {
		response.BadRequest(w, r, "Invalid latitude")
		return
	}
	if !geo.ValidLongitude(*body.Longitude) {
		response.BadRequest(w, r, "Invalid longitude")
		return
	}

	h.resolve(w, r, geo.Coordinate{Latitude: *body.Latitude, Longitude: *body.Longitude})
}

func (h *GeocodeHandler) resolve(w http.ResponseWriter, r *http.Request, coord geo.Coordinate) {
	placemark, err := h.locator.ReverseGeocode(r.Context(), coord)
	if err != nil {
		writeLookupError(w, r, err, "Timeout waiting for reverse geocode to complete")
		return
	}
	response.JSON(w, r, http.StatusOK, placemark)
}

// writeLookupError maps service-layer errors onto the wire contract:
// validation errors become 400 with the field message, timeouts become
// 500 with the operation's fixed timeout body, and anything else is a
// 500 carrying the upstream message verbatim.
func writeLookupError(w http.ResponseWriter, r *http.Request, err error, timeoutBody string) {
	var verr *geo.ValidationError
	switch {
	case errors.As(err, &verr):
		response.BadRequest(w, r, verr.Message)
	case errors.Is(err, geo.ErrTimeout):
		response.InternalError(w, r, timeoutBody)
	default:
		response.InternalError(w, r, err.Error())
	}
}
