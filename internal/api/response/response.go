// Package response provides utilities for HTTP response handling.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/locationator/locationator/internal/api/middleware"
)

// contentTypeJSON matches the exact value clients of the original
// daemon parse against, charset included.
const contentTypeJSON = "application/json;charset=UTF-8"

// JSON writes a JSON response with the given status code.
// Includes X-Request-Id header for correlation.
func JSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// Text writes a plain-text response with the given status code.
// Includes X-Request-Id header for correlation.
func Text(w http.ResponseWriter, r *http.Request, status int, body string) {
	setRequestID(w, r)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// BadRequest writes a 400 response with the body "Bad request: <detail>".
// The prefix is part of the wire contract; clients match on it.
func BadRequest(w http.ResponseWriter, r *http.Request, detail string) {
	Text(w, r, http.StatusBadRequest, "Bad request: "+detail)
}

// NotFound writes a 404 response with the body "Not found: <path>".
func NotFound(w http.ResponseWriter, r *http.Request) {
	Text(w, r, http.StatusNotFound, "Not found: "+r.URL.Path)
}

// InternalError writes a 500 response carrying the detail verbatim.
// Upstream geocoder messages pass through unmodified.
func InternalError(w http.ResponseWriter, r *http.Request, detail string) {
	Text(w, r, http.StatusInternalServerError, detail)
}

func setRequestID(w http.ResponseWriter, r *http.Request) {
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		w.Header().Set("X-Request-Id", requestID)
	}
}
