// Package handler implements the HTTP handlers for the Locationator daemon.
package handler

import (
	"fmt"
	"net/http"

	"github.com/locationator/locationator/internal/api/response"
)

// RootHandler serves the daemon banner on GET /.
type RootHandler struct {
	version string
	port    int
}

// NewRootHandler creates a root handler.
func NewRootHandler(version string, port int) *RootHandler {
	return &RootHandler{version: version, port: port}
}

// Banner handles GET /. Clients probe this route to discover a running
// daemon, so the body format is part of the wire contract.
func (h *RootHandler) Banner(w http.ResponseWriter, r *http.Request) {
	banner := fmt.Sprintf("Locationator server version %s is running on port %d\n", h.version, h.port)
	response.Text(w, r, http.StatusOK, banner)
}
