// Package handler provides HTTP request handlers for DocMesh.
package handler

import (
	"net/http"
	"time"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, StatusResponse{
		Status: "healthy",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready. Readiness probes the store with a
// cheap list call so a wedged database flips the probe.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if _, err := h.docSvc.List(r.Context()); err != nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "DM-SYS-5001", "store not ready", nil)
		return
	}

	resp := StatusResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
	if h.rooms != nil {
		resp.Rooms = h.rooms.RoomCount()
	}
	h.writeJSON(w, r, http.StatusOK, resp)
}
