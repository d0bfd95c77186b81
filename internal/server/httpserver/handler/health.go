package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/tokauth/internal/core/domain"
)

// handleHealth handles GET /health. It only reports that the process is up.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: h.version,
		Backend: h.backend,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready by probing the backing stores.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := h.ready(r.Context()); err != nil {
		h.logger.Warn("readiness check failed", "error", err)
		h.writeDomainError(w, r, domain.ErrServiceUnavailable.WithCause(err))
		return
	}
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ready",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}
