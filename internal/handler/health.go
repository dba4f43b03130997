package handler

import (
	"context"
	"net/http"
	"time"

	"clearview/internal/httputil"
)

// HealthHandler reports liveness and database reachability
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck is a simple health check endpoint
// GET /health
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status, code := "ok", http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, code, map[string]any{
		"status": status,
		"time":   time.Now().UTC(),
	})
}
