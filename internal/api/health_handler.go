package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/lumina/internal/api/shared"
	"github.com/phrazzld/lumina/internal/blob"
	"github.com/phrazzld/lumina/internal/platform/logger"
	"github.com/phrazzld/lumina/internal/redact"
)

const healthTimeout = 2 * time.Second

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Backend string `json:"backend"`
}

// HealthHandler reports whether the blob backend is reachable.
type HealthHandler struct {
	store   blob.Store
	backend string
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler for store.
func NewHealthHandler(store blob.Store, backend string, log *slog.Logger) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{store: store, backend: backend, logger: log}
}

// Check handles GET /health. Backends without Ping are assumed healthy.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.store.(blob.Pinger); ok {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			logger.FromContextOrDefault(r.Context(), h.logger).Warn("health check failed",
				slog.String("backend", h.backend),
				redact.Attr(err))
			shared.RespondWithJSON(w, r, http.StatusServiceUnavailable,
				HealthResponse{Status: "unavailable", Backend: h.backend})
			return
		}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{Status: "ok", Backend: h.backend})
}
