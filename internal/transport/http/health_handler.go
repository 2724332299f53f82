package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"pickpulse/pkg/contracts"
	api "pickpulse/pkg/contracts/api/v1"
)

// HealthHandler answers liveness and version probes.
type HealthHandler struct {
	version string
	started time.Time
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		version: version,
		started: time.Now(),
		logger:  logger.With(slog.String("handler", "health")),
	}
}

// HealthCheck handles GET /api/health.
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Timestamp: time.Now().UTC(),
		UptimeSec: int64(time.Since(h.started).Seconds()),
	})
}

// Version handles GET /api/version. The build metadata comes from the
// contracts package; the version itself is the one injected at startup
// so a link-time override wins.
func (h *HealthHandler) Version(w http.ResponseWriter, r *http.Request) {
	info := contracts.GetVersionInfo()
	info.Version = h.version
	render.JSON(w, r, info)
}
