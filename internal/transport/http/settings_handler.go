package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "pickpulse/internal/errors"
	api "pickpulse/pkg/contracts/api/v1"
)

// SettingsHandler serves the persisted analysis thresholds. Settings
// change only as a side effect of a successful analysis run, so the
// resource is read-only.
type SettingsHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *SettingsHandler {
	return &SettingsHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "settings")),
		errorHandler: errorHandler,
	}
}

// Routes returns the settings routes.
func (h *SettingsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetSettings)

	return r
}

// GetSettings handles GET /api/settings.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, api.SettingsResponse{Thresholds: h.service.Settings()})
}
