package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	apierrors "pickpulse/internal/errors"
	appmw "pickpulse/internal/middleware"
	api "pickpulse/pkg/contracts/api/v1"
)

// AnalysisHandler handles analysis run requests.
type AnalysisHandler struct {
	service      AnalysisServiceInterface
	validation   *appmw.ValidationMiddleware
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(service AnalysisServiceInterface, validation *appmw.ValidationMiddleware, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *AnalysisHandler {
	return &AnalysisHandler{
		service:      service,
		validation:   validation,
		logger:       logger.With(slog.String("handler", "analysis")),
		errorHandler: errorHandler,
	}
}

// Routes returns the analysis routes.
func (h *AnalysisHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.RunAnalysis)

	return r
}

// RunAnalysis handles POST /api/analysis. An empty body runs with the
// stored thresholds over the whole corpus.
func (h *AnalysisHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	var req api.AnalysisRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil && !errors.Is(err, io.EOF) {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	if err := h.validation.ValidateStruct(&req); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "analysis requested",
		slog.String("request_id", reqID),
		slog.String("window_kind", req.Window.Kind),
	)

	result, err := h.service.Run(r.Context(), req)
	if err != nil {
		h.logger.WarnContext(r.Context(), "analysis run failed",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.AnalysisResponse{Result: result})
}
