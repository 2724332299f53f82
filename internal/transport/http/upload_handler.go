package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"pickpulse/internal/config"
	apierrors "pickpulse/internal/errors"
	api "pickpulse/pkg/contracts/api/v1"
	"pickpulse/pkg/contracts/domain"
)

// maxUploadMemory bounds the in-memory portion of a multipart parse;
// larger parts spill to temp files.
const maxUploadMemory = 32 << 20

// UploadHandler handles report batch uploads.
type UploadHandler struct {
	service      AnalysisServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(service AnalysisServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *UploadHandler {
	return &UploadHandler{
		service:      service,
		logger:       logger.With(slog.String("handler", "uploads")),
		errorHandler: errorHandler,
	}
}

// Routes returns the upload routes.
func (h *UploadHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Post("/", h.ReplaceBatch)
	r.Get("/", h.GetBatch)

	return r
}

// ReplaceBatch handles POST /api/uploads. The multipart field "files"
// carries the report workbooks; the batch replaces any previous one
// wholesale.
func (h *UploadHandler) ReplaceBatch(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusBadRequest,
			"INVALID_MULTIPART",
			"Request body is not valid multipart form data",
			map[string]interface{}{"error": err.Error()},
		))
		return
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File[config.UploadFieldName]
	if len(headers) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.New(
			http.StatusBadRequest,
			"EMPTY_BATCH",
			fmt.Sprintf("Multipart field %q holds no files", config.UploadFieldName),
		))
		return
	}

	files := make([]domain.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		part, err := fh.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"UNREADABLE_FILE",
				fmt.Sprintf("Cannot open uploaded file '%s'", fh.Filename),
				map[string]interface{}{"filename": fh.Filename, "error": err.Error()},
			))
			return
		}

		data, err := io.ReadAll(part)
		part.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"UNREADABLE_FILE",
				fmt.Sprintf("Cannot read uploaded file '%s'", fh.Filename),
				map[string]interface{}{"filename": fh.Filename, "error": err.Error()},
			))
			return
		}

		files = append(files, domain.UploadedFile{Name: fh.Filename, Data: data})
	}

	h.logger.InfoContext(r.Context(), "replacing report batch",
		slog.String("request_id", reqID),
		slog.Int("file_count", len(files)),
	)

	info, err := h.service.SetUploads(r.Context(), files)
	if err != nil {
		h.logger.WarnContext(r.Context(), "batch replacement rejected",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, api.UploadResponse{Batch: info})
}

// GetBatch handles GET /api/uploads: the summary of the active batch.
func (h *UploadHandler) GetBatch(w http.ResponseWriter, r *http.Request) {
	info, ok := h.service.Uploads()
	if !ok {
		h.errorHandler.HandleError(w, r, apierrors.ErrNoBatch)
		return
	}

	render.JSON(w, r, api.UploadResponse{Batch: info})
}
