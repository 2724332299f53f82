package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/go-chi/render"

	"pickpulse/internal/infrastructure"
)

// ErrorHandler translates errors into RFC 7807 responses and logs them
// with the request's trace ID.
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates an error handler. includeStack controls
// whether panic responses carry a stack trace extension and should be
// off outside development.
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &ErrorHandler{
		logger:       logger,
		includeStack: includeStack,
	}
}

// HandleError writes an error as a problem details response
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	problem := h.ErrorToProblem(r.Context(), err)
	problem.Instance = r.URL.Path

	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}

	logger := infrastructure.LoggerFromContext(r.Context())
	if problem.Status >= http.StatusInternalServerError {
		infrastructure.RecordError(r.Context(), err)
		logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	} else {
		logger.Warn("request rejected",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)
	}

	if renderErr := render.Render(w, r, problem); renderErr != nil {
		h.logger.Error("failed to render problem response",
			slog.String("error", renderErr.Error()),
		)
		http.Error(w, err.Error(), problem.Status)
	}
}

// ErrorToProblem maps an error to problem details
func (h *ErrorHandler) ErrorToProblem(ctx context.Context, err error) *ProblemDetails {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			ProblemTypeTimeout,
			"Request Timeout",
			"The request took too long to process",
			"",
		)
	case errors.Is(err, ErrNoBatch):
		return NewProblemDetails(
			http.StatusConflict,
			ProblemTypeNoBatch,
			"No Reports Loaded",
			"Upload a report batch before requesting analysis",
			"",
		).WithExtension("error_code", "NO_REPORTS_LOADED")
	case errors.Is(err, ErrNoData):
		return NewProblemDetails(
			http.StatusNotFound,
			ProblemTypeNoData,
			"No Data",
			"No records match the requested analysis window",
			"",
		).WithExtension("error_code", "NO_DATA")
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		ProblemTypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		"",
	)
}

// apiErrorToProblem converts an APIError into problem details
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError) *ProblemDetails {
	problemType := ProblemTypeInternal
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		problemType = ProblemTypeValidation
	case http.StatusNotFound:
		problemType = ProblemTypeNotFound
	case http.StatusConflict:
		problemType = ProblemTypeNoBatch
	case http.StatusRequestEntityTooLarge:
		problemType = ProblemTypePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		problemType = ProblemTypeUpload
	case http.StatusTooManyRequests:
		problemType = ProblemTypeRateLimit
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		"",
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}

// HandlePanic recovers a panic into a 500 problem response
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	stack := getStackTrace()

	logger := infrastructure.LoggerFromContext(r.Context())
	logger.Error("panic recovered",
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.Any("panic", recovered),
		slog.String("stack", stack),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		ProblemTypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	)
	if traceID := infrastructure.GetTraceID(r.Context()); traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack {
		problem.WithExtension("panic", fmt.Sprintf("%v", recovered))
		problem.WithExtension("stack", stack)
	}

	if err := render.Render(w, r, problem); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// NotFound handles unknown routes
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		ProblemTypeNotFound,
		"Not Found",
		fmt.Sprintf("The requested resource %s was not found", r.URL.Path),
		r.URL.Path,
	)
	if err := render.Render(w, r, problem); err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// MethodNotAllowed handles unsupported HTTP methods on known routes
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		ProblemTypeValidation,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for %s", r.Method, r.URL.Path),
		r.URL.Path,
	)
	if err := render.Render(w, r, problem); err != nil {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
	}
}

func getStackTrace() string {
	buf := make([]byte, 4096)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
