// Package validation checks upload batches before they become the
// active report batch. It enforces mechanical limits (count, size,
// extension); report semantics such as filename dates and sheet layout
// belong to the parser, which skips rather than rejects.
package validation

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	apierrors "pickpulse/internal/errors"
	"pickpulse/pkg/contracts/domain"
)

// UploadValidator validates in-memory upload batches.
type UploadValidator struct {
	maxFileBytes int64
	maxFileCount int
	logger       *slog.Logger
}

// NewUploadValidator creates a validator with per-file and per-batch
// limits. Non-positive limits disable the corresponding check.
func NewUploadValidator(maxFileBytes int64, maxFileCount int, logger *slog.Logger) *UploadValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadValidator{
		maxFileBytes: maxFileBytes,
		maxFileCount: maxFileCount,
		logger:       logger,
	}
}

// ValidateBatch checks a whole upload batch. The first violation is
// returned as an APIError ready for RFC 7807 rendering.
func (v *UploadValidator) ValidateBatch(files []domain.UploadedFile) error {
	if len(files) == 0 {
		return apierrors.New(400, "EMPTY_BATCH", "Upload batch contains no files")
	}

	if v.maxFileCount > 0 && len(files) > v.maxFileCount {
		return apierrors.NewWithDetails(
			apierrors.ErrTooManyFiles.StatusCode,
			apierrors.ErrTooManyFiles.ErrorCode,
			fmt.Sprintf("Upload batch has %d files, limit is %d", len(files), v.maxFileCount),
			map[string]interface{}{"file_count": len(files), "limit": v.maxFileCount},
		)
	}

	for _, f := range files {
		if err := v.ValidateFile(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateFile checks one member of an upload batch.
func (v *UploadValidator) ValidateFile(f domain.UploadedFile) error {
	name := filepath.Base(f.Name)

	if strings.HasPrefix(name, "~$") {
		return apierrors.NewWithDetails(
			apierrors.ErrUnsupportedFile.StatusCode,
			apierrors.ErrUnsupportedFile.ErrorCode,
			fmt.Sprintf("%s is an Excel lock file", name),
			map[string]interface{}{"filename": name},
		)
	}

	if !strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return apierrors.NewWithDetails(
			apierrors.ErrUnsupportedFile.StatusCode,
			apierrors.ErrUnsupportedFile.ErrorCode,
			fmt.Sprintf("%s is not an .xlsx workbook", name),
			map[string]interface{}{"filename": name},
		)
	}

	if len(f.Data) == 0 {
		return apierrors.NewWithDetails(400, "EMPTY_FILE",
			fmt.Sprintf("%s is empty", name),
			map[string]interface{}{"filename": name},
		)
	}

	if v.maxFileBytes > 0 && int64(len(f.Data)) > v.maxFileBytes {
		v.logger.Warn("rejecting oversize upload",
			slog.String("filename", name),
			slog.Int("size_bytes", len(f.Data)),
			slog.Int64("limit_bytes", v.maxFileBytes))
		return apierrors.NewWithDetails(
			apierrors.ErrPayloadTooLarge.StatusCode,
			apierrors.ErrPayloadTooLarge.ErrorCode,
			fmt.Sprintf("%s exceeds the %d byte limit", name, v.maxFileBytes),
			map[string]interface{}{"filename": name, "size_bytes": len(f.Data), "limit_bytes": v.maxFileBytes},
		)
	}

	return nil
}
