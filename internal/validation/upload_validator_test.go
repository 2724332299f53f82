package validation

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apierrors "pickpulse/internal/errors"
	"pickpulse/pkg/contracts/domain"
)

func newValidator(maxBytes int64, maxCount int) *UploadValidator {
	return NewUploadValidator(maxBytes, maxCount, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func report(name string, size int) domain.UploadedFile {
	return domain.UploadedFile{Name: name, Data: make([]byte, size)}
}

func TestValidateBatchAccepts(t *testing.T) {
	v := newValidator(1024, 10)

	err := v.ValidateBatch([]domain.UploadedFile{
		report("피킹바코드입력-20240115.xlsx", 100),
		report("피킹바코드입력-20240116.XLSX", 200),
	})

	assert.NoError(t, err)
}

func TestValidateBatchEmpty(t *testing.T) {
	v := newValidator(1024, 10)

	err := v.ValidateBatch(nil)

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
	assert.Equal(t, "EMPTY_BATCH", apiErr.ErrorCode)
}

func TestValidateBatchTooManyFiles(t *testing.T) {
	v := newValidator(1024, 2)

	err := v.ValidateBatch([]domain.UploadedFile{
		report("a.xlsx", 1), report("b.xlsx", 1), report("c.xlsx", 1),
	})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "TOO_MANY_FILES", apiErr.ErrorCode)
}

func TestValidateFileRejections(t *testing.T) {
	v := newValidator(100, 10)

	tests := []struct {
		name     string
		file     domain.UploadedFile
		wantCode string
		wantHTTP int
	}{
		{
			name:     "lock file",
			file:     report("~$피킹바코드입력-20240115.xlsx", 10),
			wantCode: "UNSUPPORTED_FILE_TYPE",
			wantHTTP: 415,
		},
		{
			name:     "wrong extension",
			file:     report("피킹바코드입력-20240115.xls", 10),
			wantCode: "UNSUPPORTED_FILE_TYPE",
			wantHTTP: 415,
		},
		{
			name:     "no extension",
			file:     report("report", 10),
			wantCode: "UNSUPPORTED_FILE_TYPE",
			wantHTTP: 415,
		},
		{
			name:     "empty file",
			file:     report("피킹바코드입력-20240115.xlsx", 0),
			wantCode: "EMPTY_FILE",
			wantHTTP: 400,
		},
		{
			name:     "oversize file",
			file:     report("피킹바코드입력-20240115.xlsx", 101),
			wantCode: "PAYLOAD_TOO_LARGE",
			wantHTTP: 413,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.file)

			var apiErr *apierrors.APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.wantCode, apiErr.ErrorCode)
			assert.Equal(t, tt.wantHTTP, apiErr.StatusCode)
		})
	}
}

func TestValidateFileStripsPath(t *testing.T) {
	v := newValidator(1024, 10)

	// Browsers may send a full path; only the base name matters.
	err := v.ValidateFile(report("C:/reports/피킹바코드입력-20240115.xlsx", 10))

	assert.NoError(t, err)
}

func TestValidateBatchDisabledLimits(t *testing.T) {
	v := newValidator(0, 0)

	files := make([]domain.UploadedFile, 500)
	for i := range files {
		files[i] = report("피킹바코드입력-20240115.xlsx", 1<<20)
	}

	assert.NoError(t, v.ValidateBatch(files))
}

func TestValidateBatchReportsFirstViolation(t *testing.T) {
	v := newValidator(1024, 10)

	err := v.ValidateBatch([]domain.UploadedFile{
		report("피킹바코드입력-20240115.xlsx", 10),
		report("notes.txt", 10),
	})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "notes.txt")
}
