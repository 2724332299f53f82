package http

import (
	"context"

	api "pickpulse/pkg/contracts/api/v1"
	"pickpulse/pkg/contracts/domain"
)

// AnalysisServiceInterface defines the service operations the handlers
// depend on.
type AnalysisServiceInterface interface {
	SetUploads(ctx context.Context, files []domain.UploadedFile) (domain.BatchInfo, error)
	Run(ctx context.Context, req api.AnalysisRequest) (domain.AnalysisResult, error)
	Uploads() (domain.BatchInfo, bool)
	Settings() domain.Thresholds
}
