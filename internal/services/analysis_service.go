package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pickpulse/internal/analytics"
	"pickpulse/internal/config"
	"pickpulse/internal/dataprocessing"
	apierrors "pickpulse/internal/errors"
	"pickpulse/internal/infrastructure"
	"pickpulse/internal/settings"
	"pickpulse/internal/validation"
	api "pickpulse/pkg/contracts/api/v1"
	"pickpulse/pkg/contracts/domain"
	"pickpulse/pkg/contracts/events"
)

// Broadcaster pushes refresh events to connected clients. The WebSocket
// hub implements it; the batch CLI passes nil.
type Broadcaster interface {
	Broadcast(eventType events.MessageType, data interface{})
}

// AnalysisService owns the current report batch and runs analyses over
// it. All state transitions happen under one mutex; one upload or
// analysis runs at a time.
type AnalysisService struct {
	mu       sync.RWMutex
	batch    []domain.UploadedFile
	info     domain.BatchInfo
	hasBatch bool
	current  domain.Thresholds

	cache     *dataprocessing.CorpusCache
	validator *validation.UploadValidator
	store     *settings.Store
	hub       Broadcaster
	metrics   *infrastructure.PipelineMetrics
	logger    *slog.Logger
}

// NewAnalysisService wires the service. hub and metrics may be nil; the
// stored thresholds are loaded immediately so Settings never returns a
// zero value.
func NewAnalysisService(
	cache *dataprocessing.CorpusCache,
	validator *validation.UploadValidator,
	store *settings.Store,
	hub Broadcaster,
	metrics *infrastructure.PipelineMetrics,
	logger *slog.Logger,
) *AnalysisService {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	logger = infrastructure.WithComponent(logger, "services.analysis")

	svc := &AnalysisService{
		cache:     cache,
		validator: validator,
		store:     store,
		hub:       hub,
		metrics:   metrics,
		logger:    logger,
	}
	svc.current = store.Load(context.Background())
	return svc
}

// SetUploads replaces the active report batch. The batch is validated,
// parsed into a corpus through the cache, and summarized; connected
// clients are told to refresh.
func (s *AnalysisService) SetUploads(ctx context.Context, files []domain.UploadedFile) (domain.BatchInfo, error) {
	if err := s.validator.ValidateBatch(files); err != nil {
		return domain.BatchInfo{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	corpus, err := s.cache.GetOrBuild(ctx, files)
	if err != nil {
		return domain.BatchInfo{}, fmt.Errorf("failed to build corpus: %w", err)
	}

	s.batch = files
	s.hasBatch = true
	s.info = summarizeBatch(files, corpus)

	s.logger.InfoContext(ctx, "report batch replaced",
		slog.Int("file_count", s.info.FileCount),
		slog.Int("record_count", s.info.RecordCount),
		slog.Int("worker_count", s.info.WorkerCount),
		slog.String("from", s.info.From),
		slog.String("to", s.info.To))

	s.broadcast(events.MessageTypeDataRefreshed, events.DataRefreshedPayload{
		FileCount:   s.info.FileCount,
		ReportDays:  s.info.ReportDays,
		RecordCount: s.info.RecordCount,
		WorkerCount: s.info.WorkerCount,
		From:        s.info.From,
		To:          s.info.To,
	})
	return s.info, nil
}

// Run executes one analysis over the active batch. Omitted thresholds
// fall back to the stored settings; a successful run persists the
// thresholds it used. An analysis whose window keeps nothing returns
// ErrNoData and leaves the settings untouched.
func (s *AnalysisService) Run(ctx context.Context, req api.AnalysisRequest) (domain.AnalysisResult, error) {
	start := time.Now()

	window, err := req.Window.ToDomain()
	if err != nil {
		return domain.AnalysisResult{}, apierrors.ErrValidation("window", err.Error())
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasBatch {
		s.recordRun(ctx, window, start, "no_batch")
		return domain.AnalysisResult{}, apierrors.ErrNoBatch
	}

	th, err := s.resolveThresholds(req)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	corpus, err := s.cache.GetOrBuild(ctx, s.batch)
	if err != nil {
		s.recordRun(ctx, window, start, "error")
		return domain.AnalysisResult{}, fmt.Errorf("failed to build corpus: %w", err)
	}

	filtered := analytics.ApplyThresholds(corpus, th)
	windowed := analytics.ApplyWindow(filtered, window)
	if windowed.Empty() {
		s.logger.InfoContext(ctx, "analysis window kept nothing",
			slog.String("window", window.Describe()),
			slog.Float64("minute_threshold", th.MinuteThreshold),
			slog.Int64("picking_count_threshold", th.PickCountThreshold))
		s.recordRun(ctx, window, start, "no_data")
		return domain.AnalysisResult{}, apierrors.ErrNoData
	}

	result := analytics.Aggregate(windowed, th, window)

	s.current = th
	if err := s.store.Save(ctx, th); err != nil {
		// The run already succeeded; a failed save only costs the next
		// startup its defaults.
		s.logger.WarnContext(ctx, "failed to persist thresholds",
			slog.String("error", err.Error()))
	}

	s.logger.InfoContext(ctx, "analysis complete",
		slog.String("window", window.Describe()),
		slog.Int("worker_rows", len(result.Workers)),
		slog.Int("detail_rows", len(result.Detail)),
		slog.Int64("total_picks", result.Summary.TotalPicks),
		slog.Duration("elapsed", time.Since(start)))

	s.broadcast(events.MessageTypeAnalysisComplete, events.AnalysisCompletePayload{
		Window:     window.Describe(),
		TotalPicks: result.Summary.TotalPicks,
		AvgMinutes: result.Summary.AvgMinutes,
		Workers:    len(result.Workers),
		DurationMS: time.Since(start).Milliseconds(),
	})
	s.recordRun(ctx, window, start, "success")
	return result, nil
}

// Uploads returns the summary of the active batch. The second return is
// false when no batch has been loaded.
func (s *AnalysisService) Uploads() (domain.BatchInfo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.info, s.hasBatch
}

// Settings returns the thresholds that the next analysis without
// explicit thresholds will use.
func (s *AnalysisService) Settings() domain.Thresholds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// resolveThresholds merges request thresholds over the stored settings.
// Callers hold s.mu.
func (s *AnalysisService) resolveThresholds(req api.AnalysisRequest) (domain.Thresholds, error) {
	th := s.current
	if req.MinuteThreshold != nil {
		if *req.MinuteThreshold < 0 {
			return domain.Thresholds{}, apierrors.ErrValidation("minute_threshold", "must not be negative")
		}
		th.MinuteThreshold = *req.MinuteThreshold
	}
	if req.PickCountThreshold != nil {
		if *req.PickCountThreshold < 0 {
			return domain.Thresholds{}, apierrors.ErrValidation("picking_count_threshold", "must not be negative")
		}
		th.PickCountThreshold = *req.PickCountThreshold
	}
	return th, nil
}

func (s *AnalysisService) broadcast(eventType events.MessageType, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Broadcast(eventType, data)
}

func (s *AnalysisService) recordRun(ctx context.Context, window domain.Window, start time.Time, outcome string) {
	infrastructure.RecordAnalysisRun(ctx, s.metrics, string(window.Kind), time.Since(start), outcome)
}

// summarizeBatch builds the batch summary returned by SetUploads and
// GET /api/uploads.
func summarizeBatch(files []domain.UploadedFile, corpus domain.Corpus) domain.BatchInfo {
	info := domain.BatchInfo{
		FileCount:   len(files),
		ReportDays:  len(corpus.Dates()),
		RecordCount: len(corpus.Records),
		WorkerCount: len(corpus.Workers()),
		LoadedAt:    time.Now().UTC(),
	}
	if from, to, ok := corpus.DateRange(); ok {
		info.From = from.Format(config.DateDisplayLayout)
		info.To = to.Format(config.DateDisplayLayout)
	}
	return info
}
