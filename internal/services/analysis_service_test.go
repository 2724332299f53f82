package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pickpulse/internal/dataprocessing"
	apierrors "pickpulse/internal/errors"
	"pickpulse/internal/settings"
	"pickpulse/internal/validation"
	api "pickpulse/pkg/contracts/api/v1"
	"pickpulse/pkg/contracts/domain"
	"pickpulse/pkg/contracts/events"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type capturedEvent struct {
	Type events.MessageType
	Data interface{}
}

type fakeHub struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (f *fakeHub) Broadcast(eventType events.MessageType, data interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, capturedEvent{Type: eventType, Data: data})
}

func (f *fakeHub) types() []events.MessageType {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]events.MessageType, len(f.events))
	for i, e := range f.events {
		out[i] = e.Type
	}
	return out
}

// reportFile builds a workbook in the production layout and names it
// for the given date.
func reportFile(t *testing.T, date string, rows [][]interface{}) domain.UploadedFile {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "작업자현황"
	require.NoError(t, f.SetSheetName("Sheet1", sheet))
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"LPI 물류센터 일일 피킹 현황"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"집계 기준: 바코드 스캔"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]interface{}{"작업자명", "피킹횟수", "1회평균분"}))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+4)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return domain.UploadedFile{
		Name: "피킹바코드입력-" + date + ".xlsx",
		Data: buf.Bytes(),
	}
}

func newTestService(t *testing.T) (*AnalysisService, *fakeHub, *settings.Store) {
	t.Helper()

	logger := testLogger()
	parser := dataprocessing.NewParser(logger, dataprocessing.ParserConfig{})
	builder := dataprocessing.NewBuilder(parser, logger, nil)
	cache := dataprocessing.NewCorpusCache(builder, logger, nil)
	validator := validation.NewUploadValidator(32<<20, 366, logger)
	store := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"), logger)
	hub := &fakeHub{}

	svc := NewAnalysisService(cache, validator, store, hub, nil, logger)
	return svc, hub, store
}

/// twoDayBatch: 김철수 works both days, 이영희 only the first.
func twoDayBatch(t *testing.T) []domain.UploadedFile {
	t.Helper()
	return []domain.UploadedFile{
		reportFile(t, "20240115", [][]interface{}{
			{"김철수", 100, "0:00:30"},
			{"이영희", 50, "0:01:00"},
		}),
		reportFile(t, "20240116", [][]interface{}{
			{"김철수", 80, "0:00:45"},
		}),
	}
}

func TestSetUploadsBuildsBatchInfo(t *testing.T) {
	svc, hub, _ := newTestService(t)

	info, err := svc.SetUploads(context.Background(), twoDayBatch(t))
	require.NoError(t, err)

	assert.Equal(t, 2, info.FileCount)
	assert.Equal(t, 2, info.ReportDays)
	assert.Equal(t, 3, info.RecordCount)
	assert.Equal(t, 2, info.WorkerCount)
	assert.Equal(t, "2024-01-15", info.From)
	assert.Equal(t, "2024-01-16", info.To)
	assert.False(t, info.LoadedAt.IsZero())

	assert.Equal(t, []events.MessageType{events.MessageTypeDataRefreshed}, hub.types())

	got, ok := svc.Uploads()
	require.True(t, ok)
	assert.Equal(t, info, got)
}

func TestSetUploadsRejectsInvalidBatch(t *testing.T) {
	svc, hub, _ := newTestService(t)

	_, err := svc.SetUploads(context.Background(), []domain.UploadedFile{
		{Name: "notes.txt", Data: []byte("x")},
	})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 415, apiErr.StatusCode)

	_, ok := svc.Uploads()
	assert.False(t, ok)
	assert.Empty(t, hub.types())
}

func TestUploadsBeforeAnyBatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, ok := svc.Uploads()

	assert.False(t, ok)
}

func TestRunWithoutBatch(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Run(context.Background(), api.AnalysisRequest{})

	assert.True(t, errors.Is(err, apierrors.ErrNoBatch))
}

func TestRunHappyPath(t *testing.T) {
	svc, hub, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	result, err := svc.Run(ctx, api.AnalysisRequest{})
	require.NoError(t, err)

	assert.Equal(t, domain.DefaultThresholds(), result.Thresholds)
	assert.Equal(t, domain.WindowAll, result.Window.Kind)
	require.Len(t, result.Workers, 2)
	assert.Equal(t, int64(230), result.Summary.TotalPicks)
	assert.Len(t, result.Weekdays, 6)
	assert.Len(t, result.Detail, 3)
	assert.False(t, result.GeneratedAt.IsZero())

	// Defaults persisted after the successful run.
	assert.Equal(t, domain.DefaultThresholds(), store.Load(ctx))
	assert.Equal(t, []events.MessageType{events.MessageTypeDataRefreshed, events.MessageTypeAnalysisComplete}, hub.types())
}

func TestRunAppliesRequestThresholds(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	// 0.6 minute ceiling keeps only the 0.5-minute rows.
	minute := 0.6
	picks := int64(90)
	result, err := svc.Run(ctx, api.AnalysisRequest{
		MinuteThreshold:    &minute,
		PickCountThreshold: &picks,
	})
	require.NoError(t, err)

	// Only 김철수's 100-pick day survives both gates; 이영희 remains in
	// the worker table via her sighting, zero-filled.
	assert.Equal(t, int64(100), result.Summary.TotalPicks)
	require.Len(t, result.Workers, 2)

	merged := domain.Thresholds{MinuteThreshold: 0.6, PickCountThreshold: 90}
	assert.Equal(t, merged, result.Thresholds)
	assert.Equal(t, merged, svc.Settings())
	assert.Equal(t, merged, store.Load(ctx))
}

func TestRunEmptyWindowLeavesSettings(t *testing.T) {
	svc, hub, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	minute := 5.0
	_, err = svc.Run(ctx, api.AnalysisRequest{
		MinuteThreshold: &minute,
		Window:          api.WindowRequest{Kind: "weekdays", Weekdays: []int{}},
	})

	assert.True(t, errors.Is(err, apierrors.ErrNoData))
	// Settings survive a no-data run untouched.
	assert.Equal(t, domain.DefaultThresholds(), svc.Settings())
	assert.Equal(t, domain.DefaultThresholds(), store.Load(ctx))
	assert.Equal(t, []events.MessageType{events.MessageTypeDataRefreshed}, hub.types())
}

func TestRunWindowNarrowsResult(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	result, err := svc.Run(ctx, api.AnalysisRequest{
		Window: api.WindowRequest{Kind: "day", Date: "2024-01-16"},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(80), result.Summary.TotalPicks)
	assert.Len(t, result.Detail, 1)
	assert.Equal(t, "2024-01-16", result.Summary.From)
	assert.Equal(t, "2024-01-16", result.Summary.To)
}

func TestRunInvalidWindow(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	_, err = svc.Run(ctx, api.AnalysisRequest{
		Window: api.WindowRequest{Kind: "month", Month: 1},
	})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestRunNegativeThresholdRejected(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	minute := -1.0
	_, err = svc.Run(ctx, api.AnalysisRequest{MinuteThreshold: &minute})

	var apiErr *apierrors.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)
}

func TestSettingsLoadedAtConstruction(t *testing.T) {
	logger := testLogger()
	path := filepath.Join(t.TempDir(), "settings.json")
	store := settings.NewStore(path, logger)
	require.NoError(t, store.Save(context.Background(), domain.Thresholds{
		MinuteThreshold:    12,
		PickCountThreshold: 7,
	}))

	parser := dataprocessing.NewParser(logger, dataprocessing.ParserConfig{})
	builder := dataprocessing.NewBuilder(parser, logger, nil)
	cache := dataprocessing.NewCorpusCache(builder, logger, nil)
	validator := validation.NewUploadValidator(0, 0, logger)

	svc := NewAnalysisService(cache, validator, store, nil, nil, logger)

	assert.Equal(t, domain.Thresholds{MinuteThreshold: 12, PickCountThreshold: 7}, svc.Settings())
}

func TestRunWithNilHubDoesNotPanic(t *testing.T) {
	logger := testLogger()
	parser := dataprocessing.NewParser(logger, dataprocessing.ParserConfig{})
	builder := dataprocessing.NewBuilder(parser, logger, nil)
	cache := dataprocessing.NewCorpusCache(builder, logger, nil)
	validator := validation.NewUploadValidator(0, 0, logger)
	store := settings.NewStore(filepath.Join(t.TempDir(), "settings.json"), logger)
	svc := NewAnalysisService(cache, validator, store, nil, nil, logger)
	ctx := context.Background()

	_, err := svc.SetUploads(ctx, twoDayBatch(t))
	require.NoError(t, err)

	_, err = svc.Run(ctx, api.AnalysisRequest{})
	assert.NoError(t, err)
}
