package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pickpulse/internal/exporter"
	"pickpulse/internal/settings"
	"pickpulse/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeReport(t *testing.T, dir, date string, rows [][]interface{}) {
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

	path := filepath.Join(dir, "피킹바코드입력-"+date+".xlsx")
	require.NoError(t, f.SaveAs(path))
}

func testOptions(t *testing.T) options {
	t.Helper()
	return options{
		inDir:  t.TempDir(),
		outDir: t.TempDir(),
	}
}

func TestRunEndToEnd(t *testing.T) {
	opts := testOptions(t)
	writeReport(t, opts.inDir, "20240115", [][]interface{}{
		{"김철수", 100, 0.5},
		{"이영희", 60, 0.8},
	})
	writeReport(t, opts.inDir, "20240116", [][]interface{}{
		{"김철수", 80, 0.6},
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, testLogger(), &out))

	// All five CSV files land in the output directory.
	for _, name := range []string{
		exporter.WorkersFile, exporter.TrendFile, exporter.WeekdaysFile,
		exporter.DetailFile, exporter.CorpusFile,
	} {
		_, err := os.Stat(filepath.Join(opts.outDir, name))
		assert.NoError(t, err, name)
	}

	workers, err := os.ReadFile(filepath.Join(opts.outDir, exporter.WorkersFile))
	require.NoError(t, err)
	assert.Contains(t, string(workers), "김철수")
	assert.Contains(t, string(workers), "이영희")

	assert.Contains(t, out.String(), "김철수")
	assert.Contains(t, out.String(), "240 picks by 2 workers over 2 days")
	assert.Contains(t, out.String(), "Wrote 5 CSV files")
}

func TestRunEmptyDirectory(t *testing.T) {
	opts := testOptions(t)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, testLogger(), &out))

	assert.Contains(t, out.String(), "No records survived the thresholds.")

	// Header-only CSVs are still written.
	corpus, err := os.ReadFile(filepath.Join(opts.outDir, exporter.CorpusFile))
	require.NoError(t, err)
	assert.Contains(t, string(corpus), "Worker")
}

func TestRunQuietSuppressesOutput(t *testing.T) {
	opts := testOptions(t)
	opts.quiet = true
	writeReport(t, opts.inDir, "20240115", [][]interface{}{
		{"김철수", 100, 0.5},
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, testLogger(), &out))

	assert.Empty(t, out.String())

	_, err := os.Stat(filepath.Join(opts.outDir, exporter.WorkersFile))
	assert.NoError(t, err)
}

func TestRunAppliesThresholds(t *testing.T) {
	opts := testOptions(t)
	opts.minutes = 0.6
	opts.minutesSet = true
	writeReport(t, opts.inDir, "20240115", [][]interface{}{
		{"김철수", 100, 0.5},
		{"이영희", 60, 0.8},
	})

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), opts, testLogger(), &out))

	// 이영희's record is over the ceiling; she stays on the roster with
	// zero picks.
	assert.Contains(t, out.String(), "100 picks by 2 workers over 1 days")
}

func TestRunMissingInputDirFails(t *testing.T) {
	opts := testOptions(t)
	opts.inDir = filepath.Join(opts.inDir, "missing")

	var out bytes.Buffer
	err := run(context.Background(), opts, testLogger(), &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load reports")
}

func TestResolveThresholdsDefaults(t *testing.T) {
	th, err := resolveThresholds(context.Background(), options{}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultThresholds(), th)
}

func TestResolveThresholdsFromSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := settings.NewStore(path, testLogger())
	require.NoError(t, store.Save(context.Background(), domain.Thresholds{
		MinuteThreshold:    12,
		PickCountThreshold: 7,
	}))

	th, err := resolveThresholds(context.Background(), options{settingsPath: path}, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 12.0, th.MinuteThreshold)
	assert.Equal(t, int64(7), th.PickCountThreshold)
}

func TestResolveThresholdsFlagOverridesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := settings.NewStore(path, testLogger())
	require.NoError(t, store.Save(context.Background(), domain.Thresholds{
		MinuteThreshold:    12,
		PickCountThreshold: 7,
	}))

	opts := options{
		settingsPath: path,
		minutes:      5,
		minutesSet:   true,
	}
	th, err := resolveThresholds(context.Background(), opts, testLogger())
	require.NoError(t, err)
	assert.Equal(t, 5.0, th.MinuteThreshold)
	assert.Equal(t, int64(7), th.PickCountThreshold)
}

func TestResolveThresholdsRejectsNegative(t *testing.T) {
	opts := options{minutes: -1, minutesSet: true}
	_, err := resolveThresholds(context.Background(), opts, testLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must not be negative")
}
