package dataprocessing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func newTestBuilder() *Builder {
	return NewBuilder(NewParser(testLogger(), ParserConfig{}), testLogger(), nil)
}

func TestBuildEnrichesCalendarFields(t *testing.T) {
	b := newTestBuilder()
	files := []domain.UploadedFile{
		{
			Name: "피킹바코드입력-20240101.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"김철수", 50, "0:00:45"},
			}),
		},
		{
			Name: "피킹바코드입력-20240102.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"이영희", 30, "0:01:30"},
			}),
		},
	}

	corpus := b.Build(context.Background(), files)

	require.Len(t, corpus.Records, 2)

	first := corpus.Records[0]
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), first.Date)
	assert.Equal(t, 2024, first.Year)
	assert.Equal(t, 1, first.Month)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "2024-01", first.YearMonth)
	assert.Equal(t, domain.Monday, first.Weekday)

	second := corpus.Records[1]
	assert.Equal(t, domain.Tuesday, second.Weekday)
	assert.Equal(t, "이영희", second.Worker)
	assert.InDelta(t, 1.5, second.AvgMinutes, 1e-9)
}

func TestBuildPreservesFileOrder(t *testing.T) {
	b := newTestBuilder()
	// Later date uploaded first; record order follows upload order
	files := []domain.UploadedFile{
		{
			Name: "피킹바코드입력-20240102.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"이영희", 30, "0:01:30"},
			}),
		},
		{
			Name: "피킹바코드입력-20240101.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"김철수", 50, "0:00:45"},
			}),
		},
	}

	corpus := b.Build(context.Background(), files)

	require.Len(t, corpus.Records, 2)
	assert.Equal(t, "이영희", corpus.Records[0].Worker)
	assert.Equal(t, "김철수", corpus.Records[1].Worker)
}

func TestBuildSkipsBrokenFilesAndContinues(t *testing.T) {
	b := newTestBuilder()
	files := []domain.UploadedFile{
		{Name: "피킹바코드입력-20240107.xlsx", Data: []byte("sunday, never opened")},
		{Name: "notes.txt", Data: []byte("not a report")},
		{Name: "피킹바코드입력-20240103.xlsx", Data: []byte("corrupt workbook bytes")},
		{
			Name: "피킹바코드입력-20240101.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"김철수", 50, "0:00:45"},
			}),
		},
	}

	corpus := b.Build(context.Background(), files)

	require.Len(t, corpus.Records, 1)
	assert.Equal(t, "김철수", corpus.Records[0].Worker)
	assert.Len(t, corpus.Sightings, 1)
}

func TestBuildDedupesAndSortsSightings(t *testing.T) {
	b := newTestBuilder()
	files := []domain.UploadedFile{
		{
			Name: "피킹바코드입력-20240102.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"이영희", 30, "0:01:30"},
				{"김철수", 40, "0:00:50"},
			}),
		},
		{
			Name: "피킹바코드입력-20240101.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"김철수", 50, "0:00:45"},
				{"김철수", 50, "0:00:45"}, // duplicate row, one sighting
			}),
		},
	}

	corpus := b.Build(context.Background(), files)

	require.Len(t, corpus.Sightings, 3)
	// Sorted by date, then worker, regardless of upload order
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), corpus.Sightings[0].Date)
	assert.Equal(t, "김철수", corpus.Sightings[0].Worker)
	assert.Equal(t, "김철수", corpus.Sightings[1].Worker)
	assert.Equal(t, "이영희", corpus.Sightings[2].Worker)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), corpus.Sightings[2].Date)
}

func TestBuildEmptyBatch(t *testing.T) {
	b := newTestBuilder()

	corpus := b.Build(context.Background(), nil)

	assert.True(t, corpus.Empty())
	assert.Empty(t, corpus.Dates())
	_, _, ok := corpus.DateRange()
	assert.False(t, ok)
}

func TestBuildSundayFileContributesNothing(t *testing.T) {
	b := newTestBuilder()
	// A well-formed workbook under a Sunday-dated name
	files := []domain.UploadedFile{
		{
			Name: "피킹바코드입력-20240107.xlsx",
			Data: buildReportBook(t, "작업자현황", defaultLabels(), [][]interface{}{
				{"김철수", 50, "0:00:45"},
			}),
		},
	}

	corpus := b.Build(context.Background(), files)

	assert.Empty(t, corpus.Records)
	assert.Empty(t, corpus.Sightings)
}
