package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pickpulse/pkg/contracts/domain"
)

func windowCorpus() domain.Corpus {
	return domain.Corpus{
		Records: []domain.PickRecord{
			rec("2023-12-29", "김철수", 40, 1.0), // Friday
			rec("2024-01-01", "김철수", 50, 0.75), // Monday
			rec("2024-01-06", "이영희", 30, 1.5),  // Saturday
			rec("2024-02-05", "박민수", 70, 0.5),  // Monday
		},
		Sightings: []domain.WorkerSighting{
			sight("2023-12-29", "김철수"),
			sight("2024-01-01", "김철수"),
			sight("2024-01-06", "이영희"),
			sight("2024-02-05", "박민수"),
		},
	}
}

func TestApplyWindowAll(t *testing.T) {
	corpus := windowCorpus()

	out := ApplyWindow(corpus, domain.AllWindow())

	assert.Equal(t, corpus, out)
}

func TestApplyWindowYear(t *testing.T) {
	out := ApplyWindow(windowCorpus(), domain.Window{Kind: domain.WindowYear, Year: 2024})

	require.Len(t, out.Records, 3)
	for _, r := range out.Records {
		assert.Equal(t, 2024, r.Year)
	}
	assert.Len(t, out.Sightings, 3)
}

func TestApplyWindowMonth(t *testing.T) {
	out := ApplyWindow(windowCorpus(), domain.Window{Kind: domain.WindowMonth, Year: 2024, Month: 1})

	require.Len(t, out.Records, 2)
	assert.Equal(t, "김철수", out.Records[0].Worker)
	assert.Equal(t, "이영희", out.Records[1].Worker)
	assert.Len(t, out.Sightings, 2)
}

func TestApplyWindowDay(t *testing.T) {
	out := ApplyWindow(windowCorpus(), domain.Window{
		Kind: domain.WindowDay,
		Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})

	require.Len(t, out.Records, 1)
	assert.Equal(t, "김철수", out.Records[0].Worker)
	require.Len(t, out.Sightings, 1)
}

func TestApplyWindowWeekdays(t *testing.T) {
	out := ApplyWindow(windowCorpus(), domain.Window{
		Kind:     domain.WindowWeekdays,
		Weekdays: []domain.Weekday{domain.Monday},
	})

	require.Len(t, out.Records, 2)
	for _, r := range out.Records {
		assert.Equal(t, domain.Monday, r.Weekday)
	}
}

func TestApplyWindowEmptyWeekdaySet(t *testing.T) {
	out := ApplyWindow(windowCorpus(), domain.Window{Kind: domain.WindowWeekdays})

	assert.Empty(t, out.Records)
	assert.Empty(t, out.Sightings)
	assert.True(t, out.Empty())
}

func TestApplyWindowCutsSightingsToo(t *testing.T) {
	corpus := domain.Corpus{
		Sightings: []domain.WorkerSighting{
			sight("2024-01-01", "김철수"),
			sight("2024-02-05", "박민수"),
		},
	}

	out := ApplyWindow(corpus, domain.Window{Kind: domain.WindowMonth, Year: 2024, Month: 1})

	require.Len(t, out.Sightings, 1)
	assert.Equal(t, "김철수", out.Sightings[0].Worker)
}
