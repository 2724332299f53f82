package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowValidate(t *testing.T) {
	tests := []struct {
		name    string
		window  Window
		wantErr bool
	}{
		{"all", AllWindow(), false},
		{"year", Window{Kind: WindowYear, Year: 2024}, false},
		{"year without year", Window{Kind: WindowYear}, true},
		{"month", Window{Kind: WindowMonth, Year: 2024, Month: 6}, false},
		{"month without year", Window{Kind: WindowMonth, Month: 6}, true},
		{"month out of range", Window{Kind: WindowMonth, Year: 2024, Month: 13}, true},
		{"day", Window{Kind: WindowDay, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}, false},
		{"day without date", Window{Kind: WindowDay}, true},
		{"weekdays", Window{Kind: WindowWeekdays, Weekdays: []Weekday{Monday, Friday}}, false},
		{"weekdays with bad ordinal", Window{Kind: WindowWeekdays, Weekdays: []Weekday{Monday, Weekday(8)}}, true},
		{"unknown kind", Window{Kind: WindowKind("fortnight")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.window.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWindowContains(t *testing.T) {
	monday := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	tuesday := time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC)
	julyMonday := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, AllWindow().Contains(monday, Monday))

	year := Window{Kind: WindowYear, Year: 2024}
	assert.True(t, year.Contains(monday, Monday))
	assert.False(t, year.Contains(time.Date(2023, 6, 5, 0, 0, 0, 0, time.UTC), Monday))

	month := Window{Kind: WindowMonth, Year: 2024, Month: 6}
	assert.True(t, month.Contains(monday, Monday))
	assert.False(t, month.Contains(julyMonday, Monday))

	day := Window{Kind: WindowDay, Date: monday}
	assert.True(t, day.Contains(monday, Monday))
	assert.False(t, day.Contains(tuesday, Tuesday))

	weekdays := Window{Kind: WindowWeekdays, Weekdays: []Weekday{Monday, Wednesday}}
	assert.True(t, weekdays.Contains(monday, Monday))
	assert.False(t, weekdays.Contains(tuesday, Tuesday))
}

func TestWindowTrendGranularity(t *testing.T) {
	assert.Equal(t, GranularityMonth, AllWindow().TrendGranularity())
	assert.Equal(t, GranularityMonth, Window{Kind: WindowYear, Year: 2024}.TrendGranularity())
	assert.Equal(t, GranularityDay, Window{Kind: WindowMonth, Year: 2024, Month: 6}.TrendGranularity())
	assert.Equal(t, GranularityDay, Window{Kind: WindowDay}.TrendGranularity())
	assert.Equal(t, GranularityDay, Window{Kind: WindowWeekdays}.TrendGranularity())
}

func TestWindowDescribe(t *testing.T) {
	assert.Equal(t, "all", AllWindow().Describe())
	assert.Equal(t, "year=2024", Window{Kind: WindowYear, Year: 2024}.Describe())
	assert.Equal(t, "month=2024-03", Window{Kind: WindowMonth, Year: 2024, Month: 3}.Describe())

	day := Window{Kind: WindowDay, Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, "day=2024-01-15", day.Describe())

	weekdays := Window{Kind: WindowWeekdays, Weekdays: []Weekday{Monday, Friday}}
	desc := weekdays.Describe()
	require.Contains(t, desc, "월요일")
	require.Contains(t, desc, "금요일")
}
