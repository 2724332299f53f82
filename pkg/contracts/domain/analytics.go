package domain

import (
	"time"
)

// WorkerSummary is one row of the per-worker performance table. The
// roster comes from the sighting set, so workers whose records were all
// dropped by validation or thresholds still appear, zero-filled.
//
// Rank semantics: competition ("min") ranking, ties share the smallest
// index. Workers with zero total picks carry rank 0 on all three axes;
// they are unranked, not tied-last, and never displace a ranked worker.
type WorkerSummary struct {
	// Worker is the picker's name.
	Worker string `json:"worker" csv:"Worker"`

	// AvgMinutes is the pick-count-weighted average per-pick duration
	// in minutes; 0 when the worker has no surviving picks.
	AvgMinutes float64 `json:"avg_minutes" csv:"AvgMinutes"`

	// DurationRank ranks AvgMinutes ascending (fastest = 1).
	DurationRank int `json:"duration_rank" csv:"DurationRank"`

	// TotalPicks is the sum of surviving pick counts.
	TotalPicks int64 `json:"total_picks" csv:"TotalPicks"`

	// CountRank ranks TotalPicks descending (most = 1).
	CountRank int `json:"count_rank" csv:"CountRank"`

	// DaysWorked is the number of distinct dates with surviving
	// records.
	DaysWorked int `json:"days_worked" csv:"DaysWorked"`

	// DailyAvgPicks is TotalPicks divided by DaysWorked; 0 when the
	// worker has no working days.
	DailyAvgPicks float64 `json:"daily_avg_picks" csv:"DailyAvgPicks"`

	// DailyAvgRank ranks DailyAvgPicks descending (most = 1).
	DailyAvgRank int `json:"daily_avg_rank" csv:"DailyAvgRank"`
}

// TrendPoint is one bucket of the duration trend: a period key plus the
// weighted average per-pick minutes of the records inside it. Period is
// "2006-01" for monthly granularity and "2006-01-02" for daily; the
// buckets sort chronologically by the key's natural string order.
type TrendPoint struct {
	Period     string  `json:"period" csv:"Period"`
	AvgMinutes float64 `json:"avg_minutes" csv:"AvgMinutes"`
}

// WeekdaySummary is one row of the weekday performance table. All six
// working weekdays are always present in ordinal order; weekdays with
// no surviving records are zero-filled. Ranks here are plain
// competition ranks over all six rows; there is no zero-pick unranking
// on this axis.
type WeekdaySummary struct {
	Weekday       Weekday `json:"weekday" csv:"Weekday"`
	TotalPicks    int64   `json:"total_picks" csv:"TotalPicks"`
	AvgMinutes    float64 `json:"avg_minutes" csv:"AvgMinutes"`
	DurationRank  int     `json:"duration_rank" csv:"DurationRank"`
	CountRank     int     `json:"count_rank" csv:"CountRank"`
	DaysWorked    int     `json:"days_worked" csv:"DaysWorked"`
	DailyAvgPicks float64 `json:"daily_avg_picks" csv:"DailyAvgPicks"`
}

// DetailRow is one windowed record annotated with its ranks against
// every other record in the same window. Detail rows sort by date
// descending, then worker ascending.
type DetailRow struct {
	Date         time.Time `json:"date" csv:"Date"`
	Weekday      Weekday   `json:"weekday" csv:"Weekday"`
	Worker       string    `json:"worker" csv:"Worker"`
	Picks        int64     `json:"picks" csv:"Picks"`
	CountRank    int       `json:"count_rank" csv:"CountRank"`
	AvgMinutes   float64   `json:"avg_minutes" csv:"AvgMinutes"`
	DurationRank int       `json:"duration_rank" csv:"DurationRank"`
}

// SummaryStats are the headline numbers for an analysis run, computed
// over the windowed, threshold-filtered records.
type SummaryStats struct {
	// Days is the number of distinct report dates in the window.
	Days int `json:"days"`

	// From and To bound the windowed record dates ("2006-01-02");
	// empty when no records survive.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// TotalPicks is the sum of all surviving pick counts.
	TotalPicks int64 `json:"total_picks"`

	// AvgMinutes is the pick-count-weighted average per-pick duration
	// across all surviving records.
	AvgMinutes float64 `json:"avg_minutes"`

	// DailyAvgWorkers is the mean, over distinct dates, of the number
	// of distinct workers with surviving records on that date.
	DailyAvgWorkers float64 `json:"daily_avg_workers"`
}

// AnalysisResult bundles everything one analysis run produces.
type AnalysisResult struct {
	// Thresholds and Window echo the inputs the run was computed with.
	Thresholds Thresholds `json:"thresholds"`
	Window     Window     `json:"window"`

	Summary  SummaryStats     `json:"summary"`
	Workers  []WorkerSummary  `json:"workers"`
	Trend    []TrendPoint     `json:"trend"`
	Weekdays []WeekdaySummary `json:"weekdays"`
	Detail   []DetailRow      `json:"detail"`

	// GeneratedAt is when the run completed.
	GeneratedAt time.Time `json:"generated_at"`
}
