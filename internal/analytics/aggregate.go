package analytics

import (
	"sort"
	"time"

	"pickpulse/internal/config"
	"pickpulse/pkg/contracts/domain"
)

// WeightedAverageMinutes is the pick-count-weighted mean of the
// per-pick minutes: Σ(minutes·picks) / Σ(picks). A slow worker who
// picked twice never outweighs a fast worker who picked two thousand
// times. Zero total weight yields zero.
func WeightedAverageMinutes(records []domain.PickRecord) float64 {
	var num float64
	var den int64
	for _, rec := range records {
		num += rec.AvgMinutes * float64(rec.Picks)
		den += rec.Picks
	}
	if den == 0 {
		return 0
	}
	return num / float64(den)
}

// ByWorker builds the per-worker performance table. The row set is the
// sighting roster, not the record set: a sighted worker whose records
// were all dropped still gets a zero-filled row. Workers with zero
// total picks are unranked (rank 0 on every axis) and sort after every
// ranked worker; within a rank, and among the unranked, rows sort by
// name.
func ByWorker(c domain.Corpus) []domain.WorkerSummary {
	roster := c.Workers()
	if len(roster) == 0 {
		return nil
	}

	type acc struct {
		weighted float64
		picks    int64
		days     map[time.Time]struct{}
	}
	accs := make(map[string]*acc, len(roster))
	for _, rec := range c.Records {
		a := accs[rec.Worker]
		if a == nil {
			a = &acc{days: make(map[time.Time]struct{})}
			accs[rec.Worker] = a
		}
		a.weighted += rec.AvgMinutes * float64(rec.Picks)
		a.picks += rec.Picks
		a.days[rec.Date] = struct{}{}
	}

	rows := make([]domain.WorkerSummary, len(roster))
	var eligible []int
	for i, name := range roster {
		row := domain.WorkerSummary{Worker: name}
		if a := accs[name]; a != nil {
			row.TotalPicks = a.picks
			row.DaysWorked = len(a.days)
			if a.picks > 0 {
				row.AvgMinutes = a.weighted / float64(a.picks)
			}
			if row.DaysWorked > 0 {
				row.DailyAvgPicks = float64(row.TotalPicks) / float64(row.DaysWorked)
			}
		}
		if row.TotalPicks > 0 {
			eligible = append(eligible, i)
		}
		rows[i] = row
	}

	durationRanks := rankBy(len(rows), eligible, func(a, b int) bool {
		return rows[a].AvgMinutes < rows[b].AvgMinutes
	})
	countRanks := rankBy(len(rows), eligible, func(a, b int) bool {
		return rows[a].TotalPicks > rows[b].TotalPicks
	})
	dailyRanks := rankBy(len(rows), eligible, func(a, b int) bool {
		return rows[a].DailyAvgPicks > rows[b].DailyAvgPicks
	})
	for i := range rows {
		rows[i].DurationRank = durationRanks[i]
		rows[i].CountRank = countRanks[i]
		rows[i].DailyAvgRank = dailyRanks[i]
	}

	sort.Slice(rows, func(i, j int) bool {
		ri, rj := rows[i].DurationRank, rows[j].DurationRank
		if (ri == 0) != (rj == 0) {
			return rj == 0
		}
		if ri != rj {
			return ri < rj
		}
		return rows[i].Worker < rows[j].Worker
	})

	return rows
}

// Trend buckets the records by period and computes the weighted average
// minutes inside each bucket. Bucket keys are "2006-01" or
// "2006-01-02" depending on granularity; both sort chronologically as
// plain strings.
func Trend(c domain.Corpus, g domain.Granularity) []domain.TrendPoint {
	if len(c.Records) == 0 {
		return nil
	}

	groups := make(map[string][]domain.PickRecord)
	for _, rec := range c.Records {
		key := rec.YearMonth
		if g == domain.GranularityDay {
			key = rec.Date.Format(config.DateDisplayLayout)
		}
		groups[key] = append(groups[key], rec)
	}

	points := make([]domain.TrendPoint, 0, len(groups))
	for period, recs := range groups {
		points = append(points, domain.TrendPoint{
			Period:     period,
			AvgMinutes: WeightedAverageMinutes(recs),
		})
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}

// ByWeekday builds the weekday performance table. All six working
// weekdays are always present in ordinal order; a weekday with no
// records is zero-filled. Ranks are plain competition ranks over all
// six rows.
func ByWeekday(c domain.Corpus) []domain.WeekdaySummary {
	type acc struct {
		weighted float64
		picks    int64
		days     map[time.Time]struct{}
	}
	accs := make([]acc, domain.WeekdayCount)
	for i := range accs {
		accs[i].days = make(map[time.Time]struct{})
	}
	for _, rec := range c.Records {
		a := &accs[rec.Weekday]
		a.weighted += rec.AvgMinutes * float64(rec.Picks)
		a.picks += rec.Picks
		a.days[rec.Date] = struct{}{}
	}

	rows := make([]domain.WeekdaySummary, 0, domain.WeekdayCount)
	for _, wd := range domain.AllWeekdays() {
		a := accs[wd]
		row := domain.WeekdaySummary{
			Weekday:    wd,
			TotalPicks: a.picks,
			DaysWorked: len(a.days),
		}
		if a.picks > 0 {
			row.AvgMinutes = a.weighted / float64(a.picks)
		}
		if row.DaysWorked > 0 {
			row.DailyAvgPicks = float64(row.TotalPicks) / float64(row.DaysWorked)
		}
		rows = append(rows, row)
	}

	durationRanks := rankBy(len(rows), allPositions(len(rows)), func(a, b int) bool {
		return rows[a].AvgMinutes < rows[b].AvgMinutes
	})
	countRanks := rankBy(len(rows), allPositions(len(rows)), func(a, b int) bool {
		return rows[a].TotalPicks > rows[b].TotalPicks
	})
	for i := range rows {
		rows[i].DurationRank = durationRanks[i]
		rows[i].CountRank = countRanks[i]
	}

	return rows
}

// Detail annotates every windowed record with its ranks against the
// whole windowed set and sorts the result newest-first, then by worker
// name.
func Detail(c domain.Corpus) []domain.DetailRow {
	if len(c.Records) == 0 {
		return nil
	}

	rows := make([]domain.DetailRow, len(c.Records))
	for i, rec := range c.Records {
		rows[i] = domain.DetailRow{
			Date:       rec.Date,
			Weekday:    rec.Weekday,
			Worker:     rec.Worker,
			Picks:      rec.Picks,
			AvgMinutes: rec.AvgMinutes,
		}
	}

	countRanks := rankBy(len(rows), allPositions(len(rows)), func(a, b int) bool {
		return rows[a].Picks > rows[b].Picks
	})
	durationRanks := rankBy(len(rows), allPositions(len(rows)), func(a, b int) bool {
		return rows[a].AvgMinutes < rows[b].AvgMinutes
	})
	for i := range rows {
		rows[i].CountRank = countRanks[i]
		rows[i].DurationRank = durationRanks[i]
	}

	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.After(rows[j].Date)
		}
		return rows[i].Worker < rows[j].Worker
	})

	return rows
}

// Summary computes the headline statistics of a windowed corpus.
func Summary(c domain.Corpus) domain.SummaryStats {
	var total int64
	for _, rec := range c.Records {
		total += rec.Picks
	}

	stats := domain.SummaryStats{
		TotalPicks: total,
		AvgMinutes: WeightedAverageMinutes(c.Records),
	}

	dates := c.Dates()
	stats.Days = len(dates)
	if from, to, ok := c.DateRange(); ok {
		stats.From = from.Format(config.DateDisplayLayout)
		stats.To = to.Format(config.DateDisplayLayout)
	}

	if len(dates) > 0 {
		perDate := make(map[time.Time]map[string]struct{}, len(dates))
		for _, rec := range c.Records {
			set := perDate[rec.Date]
			if set == nil {
				set = make(map[string]struct{})
				perDate[rec.Date] = set
			}
			set[rec.Worker] = struct{}{}
		}
		var workers int
		for _, set := range perDate {
			workers += len(set)
		}
		stats.DailyAvgWorkers = float64(workers) / float64(len(dates))
	}

	return stats
}

// Aggregate computes every result table over an already filtered and
// windowed corpus. Trend granularity follows the window: monthly for
// the broad windows, daily for narrow ones.
func Aggregate(windowed domain.Corpus, th domain.Thresholds, w domain.Window) domain.AnalysisResult {
	return domain.AnalysisResult{
		Thresholds:  th,
		Window:      w,
		Summary:     Summary(windowed),
		Workers:     ByWorker(windowed),
		Trend:       Trend(windowed, w.TrendGranularity()),
		Weekdays:    ByWeekday(windowed),
		Detail:      Detail(windowed),
		GeneratedAt: time.Now().UTC(),
	}
}
