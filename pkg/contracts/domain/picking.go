package domain

import (
	"sort"
	"time"
)

// PickRecord is the Single Source of Truth (SSOT) for one accepted row
// of a daily picking report. Every consumer of parsed picking data
// (the threshold filter, the period selector, the aggregation engine,
// the CSV exporters) operates on this structure.
//
// Calendar fields (Year, Month, Day, YearMonth, Weekday) are derived
// exactly once, when the corpus is assembled, so downstream grouping
// never re-parses dates.
type PickRecord struct {
	// Date is the report date decoded from the source filename,
	// normalized to midnight UTC.
	Date time.Time `json:"date" csv:"Date"`

	// Year, Month and Day are the decomposed calendar parts of Date.
	Year  int `json:"year" csv:"Year"`
	Month int `json:"month" csv:"Month"`
	Day   int `json:"day" csv:"Day"`

	// YearMonth is Date formatted as "2006-01", the monthly trend
	// bucket key.
	YearMonth string `json:"year_month" csv:"YearMonth"`

	// Weekday is the working-weekday ordinal of Date. Sunday-dated
	// reports never produce records, so this is always valid.
	Weekday Weekday `json:"weekday" csv:"Weekday"`

	// Worker is the picker's name as it appears in the report. Always
	// non-blank and containing at least one Hangul syllable.
	Worker string `json:"worker" csv:"Worker"`

	// Picks is the pick count for this worker on this date. Never
	// negative.
	Picks int64 `json:"picks" csv:"Picks"`

	// PerPick is the average duration of a single pick, decoded from
	// the report's time-of-day cell.
	PerPick time.Duration `json:"per_pick_ns" csv:"-"`

	// AvgMinutes is PerPick expressed in minutes. Kept denormalized
	// because every threshold and aggregation works in minutes.
	AvgMinutes float64 `json:"avg_minutes" csv:"AvgMinutes"`
}

// WorkerSighting marks that a worker appeared on a report for a date,
// regardless of whether the row later survived validation or
// thresholds. Sightings drive the left-join in per-worker aggregation:
// a sighted worker whose rows were all dropped still shows up,
// zero-filled, in the worker table.
type WorkerSighting struct {
	// Date is the report date, normalized to midnight UTC.
	Date time.Time `json:"date"`

	// Worker is the name exactly as written in the report row.
	Worker string `json:"worker"`
}

// Corpus is the combined parse output of one upload batch: the accepted
// records plus the deduplicated sighting roster. A Corpus is a value;
// filters and window selectors return narrowed copies and never mutate
// the original backing slices' contents.
type Corpus struct {
	Records   []PickRecord     `json:"records"`
	Sightings []WorkerSighting `json:"sightings"`
}

// Empty reports whether the corpus holds neither records nor sightings.
func (c Corpus) Empty() bool {
	return len(c.Records) == 0 && len(c.Sightings) == 0
}

// Dates returns the distinct record dates in ascending order.
func (c Corpus) Dates() []time.Time {
	seen := make(map[time.Time]struct{}, len(c.Records))
	var dates []time.Time
	for _, r := range c.Records {
		if _, ok := seen[r.Date]; ok {
			continue
		}
		seen[r.Date] = struct{}{}
		dates = append(dates, r.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// DateRange returns the earliest and latest record dates. The third
// return is false when the corpus has no records.
func (c Corpus) DateRange() (from, to time.Time, ok bool) {
	for _, r := range c.Records {
		if !ok {
			from, to, ok = r.Date, r.Date, true
			continue
		}
		if r.Date.Before(from) {
			from = r.Date
		}
		if r.Date.After(to) {
			to = r.Date
		}
	}
	return from, to, ok
}

// Workers returns the distinct worker names across the sighting roster
// in ascending order. This is the left-join key set for the worker
// table.
func (c Corpus) Workers() []string {
	seen := make(map[string]struct{}, len(c.Sightings))
	var names []string
	for _, s := range c.Sightings {
		if _, ok := seen[s.Worker]; ok {
			continue
		}
		seen[s.Worker] = struct{}{}
		names = append(names, s.Worker)
	}
	sort.Strings(names)
	return names
}

// UploadedFile is one member of an in-memory upload batch: the original
// filename (which encodes the report date) plus the workbook bytes.
type UploadedFile struct {
	Name string
	Data []byte
}

// BatchInfo summarizes the currently loaded upload batch for API
// consumers.
type BatchInfo struct {
	// FileCount is the number of files in the batch, including files
	// the parser skipped.
	FileCount int `json:"file_count"`

	// ReportDays is the number of distinct report dates that produced
	// records.
	ReportDays int `json:"report_days"`

	// RecordCount is the number of accepted pick records.
	RecordCount int `json:"record_count"`

	// WorkerCount is the number of distinct sighted workers.
	WorkerCount int `json:"worker_count"`

	// From and To bound the record dates ("2006-01-02"); empty when the
	// batch produced no records.
	From string `json:"from,omitempty"`
	To   string `json:"to,omitempty"`

	// LoadedAt is when the batch was accepted.
	LoadedAt time.Time `json:"loaded_at"`
}
