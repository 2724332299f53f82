package domain

import (
	"fmt"
	"time"
)

// WindowKind selects the period-windowing mode for an analysis run.
type WindowKind string

const (
	// WindowAll passes the whole corpus through unchanged.
	WindowAll WindowKind = "all"

	// WindowYear keeps records from a single calendar year.
	WindowYear WindowKind = "year"

	// WindowMonth keeps records from a single calendar month.
	WindowMonth WindowKind = "month"

	// WindowDay keeps records from a single calendar date.
	WindowDay WindowKind = "day"

	// WindowWeekdays keeps records whose weekday ordinal is in the
	// selected set. An empty set keeps nothing.
	WindowWeekdays WindowKind = "weekdays"
)

// Granularity is the trend-bucket width derived from a window kind.
type Granularity string

const (
	// GranularityMonth buckets the trend by "2006-01".
	GranularityMonth Granularity = "month"

	// GranularityDay buckets the trend by "2006-01-02".
	GranularityDay Granularity = "day"
)

// Window describes the period slice an analysis run operates on. Only
// the parameters relevant to Kind are consulted: Year for WindowYear,
// Year+Month for WindowMonth, Date for WindowDay, Weekdays for
// WindowWeekdays.
type Window struct {
	Kind     WindowKind `json:"kind"`
	Year     int        `json:"year,omitempty"`
	Month    int        `json:"month,omitempty"`
	Date     time.Time  `json:"date,omitempty"`
	Weekdays []Weekday  `json:"weekdays,omitempty"`
}

// AllWindow is the identity window.
func AllWindow() Window {
	return Window{Kind: WindowAll}
}

// Validate checks that the parameters required by Kind are present and
// in range.
func (w Window) Validate() error {
	switch w.Kind {
	case WindowAll:
		return nil
	case WindowYear:
		if w.Year <= 0 {
			return fmt.Errorf("year window requires a positive year, got %d", w.Year)
		}
		return nil
	case WindowMonth:
		if w.Year <= 0 {
			return fmt.Errorf("month window requires a positive year, got %d", w.Year)
		}
		if w.Month < 1 || w.Month > 12 {
			return fmt.Errorf("month window requires month 1..12, got %d", w.Month)
		}
		return nil
	case WindowDay:
		if w.Date.IsZero() {
			return fmt.Errorf("day window requires a date")
		}
		return nil
	case WindowWeekdays:
		for _, wd := range w.Weekdays {
			if !wd.Valid() {
				return fmt.Errorf("weekday window holds invalid ordinal %d", int(wd))
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown window kind %q", w.Kind)
	}
}

// Contains reports whether a record dated d (with weekday wd) falls
// inside the window.
func (w Window) Contains(d time.Time, wd Weekday) bool {
	switch w.Kind {
	case WindowAll:
		return true
	case WindowYear:
		return d.Year() == w.Year
	case WindowMonth:
		return d.Year() == w.Year && int(d.Month()) == w.Month
	case WindowDay:
		return d.Year() == w.Date.Year() && d.Month() == w.Date.Month() && d.Day() == w.Date.Day()
	case WindowWeekdays:
		for _, sel := range w.Weekdays {
			if sel == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// TrendGranularity returns the trend-bucket width for this window:
// monthly for the broad windows (all, year), daily for everything
// narrower.
func (w Window) TrendGranularity() Granularity {
	switch w.Kind {
	case WindowAll, WindowYear:
		return GranularityMonth
	default:
		return GranularityDay
	}
}

// Describe renders a short human-readable form for logs.
func (w Window) Describe() string {
	switch w.Kind {
	case WindowAll:
		return "all"
	case WindowYear:
		return fmt.Sprintf("year=%d", w.Year)
	case WindowMonth:
		return fmt.Sprintf("month=%04d-%02d", w.Year, w.Month)
	case WindowDay:
		return fmt.Sprintf("day=%s", w.Date.Format("2006-01-02"))
	case WindowWeekdays:
		labels := make([]string, 0, len(w.Weekdays))
		for _, wd := range w.Weekdays {
			labels = append(labels, wd.Label())
		}
		return fmt.Sprintf("weekdays=%v", labels)
	default:
		return string(w.Kind)
	}
}
