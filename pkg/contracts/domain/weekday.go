package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// Weekday is the explicit working-weekday ordinal used across the
// analytics pipeline. The warehouse operates Monday through Saturday;
// Sunday-dated reports are rejected during parsing, so Sunday has no
// representation here and the ordinal space is exactly 0..5.
//
// The ordinal order (Monday first) is the display and aggregation order
// for every weekday table. Do not rely on time.Weekday numbering, which
// starts the week on Sunday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// WeekdayCount is the number of working weekdays in the reporting week.
const WeekdayCount = 6

// weekdayLabels holds the report-language (Korean) labels, indexed by
// ordinal. These are the labels the source workbooks and exports use.
var weekdayLabels = [WeekdayCount]string{
	"월요일",
	"화요일",
	"수요일",
	"목요일",
	"금요일",
	"토요일",
}

// AllWeekdays returns the six working weekdays in ordinal order.
// The returned slice is a fresh copy each call.
func AllWeekdays() []Weekday {
	return []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether w is within the working-weekday ordinal space.
func (w Weekday) Valid() bool {
	return w >= Monday && w <= Saturday
}

// Label returns the report-language label (e.g. "월요일" for Monday).
// Invalid ordinals return an empty string.
func (w Weekday) Label() string {
	if !w.Valid() {
		return ""
	}
	return weekdayLabels[w]
}

// String implements fmt.Stringer using the report-language label.
func (w Weekday) String() string {
	if !w.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(w))
	}
	return weekdayLabels[w]
}

// WeekdayFromTime maps a calendar date to its working-weekday ordinal.
// The second return is false for Sunday dates, which have no ordinal.
func WeekdayFromTime(t time.Time) (Weekday, bool) {
	switch t.Weekday() {
	case time.Monday:
		return Monday, true
	case time.Tuesday:
		return Tuesday, true
	case time.Wednesday:
		return Wednesday, true
	case time.Thursday:
		return Thursday, true
	case time.Friday:
		return Friday, true
	case time.Saturday:
		return Saturday, true
	default:
		return 0, false
	}
}

// ParseWeekday resolves a report-language label to its ordinal.
func ParseWeekday(label string) (Weekday, error) {
	for i, l := range weekdayLabels {
		if l == label {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday label: %q", label)
}

// MarshalJSON encodes the weekday as its report-language label so API
// consumers render the same text as the source workbooks.
func (w Weekday) MarshalJSON() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("weekday ordinal out of range: %d", int(w))
	}
	return json.Marshal(w.Label())
}

// UnmarshalJSON accepts either an ordinal number (0..5) or a
// report-language label.
func (w *Weekday) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		wd := Weekday(n)
		if !wd.Valid() {
			return fmt.Errorf("weekday ordinal out of range: %d", n)
		}
		*w = wd
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("weekday must be an ordinal or a label: %w", err)
	}
	wd, err := ParseWeekday(s)
	if err != nil {
		return err
	}
	*w = wd
	return nil
}
