// Package api contains API contract definitions for the PickPulse
// picking analytics service. Version v1 represents the current stable
// API version.
package api

import (
	"time"

	"pickpulse/pkg/contracts/domain"
)

// AnalysisRequest is the body of POST /api/analysis: the thresholds to
// gate the corpus with and the period window to slice it by. Omitted
// thresholds fall back to the persisted settings; an omitted window
// means the whole corpus.
type AnalysisRequest struct {
	// MinuteThreshold is the inclusive ceiling on average per-pick
	// minutes. Nil means "use the stored setting".
	MinuteThreshold *float64 `json:"minute_threshold,omitempty" validate:"omitempty,gte=0"`

	// PickCountThreshold is the inclusive floor on pick count. Nil
	// means "use the stored setting".
	PickCountThreshold *int64 `json:"picking_count_threshold,omitempty" validate:"omitempty,gte=0"`

	// Window selects the period slice. Zero value means the whole
	// corpus.
	Window WindowRequest `json:"window"`
}

// WindowRequest is the wire form of a period window. Date fields are
// strings so clients never fight time-zone encodings.
type WindowRequest struct {
	Kind     string `json:"kind" validate:"omitempty,oneof=all year month day weekdays"`
	Year     int    `json:"year,omitempty" validate:"omitempty,min=2000,max=2100"`
	Month    int    `json:"month,omitempty" validate:"omitempty,min=1,max=12"`
	Date     string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Weekdays []int  `json:"weekdays,omitempty" validate:"omitempty,dive,min=0,max=5"`
}

// ToDomain converts the wire window into its domain form. An empty kind
// maps to the identity window.
func (w WindowRequest) ToDomain() (domain.Window, error) {
	kind := domain.WindowKind(w.Kind)
	if w.Kind == "" {
		kind = domain.WindowAll
	}

	win := domain.Window{
		Kind:  kind,
		Year:  w.Year,
		Month: w.Month,
	}
	if w.Date != "" {
		d, err := time.Parse("2006-01-02", w.Date)
		if err != nil {
			return domain.Window{}, err
		}
		win.Date = d.UTC()
	}
	if kind == domain.WindowWeekdays {
		win.Weekdays = make([]domain.Weekday, 0, len(w.Weekdays))
		for _, n := range w.Weekdays {
			win.Weekdays = append(win.Weekdays, domain.Weekday(n))
		}
	}
	if err := win.Validate(); err != nil {
		return domain.Window{}, err
	}
	return win, nil
}

// AnalysisResponse wraps a completed analysis run.
type AnalysisResponse struct {
	Result domain.AnalysisResult `json:"result"`
}

// UploadResponse reports the outcome of an upload batch replacement.
type UploadResponse struct {
	Batch domain.BatchInfo `json:"batch"`
}

// SettingsResponse carries the persisted thresholds.
type SettingsResponse struct {
	Thresholds domain.Thresholds `json:"thresholds"`
}

// HealthResponse is the payload of GET /api/health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	UptimeSec int64     `json:"uptime_seconds"`
}
