package domain

// Default threshold values applied when no settings file exists or a
// stored value is missing or unreadable.
const (
	DefaultMinuteThreshold    = 30.0
	DefaultPickCountThreshold = 0
)

// Thresholds are the two operator-tunable gates applied to a corpus
// before aggregation: a ceiling on average per-pick minutes and a floor
// on daily pick count. A record survives only when it passes both.
//
// The JSON keys match the on-disk settings file, which is overwritten
// wholesale after each successful analysis run.
type Thresholds struct {
	// MinuteThreshold is the inclusive ceiling on a record's average
	// per-pick duration in minutes.
	MinuteThreshold float64 `json:"minute_threshold" validate:"gte=0"`

	// PickCountThreshold is the inclusive floor on a record's pick
	// count.
	PickCountThreshold int64 `json:"picking_count_threshold" validate:"gte=0"`
}

// DefaultThresholds returns the documented defaults: 30 minutes, 0
// picks.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinuteThreshold:    DefaultMinuteThreshold,
		PickCountThreshold: DefaultPickCountThreshold,
	}
}
