// Package events contains the WebSocket event contracts PickPulse
// pushes to connected dashboards. Events announce that server state
// changed; clients re-fetch the details through the REST API.
package events

import (
	"time"
)

// MessageType defines the type of WebSocket message.
type MessageType string

const (
	// MessageTypeConnected greets a client right after registration.
	MessageTypeConnected MessageType = "connected"

	// MessageTypeDataRefreshed fires when a new upload batch replaced
	// the working corpus.
	MessageTypeDataRefreshed MessageType = "data:refreshed"

	// MessageTypeAnalysisComplete fires when an analysis run finished
	// and fresh tables are available.
	MessageTypeAnalysisComplete MessageType = "analysis:complete"
)

// Event is the envelope for every pushed message.
type Event struct {
	Type      MessageType `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent stamps an envelope with the current time.
func NewEvent(t MessageType, data interface{}) Event {
	return Event{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UTC(),
	}
}

// DataRefreshedPayload describes the batch that replaced the corpus.
type DataRefreshedPayload struct {
	FileCount   int    `json:"file_count"`
	ReportDays  int    `json:"report_days"`
	RecordCount int    `json:"record_count"`
	WorkerCount int    `json:"worker_count"`
	From        string `json:"from,omitempty"`
	To          string `json:"to,omitempty"`
}

// AnalysisCompletePayload summarizes a finished run.
type AnalysisCompletePayload struct {
	Window     string  `json:"window"`
	TotalPicks int64   `json:"total_picks"`
	AvgMinutes float64 `json:"avg_minutes"`
	Workers    int     `json:"workers"`
	DurationMS int64   `json:"duration_ms"`
}
