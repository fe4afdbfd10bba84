package hermes

import "time"

// Event is a payload published to the event stream. MessageID is used for
// stream-side deduplication.
type Event interface {
	MessageID() string
}

type Weights struct {
	Mission     float64 `json:"mission"`
	Force       float64 `json:"force"`
	Acquisition float64 `json:"acquisition"`
}

// RankingsRecomputedEvent is published after every successful recompute.
type RankingsRecomputedEvent struct {
	EventID       string    `json:"event_id"`
	Weights       Weights   `json:"weights"`
	Sort          string    `json:"sort"`
	RecordCount   int       `json:"record_count"`
	TopInstanceID string    `json:"top_instance_id,omitempty"`
	DurationMs    float64   `json:"duration_ms"`
	Timestamp     time.Time `json:"timestamp"`
}

type DatasetReloadedEvent struct {
	EventID     string    `json:"event_id"`
	Source      string    `json:"source"`
	RecordCount int       `json:"record_count"`
	Timestamp   time.Time `json:"timestamp"`
}

type DatasetFailedEvent struct {
	EventID   string    `json:"event_id"`
	Source    string    `json:"source"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}

func (e RankingsRecomputedEvent) MessageID() string { return e.EventID }
func (e DatasetReloadedEvent) MessageID() string    { return e.EventID }
func (e DatasetFailedEvent) MessageID() string      { return e.EventID }

// DatasetReloadRequest is consumed from SubjectDatasetReload.
type DatasetReloadRequest struct {
	RequestedBy string `json:"requested_by,omitempty"`
	Reason      string `json:"reason,omitempty"`
}
