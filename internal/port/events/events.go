// Package events defines the port for publishing acquisition lifecycle
// events. Downstream report builders subscribe to these to know when fresh
// analytics are available without polling.
package events

import (
	"context"
	"time"
)

// Subjects for acquisition events.
const (
	SubjectCompleted = "acquisitions.completed"
	SubjectFallback  = "acquisitions.fallback"
)

// AcquisitionEvent is the payload published on acquisition subjects.
type AcquisitionEvent struct {
	AcquisitionID string    `json:"acquisitionId"`
	Platform      string    `json:"platform"`
	ConnectionID  string    `json:"connectionId"`
	ProjectID     string    `json:"projectId"`
	Source        string    `json:"source"`
	RiskLevel     string    `json:"riskLevel"`
	DurationMS    int64     `json:"durationMs"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Publisher is the port interface for emitting acquisition events.
type Publisher interface {
	Publish(ctx context.Context, subject string, ev AcquisitionEvent) error
	Close() error
}

// Noop discards all events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, string, AcquisitionEvent) error { return nil }
func (Noop) Close() error                                            { return nil }

var _ Publisher = Noop{}
