// Package audit defines the port for recording acquisition outcomes. Audit
// rows capture what happened during an acquisition, never the acquired
// project data itself, so the core stays free of report persistence.
package audit

import (
	"context"
	"time"
)

// Source identifies where a deliverable's data came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Record is one completed acquisition.
type Record struct {
	ID             int64     `json:"id"`
	AcquisitionID  string    `json:"acquisitionId"`
	Platform       string    `json:"platform"`
	ConnectionID   string    `json:"connectionId"`
	ProjectID      string    `json:"projectId"`
	Source         Source    `json:"source"`
	Route          string    `json:"route,omitempty"` // winning route, empty on fallback
	Attempts       int       `json:"attempts"`
	DurationMS     int64     `json:"durationMs"`
	RiskLevel      string    `json:"riskLevel"`
	CompletionRate float64   `json:"completionRate"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Store is the port interface for the audit trail.
type Store interface {
	RecordAcquisition(ctx context.Context, rec *Record) error
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	FallbackRate(ctx context.Context, since time.Time) (float64, error)
}
