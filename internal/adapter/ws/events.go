package ws

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Event type constants for acquisition progress messages.
const (
	EventAcquisitionStarted   = "acquisition.started"
	EventAcquisitionRoute     = "acquisition.route"
	EventAcquisitionCompleted = "acquisition.completed"
)

// AcquisitionStartedEvent is broadcast when an acquisition begins.
type AcquisitionStartedEvent struct {
	AcquisitionID string `json:"acquisitionId"`
	Platform      string `json:"platform"`
	ProjectID     string `json:"projectId"`
}

// RouteEvent is broadcast after each route attempt during the cascade.
type RouteEvent struct {
	AcquisitionID string `json:"acquisitionId"`
	Route         string `json:"route"`
	Outcome       string `json:"outcome"`
	StatusCode    int    `json:"statusCode,omitempty"`
}

// AcquisitionCompletedEvent is broadcast once the deliverable is ready.
type AcquisitionCompletedEvent struct {
	AcquisitionID string `json:"acquisitionId"`
	Platform      string `json:"platform"`
	ProjectID     string `json:"projectId"`
	Source        string `json:"source"`
	RiskLevel     string `json:"riskLevel"`
	DurationMS    int64  `json:"durationMs"`
}

// BroadcastEvent marshals a typed event and broadcasts it in the standard
// envelope.
func (h *Hub) BroadcastEvent(ctx context.Context, eventType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		slog.Error("marshal ws event payload", "type", eventType, "error", err)
		return
	}

	h.Broadcast(ctx, Message{
		Type:    eventType,
		Payload: json.RawMessage(data),
	})
}
