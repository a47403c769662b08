// Package broadcast defines the port for pushing acquisition progress to
// connected clients in real time.
package broadcast

import "context"

// Broadcaster fans a typed event out to every connected client. Failures on
// individual clients are absorbed; progress delivery is best-effort.
type Broadcaster interface {
	BroadcastEvent(ctx context.Context, eventType string, payload any)
}

// Noop discards all events. Used when no hub is wired.
type Noop struct{}

func (Noop) BroadcastEvent(context.Context, string, any) {}

var _ Broadcaster = Noop{}
