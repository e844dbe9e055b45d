package audit

import (
	"context"
	"time"
)

// Event describes one committed mutation for external audit consumers.
// Before/After carry the entity state around the mutation; Before is nil
// on creation.
type Event struct {
	EventID    string    `json:"event_id"`
	CompanyID  uint      `json:"company_id"`
	Action     string    `json:"action"`
	Entity     string    `json:"entity"`
	Before     any       `json:"before,omitempty"`
	After      any       `json:"after,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Notifier receives audit events after each mutation commits. Delivery is
// fire-and-forget: implementations must not fail the calling operation.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Event) {}
