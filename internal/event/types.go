package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.subject" (e.g., "board.tasks").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Base provides common fields for all events.
// Embed it in concrete event types to satisfy the Event interface.
type Base struct {
	eventType string
	timestamp time.Time
}

func (e Base) EventType() string    { return e.eventType }
func (e Base) Timestamp() time.Time { return e.timestamp }

// NewBase creates a Base stamped with the current time.
func NewBase(eventType string) Base {
	return NewBaseAt(eventType, time.Now())
}

// NewBaseAt creates a Base with an explicit timestamp.
func NewBaseAt(eventType string, at time.Time) Base {
	return Base{
		eventType: eventType,
		timestamp: at,
	}
}
