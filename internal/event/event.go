package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a published notification.
type Event struct {
	// Topic is the hierarchical event type.
	Topic Topic

	// Payload contains the event-specific data. Handlers type-assert it.
	Payload any

	// Metadata contains standard event information.
	Metadata Metadata
}

// Metadata contains standard information attached to every event.
type Metadata struct {
	// ID uniquely identifies this event instance.
	ID string

	// Timestamp is when the event was created.
	Timestamp time.Time

	// Source identifies the component that published the event.
	Source string

	// Sequence is the bus-local publish counter, strictly increasing.
	Sequence uint64

	// Depth is the publish nesting depth; 1 for a top-level publish.
	Depth int
}

// NewEvent creates an event with fresh metadata.
func NewEvent(t Topic, payload any, source string) Event {
	return Event{
		Topic:   t,
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Timestamp: time.Now(),
			Source:    source,
		},
	}
}
