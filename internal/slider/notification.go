package slider

import (
	"github.com/dshills/multislider/internal/event"
)

// Kind identifies a notification. Its value is the bus topic it is
// published under.
type Kind string

// Notification kinds.
const (
	KindDistanceChanged   Kind = "slider.distance.changed"
	KindValueRangeChanged Kind = "slider.range.value.changed"
	KindLimitRangeChanged Kind = "slider.range.limit.changed"
	KindHandleCreated     Kind = "slider.handle.created"
	KindHandleDestroyed   Kind = "slider.handle.destroyed"
	KindDragStarted       Kind = "slider.drag.started"
	KindDragMoved         Kind = "slider.drag.moved"
	KindDragStopped       Kind = "slider.drag.stopped"
	KindValueChanged      Kind = "slider.handle.value.changed"
	KindWidthChanged      Kind = "slider.handle.width.changed"
	KindTrackResized      Kind = "slider.track.resized"
)

// TopicAll matches every slider notification.
const TopicAll event.Topic = "slider.**"

// Topic returns the bus topic for k.
func (k Kind) Topic() event.Topic {
	return event.Topic(k)
}

// String returns the topic string.
func (k Kind) String() string {
	return string(k)
}

// Notification is the payload of every slider event. Fields that do not
// apply to a kind are zero.
type Notification struct {
	Kind Kind

	// Handle is set for handle, drag and per-handle value/width events.
	Handle HandleID

	// Value is the handle value after the change, or the new distance.
	Value float64

	// Delta is the value change (value and drag events), or the track
	// width change (track resize).
	Delta float64

	// Offset is the handle pixel offset after the change.
	Offset float64

	// OffsetDelta is the pixel movement of a drag sample.
	OffsetDelta float64

	// Min and Max carry the new value range or limit range.
	Min float64
	Max float64

	// Width is the handle width or the new track width.
	Width float64
}

// FromEvent extracts the Notification carried by ev.
func FromEvent(ev event.Event) (Notification, bool) {
	n, ok := ev.Payload.(Notification)
	return n, ok
}
