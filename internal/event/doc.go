// Package event provides the synchronous notification bus used by the slider
// engine to talk to its host.
//
// Events carry a hierarchical topic with dot notation and a payload:
//
//	slider.handle.created       - A handle was inserted
//	slider.drag.moved           - A dragged handle changed position
//	slider.range.value.changed  - The selectable value range changed
//
// # Wildcard Patterns
//
// Subscriptions support wildcard patterns:
//
//	slider.drag.*   - matches slider.drag.started, slider.drag.stopped
//	slider.**       - matches every slider topic
//	*.*.created     - matches slider.handle.created
//
// # Delivery
//
// Delivery is always synchronous: Publish runs every matching handler on the
// caller's goroutine, in priority order, before it returns. Handlers must not
// assume asynchronous delivery and must not block. A handler that panics is
// recovered and reported as a *PanicError; the remaining handlers still run.
//
// # Re-entrancy
//
// Handlers may publish further events; the bus tracks the nesting depth so
// owners (such as the slider engine) can refuse state mutation while a
// notification is being delivered.
package event
