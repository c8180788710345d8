// Package mouse turns pointer input into slider gestures.
//
// Terminals report mouse input as button-state samples rather than press
// and release events. Decoder recovers the press, release and drag actions
// from those samples; Handler then maps each action onto the slider:
//
//   - Left press on a handle begins dragging it
//   - Dragging with the left button held feeds pointer samples to the drag
//   - Releasing the left button ends the drag
//   - Right press on a handle removes it
//   - Double left click on free track inserts a handle at that value
//
// # Core Types
//
// Event represents a decoded mouse event with position, button and action:
//
//	event := mouse.Event{
//	    Position:  mouse.Position{X: 40, Y: 3},
//	    Button:    mouse.ButtonLeft,
//	    Action:    mouse.ActionPress,
//	    Timestamp: time.Now(),
//	}
//
// # Handler
//
// Handler needs the slider and a Track that converts screen cells into
// pointer positions relative to the track centre:
//
//	handler := mouse.NewHandler(set, view, mouse.DefaultConfig())
//	result, err := handler.Handle(event)
//
// # Click Detection
//
// Double clicks are detected from timing and position thresholds. A click
// sequence that started on a handle never inserts.
//
// # Thread Safety
//
// Handler is safe for concurrent use, but the slider it drives is not: call
// Handle from the goroutine that owns the slider.
package mouse
