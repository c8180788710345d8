package mouse

import "github.com/dshills/multislider/internal/slider"

// dragTracker tracks mouse drag state.
type dragTracker struct {
	// active indicates a drag is in progress.
	active bool

	// button is the mouse button being held.
	button Button

	// handle is the slider handle being dragged.
	handle slider.HandleID

	// startPos is where the drag started.
	startPos Position

	// currentPos is the current drag position.
	currentPos Position
}

// newDragTracker creates a new drag tracker.
func newDragTracker() *dragTracker {
	return &dragTracker{}
}

// start begins a new drag operation.
func (t *dragTracker) start(pos Position, button Button, id slider.HandleID) {
	t.active = true
	t.button = button
	t.handle = id
	t.startPos = pos
	t.currentPos = pos
}

// update updates the current drag position.
func (t *dragTracker) update(pos Position) {
	if t.active {
		t.currentPos = pos
	}
}

// end ends the current drag operation.
func (t *dragTracker) end() {
	*t = dragTracker{}
}

// isActive returns true if a drag is in progress.
func (t *dragTracker) isActive() bool {
	return t.active
}

// DragState represents the current state of a drag operation.
type DragState struct {
	// Active indicates a drag is in progress.
	Active bool

	// Button is the mouse button being held.
	Button Button

	// Handle is the slider handle being dragged.
	Handle slider.HandleID

	// StartPos is where the drag started.
	StartPos Position

	// CurrentPos is the current drag position.
	CurrentPos Position
}

func (t *dragTracker) state() DragState {
	return DragState{
		Active:     t.active,
		Button:     t.button,
		Handle:     t.handle,
		StartPos:   t.startPos,
		CurrentPos: t.currentPos,
	}
}
