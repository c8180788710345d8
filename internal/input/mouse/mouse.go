package mouse

import (
	"sync"
	"time"

	"github.com/dshills/multislider/internal/logging"
	"github.com/dshills/multislider/internal/quantize"
	"github.com/dshills/multislider/internal/slider"
	"github.com/dshills/multislider/internal/track"
)

// Button represents a mouse button.
type Button uint8

const (
	// ButtonNone indicates no button.
	ButtonNone Button = iota
	// ButtonLeft is the primary (left) mouse button.
	ButtonLeft
	// ButtonMiddle is the middle mouse button (scroll wheel click).
	ButtonMiddle
	// ButtonRight is the secondary (right) mouse button.
	ButtonRight
	// ButtonWheelUp indicates scroll wheel up.
	ButtonWheelUp
	// ButtonWheelDown indicates scroll wheel down.
	ButtonWheelDown
)

// String returns a string representation of the button.
func (b Button) String() string {
	switch b {
	case ButtonLeft:
		return "left"
	case ButtonMiddle:
		return "middle"
	case ButtonRight:
		return "right"
	case ButtonWheelUp:
		return "wheel-up"
	case ButtonWheelDown:
		return "wheel-down"
	default:
		return "none"
	}
}

// IsWheel returns true if this is a scroll wheel button.
func (b Button) IsWheel() bool {
	return b == ButtonWheelUp || b == ButtonWheelDown
}

// Action represents the type of mouse action.
type Action uint8

const (
	// ActionNone indicates no action.
	ActionNone Action = iota
	// ActionPress indicates a button press.
	ActionPress
	// ActionRelease indicates a button release.
	ActionRelease
	// ActionMove indicates mouse movement (no button held).
	ActionMove
	// ActionDrag indicates mouse movement with a button held.
	ActionDrag
)

// String returns a string representation of the action.
func (a Action) String() string {
	switch a {
	case ActionPress:
		return "press"
	case ActionRelease:
		return "release"
	case ActionMove:
		return "move"
	case ActionDrag:
		return "drag"
	default:
		return "none"
	}
}

// Position represents a screen coordinate.
type Position struct {
	X int
	Y int
}

// Distance returns the Manhattan distance (|dx| + |dy|) between two positions.
func (p Position) Distance(other Position) int {
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Event represents a mouse input event.
type Event struct {
	// Position is the screen coordinates.
	Position Position

	// Button is the mouse button involved.
	Button Button

	// Action is the type of mouse action.
	Action Action

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// Gesture is the slider operation a mouse event resulted in.
type Gesture uint8

const (
	// GestureNone means the event did not touch the slider.
	GestureNone Gesture = iota
	// GestureDragStart means a handle was grabbed.
	GestureDragStart
	// GestureDragMove means the dragged handle was fed a pointer sample.
	GestureDragMove
	// GestureDragEnd means the dragged handle was released.
	GestureDragEnd
	// GestureRemove means a handle was removed.
	GestureRemove
	// GestureInsert means a handle was inserted.
	GestureInsert
)

// String returns a string representation of the gesture.
func (g Gesture) String() string {
	switch g {
	case GestureDragStart:
		return "drag-start"
	case GestureDragMove:
		return "drag-move"
	case GestureDragEnd:
		return "drag-end"
	case GestureRemove:
		return "remove"
	case GestureInsert:
		return "insert"
	default:
		return "none"
	}
}

// Result describes what Handle did.
type Result struct {
	Gesture Gesture

	// Handle is the handle the gesture applied to, if any.
	Handle slider.HandleID
}

// Slider is the part of the engine the handler drives.
type Slider interface {
	HandleAt(pointerX float64) (slider.HandleID, bool)
	BeginDrag(id slider.HandleID) error
	UpdateDrag(pointerX float64) error
	EndDrag() error
	RequestRemove(id slider.HandleID) error
	AddHandleAt(v float64) (slider.HandleID, error)
	Mapper() track.Mapper
	Quantizer() quantize.Quantizer
}

// Track converts screen cells into pointer positions relative to the track
// centre. PointerX reports false when the cell is off the track.
type Track interface {
	PointerX(x, y int) (float64, bool)
}

// Config configures mouse handler behavior.
type Config struct {
	// DoubleClickTime is the maximum time between clicks for a double-click.
	DoubleClickTime time.Duration

	// DoubleClickDistance is the maximum distance between clicks for a double-click.
	DoubleClickDistance int

	// EnableInsert enables double-click insertion on free track.
	EnableInsert bool

	// EnableRemove enables right-click removal.
	EnableRemove bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		DoubleClickTime:     400 * time.Millisecond,
		DoubleClickDistance: 1,
		EnableInsert:        true,
		EnableRemove:        true,
	}
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the handler's logger.
func WithLogger(l *logging.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.log = l
		}
	}
}

// Handler maps mouse events onto slider gestures.
type Handler struct {
	mu     sync.Mutex
	config Config
	slider Slider
	track  Track
	log    *logging.Logger

	// Click tracking
	click *clickTracker

	// Drag tracking
	drag *dragTracker
}

// NewHandler creates a new mouse handler driving s through t.
func NewHandler(s Slider, t Track, config Config, opts ...Option) *Handler {
	h := &Handler{
		config: config,
		slider: s,
		track:  t,
		log:    logging.Null,
		click:  newClickTracker(config.DoubleClickTime, config.DoubleClickDistance),
		drag:   newDragTracker(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle processes a mouse event. Engine errors are returned unchanged with
// the gesture that was attempted.
func (h *Handler) Handle(event Event) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch event.Action {
	case ActionPress:
		return h.handlePress(event)
	case ActionRelease:
		return h.handleRelease(event)
	case ActionDrag:
		return h.handleDrag(event)
	}

	return Result{}, nil
}

// handlePress handles mouse button press events.
func (h *Handler) handlePress(event Event) (Result, error) {
	switch event.Button {
	case ButtonLeft:
		return h.handleLeftPress(event)
	case ButtonRight:
		if h.config.EnableRemove {
			return h.handleRightPress(event)
		}
	}
	return Result{}, nil
}

// handleLeftPress grabs the handle under the pointer, or inserts one on a
// double click over free track.
func (h *Handler) handleLeftPress(event Event) (Result, error) {
	x, onTrack := h.track.PointerX(event.Position.X, event.Position.Y)
	if !onTrack {
		h.click.reset()
		return Result{}, nil
	}

	id, hit := h.slider.HandleAt(x)
	if hit {
		// A sequence that grabs a handle must not turn into an insert.
		h.click.reset()
		if err := h.slider.BeginDrag(id); err != nil {
			return Result{Gesture: GestureDragStart, Handle: id}, err
		}
		h.drag.start(event.Position, event.Button, id)
		h.log.Debug("drag start %s at %.2f", id, x)
		return Result{Gesture: GestureDragStart, Handle: id}, nil
	}

	count := h.click.recordClick(event.Position, event.Timestamp)
	if count < int(ClickDouble) || !h.config.EnableInsert {
		return Result{}, nil
	}
	h.click.reset()

	v, ok := h.slider.Mapper().Value(x, h.slider.Quantizer())
	if !ok {
		return Result{}, nil
	}
	id, err := h.slider.AddHandleAt(v)
	if err != nil {
		return Result{Gesture: GestureInsert}, err
	}
	h.log.Debug("insert %s at %g", id, v)
	return Result{Gesture: GestureInsert, Handle: id}, nil
}

// handleRightPress removes the handle under the pointer.
func (h *Handler) handleRightPress(event Event) (Result, error) {
	x, onTrack := h.track.PointerX(event.Position.X, event.Position.Y)
	if !onTrack {
		return Result{}, nil
	}
	id, hit := h.slider.HandleAt(x)
	if !hit {
		return Result{}, nil
	}

	if err := h.slider.RequestRemove(id); err != nil {
		return Result{Gesture: GestureRemove, Handle: id}, err
	}
	if h.drag.handle == id {
		h.drag.end()
	}
	h.log.Debug("remove %s", id)
	return Result{Gesture: GestureRemove, Handle: id}, nil
}

// handleRelease ends the drag started by the released button.
func (h *Handler) handleRelease(event Event) (Result, error) {
	if !h.drag.isActive() || event.Button != h.drag.button {
		return Result{}, nil
	}

	id := h.drag.handle
	h.drag.end()
	if err := h.slider.EndDrag(); err != nil {
		return Result{Gesture: GestureDragEnd, Handle: id}, err
	}
	return Result{Gesture: GestureDragEnd, Handle: id}, nil
}

// handleDrag feeds pointer motion to the active drag. The pointer may leave
// the track row; only its column matters.
func (h *Handler) handleDrag(event Event) (Result, error) {
	if !h.drag.isActive() || event.Button != h.drag.button {
		return Result{}, nil
	}

	h.drag.update(event.Position)
	x, _ := h.track.PointerX(event.Position.X, event.Position.Y)
	if err := h.slider.UpdateDrag(x); err != nil {
		return Result{Gesture: GestureDragMove, Handle: h.drag.handle}, err
	}
	return Result{Gesture: GestureDragMove, Handle: h.drag.handle}, nil
}

// Reset clears all handler state without touching the slider.
func (h *Handler) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.click.reset()
	h.drag.end()
}

// IsDragging returns true if a drag operation is in progress.
func (h *Handler) IsDragging() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.active
}

// DragState returns the current drag state.
func (h *Handler) DragState() DragState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.drag.state()
}
