package slider

import "fmt"

// Button identifies which pointer button pressed a handle.
type Button uint8

const (
	// ButtonPrimary starts a drag.
	ButtonPrimary Button = iota
	// ButtonAlternate removes the handle.
	ButtonAlternate
)

// String returns the button name.
func (b Button) String() string {
	switch b {
	case ButtonPrimary:
		return "primary"
	case ButtonAlternate:
		return "alternate"
	default:
		return fmt.Sprintf("Button(%d)", b)
	}
}

// DragPhase is the drag state machine position.
type DragPhase uint8

const (
	// DragIdle means no handle is being dragged.
	DragIdle DragPhase = iota
	// DragActive means a handle follows the pointer.
	DragActive
)

// String returns the phase name.
func (p DragPhase) String() string {
	if p == DragActive {
		return "active"
	}
	return "idle"
}

// DragState is a snapshot of the drag controller.
type DragState struct {
	// Phase is the current phase.
	Phase DragPhase

	// Handle is the dragged handle, NoHandle when idle.
	Handle HandleID

	// StartValue is the handle value when the drag began.
	StartValue float64

	// Pointer is the last pointer sample.
	Pointer float64

	// Samples counts pointer samples since the drag began.
	Samples int
}

// DragController drives handle drags: Idle -> Active on a primary press,
// pointer samples while Active, Active -> Idle on release. One drag runs at
// a time.
type DragController struct {
	set *Set

	phase      DragPhase
	handle     *Handle
	startValue float64
	pointer    float64
	samples    int
}

// Phase returns the current phase.
func (d *DragController) Phase() DragPhase {
	return d.phase
}

// Active reports whether a drag is in progress.
func (d *DragController) Active() bool {
	return d.phase == DragActive
}

// Handle returns the dragged handle id.
func (d *DragController) Handle() (HandleID, bool) {
	if d.handle == nil {
		return NoHandle, false
	}
	return d.handle.id, true
}

// State returns a snapshot of the controller.
func (d *DragController) State() DragState {
	st := DragState{
		Phase:      d.phase,
		StartValue: d.startValue,
		Pointer:    d.pointer,
		Samples:    d.samples,
	}
	if d.handle != nil {
		st.Handle = d.handle.id
	}
	return st
}

// Delta returns the value moved since the drag began.
func (d *DragController) Delta() float64 {
	if d.handle == nil {
		return 0
	}
	return d.handle.value - d.startValue
}

// PointerDown handles a press on a handle. The primary button starts a drag;
// the alternate button removes the handle and starts nothing.
func (d *DragController) PointerDown(id HandleID, b Button) error {
	s := d.set
	if err := s.guard("PointerDown"); err != nil {
		return err
	}
	h, ok := s.byID[id]
	if !ok {
		return handleNotFound(id)
	}

	if b == ButtonAlternate {
		s.begin()
		defer s.end()
		s.remove(h)
		return nil
	}

	if d.phase == DragActive {
		return fmt.Errorf("drag %s: %w", id, ErrDragActive)
	}

	s.begin()
	defer s.end()
	d.phase = DragActive
	d.handle = h
	d.startValue = h.value
	d.pointer = h.offset
	d.samples = 0
	s.emit(Notification{Kind: KindDragStarted, Handle: h.id, Value: h.value, Offset: h.offset})
	return nil
}

// Sample moves the dragged handle toward the pointer position, measured
// from the track centre. Only the local neighbor window applies; neighbor
// identities stay as they were when the drag began. It returns the value
// change.
func (d *DragController) Sample(pointerX float64) (float64, error) {
	s := d.set
	if err := s.guard("Sample"); err != nil {
		return 0, err
	}
	if d.phase != DragActive {
		return 0, ErrNotDragging
	}

	d.pointer = pointerX
	d.samples++

	h := d.handle
	v, ok := h.mapper().Value(pointerX, s.q)
	if !ok {
		return 0, nil
	}

	s.begin()
	defer s.end()
	delta, offsetDelta := s.moveTo(h, v)
	if delta != 0 || offsetDelta != 0 {
		s.emit(Notification{
			Kind:        KindDragMoved,
			Handle:      h.id,
			Value:       h.value,
			Delta:       delta,
			Offset:      h.offset,
			OffsetDelta: offsetDelta,
		})
	}
	return delta, nil
}

// PointerUp ends the drag: the set is re-sorted, the released handle is
// clamped symmetrically and the global sweep runs.
func (d *DragController) PointerUp() error {
	s := d.set
	if err := s.guard("PointerUp"); err != nil {
		return err
	}
	if d.phase != DragActive {
		return ErrNotDragging
	}

	h, start := d.handle, d.startValue
	d.reset()

	s.begin()
	defer s.end()
	s.settle(h)
	s.emit(Notification{Kind: KindDragStopped, Handle: h.id, Value: h.value, Delta: h.value - start, Offset: h.offset})
	return nil
}

// Cancel abandons the drag without the release sweep.
func (d *DragController) Cancel() {
	d.reset()
}

func (d *DragController) reset() {
	d.phase = DragIdle
	d.handle = nil
	d.startValue = 0
	d.pointer = 0
	d.samples = 0
}
