package mouse

import "time"

// Decoder recovers press, release and drag actions from button-state
// samples. The zero value is ready to use.
type Decoder struct {
	held Button
}

// Decode converts one sample, the set of buttons held at (x, y), into an
// Event. Wheel samples are reported as presses and never count as held.
func (d *Decoder) Decode(x, y int, held Button, ts time.Time) Event {
	ev := Event{Position: Position{X: x, Y: y}, Timestamp: ts}

	switch {
	case held.IsWheel():
		ev.Button, ev.Action = held, ActionPress
	case held == ButtonNone && d.held == ButtonNone:
		ev.Action = ActionMove
	case held == ButtonNone:
		ev.Button, ev.Action = d.held, ActionRelease
		d.held = ButtonNone
	case held == d.held:
		ev.Button, ev.Action = held, ActionDrag
	default:
		ev.Button, ev.Action = held, ActionPress
		d.held = held
	}
	return ev
}

// Held returns the button currently held down.
func (d *Decoder) Held() Button {
	return d.held
}

// Reset forgets the held button.
func (d *Decoder) Reset() {
	d.held = ButtonNone
}
