package app

import (
	"errors"

	"github.com/dshills/multislider/internal/input/mouse"
	"github.com/dshills/multislider/internal/renderer/backend"
)

// eventLoop handles backend events until quit. Deferred slider work is
// flushed after every event, then the view is redrawn if anything changed.
func (app *Application) eventLoop() error {
	events := app.startInputPolling()

	for {
		select {
		case <-app.done:
			return nil

		case ev, ok := <-events:
			if !ok {
				return nil
			}

			redraw, err := app.handleBackendEvent(ev)
			app.set.Flush()

			if errors.Is(err, ErrQuit) {
				app.log.Info("quit")
				return nil
			}
			if err != nil {
				app.log.Warn("%v", err)
				app.view.SetMessage(err.Error())
				redraw = true
			}

			if app.dirty.Swap(false) || redraw {
				app.view.Draw()
			}
		}
	}
}

// handleBackendEvent processes a backend event and routes it appropriately.
// It reports whether the screen needs a redraw regardless of slider
// notifications. Returns ErrQuit if the application should exit.
func (app *Application) handleBackendEvent(ev backend.Event) (bool, error) {
	switch ev.Type {
	case backend.EventResize:
		app.resize(ev.Width, ev.Height)
		return true, nil
	case backend.EventKey:
		return app.handleKeyEvent(ev)
	case backend.EventMouse:
		return app.handleMouseEvent(ev)
	default:
		return false, nil
	}
}

// resize lays the track out for a screen of w by h cells and resizes the
// slider's track to match.
func (app *Application) resize(w, h int) {
	width := app.view.Layout(w, h)
	if err := app.set.SetTrackWidth(float64(width)); err != nil {
		app.log.Warn("resize track to %d: %v", width, err)
	}
}

// handleKeyEvent processes keyboard input events.
func (app *Application) handleKeyEvent(ev backend.Event) (bool, error) {
	switch ev.Key {
	case backend.KeyEscape, backend.KeyCtrlC:
		return false, ErrQuit
	case backend.KeyCtrlL:
		return true, nil
	case backend.KeyRune:
	default:
		return false, nil
	}

	switch ev.Rune {
	case 'q':
		return false, ErrQuit
	case 'a':
		// Neighbor links stay frozen until the drag is released.
		if app.set.Drag().Active() {
			app.log.Debug("add ignored during drag")
			return false, nil
		}
		id, err := app.set.AddHandle()
		if err != nil {
			return false, NewOperationError("add", "", err)
		}
		app.log.Debug("added handle %s", id)
		app.view.SetMessage("")
		return true, nil
	}
	return false, nil
}

// handleMouseEvent decodes a button-state sample and applies the resulting
// gesture to the slider.
func (app *Application) handleMouseEvent(ev backend.Event) (bool, error) {
	mev := app.decoder.Decode(ev.MouseX, ev.MouseY, convertButton(ev.Buttons), app.opts.Clock())

	res, err := app.mouse.Handle(mev)
	if err != nil {
		return false, NewOperationError(res.Gesture.String(), string(res.Handle), err)
	}
	if res.Gesture != mouse.GestureNone && app.view.Message() != "" {
		app.view.SetMessage("")
		return true, nil
	}
	return false, nil
}

// convertButton maps backend button state to mouse buttons.
func convertButton(b backend.MouseButton) mouse.Button {
	switch b {
	case backend.MouseLeft:
		return mouse.ButtonLeft
	case backend.MouseMiddle:
		return mouse.ButtonMiddle
	case backend.MouseRight:
		return mouse.ButtonRight
	case backend.MouseWheelUp:
		return mouse.ButtonWheelUp
	case backend.MouseWheelDown:
		return mouse.ButtonWheelDown
	default:
		return mouse.ButtonNone
	}
}

// startInputPolling reads backend events on a goroutine. The goroutine
// exits once done is closed and the backend is shut down, which unblocks
// PollEvent.
func (app *Application) startInputPolling() <-chan backend.Event {
	events := make(chan backend.Event, 100)

	go func() {
		defer close(events)

		for {
			ev := app.backend.PollEvent()

			select {
			case <-app.done:
				return
			default:
			}

			select {
			case events <- ev:
			case <-app.done:
				return
			}
		}
	}()

	return events
}
