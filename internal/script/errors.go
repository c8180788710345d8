package script

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned when running code on a closed Host.
	ErrClosed = errors.New("script host is closed")

	// ErrTimeout is returned when a chunk runs past the host's timeout.
	ErrTimeout = errors.New("script execution timeout")
)

// Error reports a failed chunk. Err is the slider error that aborted the
// chunk when there is one, otherwise the Lua error.
type Error struct {
	Chunk   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Chunk == "" {
		return "script: " + e.Message
	}
	return fmt.Sprintf("script %s: %s", e.Chunk, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
