package slider

import (
	"errors"
	"fmt"
)

// Sentinel errors for the slider engine.
var (
	// ErrHandleNotFound is returned when a HandleID does not belong to the set.
	ErrHandleNotFound = errors.New("handle not found")

	// ErrInvalidRange is returned when a minimum exceeds its maximum.
	ErrInvalidRange = errors.New("minimum exceeds maximum")

	// ErrNonFinite is returned when NaN or Inf is supplied.
	ErrNonFinite = errors.New("value is not finite")

	// ErrOutOfLimits is returned when the value range leaves [MinLimit, MaxLimit].
	ErrOutOfLimits = errors.New("value range outside limits")

	// ErrReentrant is returned when the set is mutated during notification delivery.
	ErrReentrant = errors.New("slider mutated during notification delivery")

	// ErrDragActive is returned when a drag starts while another is in progress.
	ErrDragActive = errors.New("drag already in progress")

	// ErrNotDragging is returned when drag input arrives with no drag in progress.
	ErrNotDragging = errors.New("no drag in progress")
)

// ConfigError describes rejected configuration input.
type ConfigError struct {
	Op    string  // Operation name (e.g., "SetLimits")
	Field string  // Configuration field or pair
	Min   float64 // Offending lower value
	Max   float64 // Offending upper value
	Err   error   // Underlying sentinel
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid %s [%g, %g]: %v", e.Op, e.Field, e.Min, e.Max, e.Err)
}

// Unwrap returns the underlying error.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

func handleNotFound(id HandleID) error {
	return fmt.Errorf("%w: %s", ErrHandleNotFound, id)
}
