package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrHalted is returned by Tick once the session has emitted its
	// terminal frame.
	ErrHalted = errors.New("sim: session halted")

	// ErrStopped is returned after Stop until the driver is Reset.
	ErrStopped = errors.New("sim: session stopped")

	// ErrInvalidSpeed is returned for a playback speed that is not positive.
	ErrInvalidSpeed = errors.New("sim: playback speed must be positive")

	// ErrInvalidStep is returned by Run for a step that is not positive.
	ErrInvalidStep = errors.New("sim: step must be positive")
)

// FramesExceededError is returned when a session produces more frames than
// its quota allows.
type FramesExceededError struct {
	Frames int
	Limit  int
}

// Error implements the error interface.
func (e *FramesExceededError) Error() string {
	return fmt.Sprintf("session exceeded max frames quota: %d frames > %d limit", e.Frames, e.Limit)
}

// IsFramesExceeded reports whether err is, or wraps, a FramesExceededError.
func IsFramesExceeded(err error) bool {
	var fe *FramesExceededError
	return errors.As(err, &fe)
}

// DivergenceError reports the first frame at which two runs of the same
// schedule differ.
type DivergenceError struct {
	Frame    int
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *DivergenceError) Error() string {
	return fmt.Sprintf("frame %d diverged: expected %s, got %s", e.Frame, e.Expected, e.Actual)
}
