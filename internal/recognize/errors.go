package recognize

import (
	"errors"
	"fmt"
)

// Errors returned by the coordinator.
var (
	// ErrNoInk indicates a pass was requested with no captured strokes.
	// Callers should skip the pass silently.
	ErrNoInk = errors.New("no ink to recognize")

	// ErrAlreadyRunning indicates a pass is outstanding. The request is
	// dropped, never queued.
	ErrAlreadyRunning = errors.New("recognition already running")

	// ErrRecognizerTimeout indicates a recognizer exceeded its time budget.
	ErrRecognizerTimeout = errors.New("recognizer timed out")

	// ErrRecognizerPanic indicates a recognizer panicked.
	ErrRecognizerPanic = errors.New("recognizer panicked")
)

// RecognizerError records a recognizer failure for one group.
type RecognizerError struct {
	// Recognizer is the recognizer's name.
	Recognizer string
	// Group is the group's index in the pass.
	Group int
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *RecognizerError) Error() string {
	return fmt.Sprintf("recognizer %s failed on group %d: %v", e.Recognizer, e.Group, e.Err)
}

// Unwrap returns the underlying error.
func (e *RecognizerError) Unwrap() error {
	return e.Err
}
