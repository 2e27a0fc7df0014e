package manager

import (
	"errors"
	"fmt"
)

// ErrNoModelLoaded is returned by a Loader asked to generate before any load.
var ErrNoModelLoaded = errors.New("no model loaded")

// illegalTransitionError signals an edge missing from the transition table.
type illegalTransitionError struct {
	model    string
	from, to Status
}

func (e illegalTransitionError) Error() string {
	return fmt.Sprintf("illegal transition for %q: %s -> %s", e.model, e.from, e.to)
}

// ErrIllegalTransition constructs an illegalTransitionError.
func ErrIllegalTransition(model string, from, to Status) error {
	return illegalTransitionError{model: model, from: from, to: to}
}

// IsIllegalTransition reports whether err indicates a rejected state change.
func IsIllegalTransition(err error) bool {
	var e illegalTransitionError
	return errors.As(err, &e)
}

// panicError wraps a value recovered from a panicking collaborator.
type panicError struct{ v any }

func (e panicError) Error() string { return fmt.Sprintf("panic: %v", e.v) }

// IsPanic reports whether err was recovered from a panic.
func IsPanic(err error) bool {
	var e panicError
	return errors.As(err, &e)
}
