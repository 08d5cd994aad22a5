package poll

import (
	"errors"
	"fmt"
)

// ErrIDExhausted is returned when every id drawn during poll creation
// collided with an existing poll.
var ErrIDExhausted = errors.New("poll id generation exhausted")

// ValidationError reports malformed or out-of-range input: an empty question,
// too few or too many options, an empty selection, an option index out of
// range, or several choices on a single-choice poll.
//
// It is always recoverable by correcting the input.
type ValidationError struct {
	// Field names the offending input ("question", "options", "selection", "id", "votes").
	Field string

	// Message is a human-readable description suitable for a notification.
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NotFoundError reports that no poll exists with the given id.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("poll %q not found", e.ID)
}

// InvalidStateError reports an operation invoked while the session is not in
// a state that permits it, such as voting with no poll selected. It points to
// a sequencing bug in the caller rather than bad user input.
type InvalidStateError struct {
	Op     string
	Reason string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Op, e.Reason)
}

func validationErr(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
