package playmode

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSession is the class of InvalidSessionError
	ErrInvalidSession = errors.New("invalid session")
	// ErrInvalidDuration is the class of InvalidDurationError
	ErrInvalidDuration = errors.New("invalid duration")
	// ErrAlreadyStarted is returned by Start on a session that has left the idle phase
	ErrAlreadyStarted = errors.New("session already started")
)

// InvalidSessionError rejects a step list that cannot back a Play Mode session.
// The activation must not proceed.
type InvalidSessionError struct {
	Reason string
}

func (e *InvalidSessionError) Error() string {
	return fmt.Sprintf("invalid session: %s", e.Reason)
}

func (e *InvalidSessionError) Unwrap() error {
	return ErrInvalidSession
}

// InvalidDurationError rejects a zero or negative countdown length.
// StepID is empty when the duration belongs to a transition.
type InvalidDurationError struct {
	StepID  string
	Seconds int
}

func (e *InvalidDurationError) Error() string {
	if e.StepID == "" {
		return fmt.Sprintf("invalid duration: %d seconds", e.Seconds)
	}
	return fmt.Sprintf("invalid duration for step %q: %d seconds", e.StepID, e.Seconds)
}

func (e *InvalidDurationError) Unwrap() error {
	return ErrInvalidDuration
}
