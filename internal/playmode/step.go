package playmode

import "fmt"

// WorkoutStep is a single timed block of class content.
// Steps are supplied by the caller and are never modified by a Session.
type WorkoutStep struct {
	ID              string // Unique within a session's step list
	Name            string // Display label
	DurationSeconds int    // Countdown length, must be positive
	CoachingCues    string // Optional free text
	MediaReference  string // Optional image/video handle, opaque to the core
}

// validateSteps checks a step list before a session takes ownership of it.
func validateSteps(steps []WorkoutStep) error {
	if len(steps) == 0 {
		return &InvalidSessionError{Reason: "step list is empty"}
	}

	seen := make(map[string]int, len(steps))
	for i, step := range steps {
		if prev, ok := seen[step.ID]; ok {
			return &InvalidSessionError{
				Reason: fmt.Sprintf("duplicate step id %q at positions %d and %d", step.ID, prev, i),
			}
		}
		seen[step.ID] = i

		if step.DurationSeconds <= 0 {
			return &InvalidDurationError{StepID: step.ID, Seconds: step.DurationSeconds}
		}
	}
	return nil
}
