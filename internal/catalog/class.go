package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
)

// ErrInvalidClass is the class of every validation failure reported by the loader
var ErrInvalidClass = errors.New("invalid class")

// Workout is one exercise inside a class, in class order
type Workout struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Category   string `yaml:"category,omitempty"`
	Difficulty string `yaml:"difficulty,omitempty"`

	DefaultDurationSeconds  int `yaml:"default_duration"`
	DurationOverrideSeconds int `yaml:"duration_override,omitempty"` // 0 keeps the default

	CoachingCues string `yaml:"coaching_cues,omitempty"`
	MediaURL     string `yaml:"media_url,omitempty"`
}

// EffectiveDuration returns the override if set, else the default
func (w Workout) EffectiveDuration() int {
	if w.DurationOverrideSeconds > 0 {
		return w.DurationOverrideSeconds
	}
	return w.DefaultDurationSeconds
}

// Class is a scheduled sequence of workouts an instructor runs in Play Mode
type Class struct {
	ID          string    `yaml:"id"`
	Name        string    `yaml:"name"`
	ClassType   string    `yaml:"class_type,omitempty"`
	Room        string    `yaml:"room,omitempty"`
	ScheduledAt time.Time `yaml:"scheduled_at,omitempty"`

	// TransitionSeconds overrides the configured transition length for this class (0 = use default)
	TransitionSeconds int `yaml:"transition_seconds,omitempty"`

	Workouts []Workout `yaml:"workouts"`

	Source string `yaml:"-"` // File the class was loaded from, "" for built-ins
}

// EffectiveTransition returns the class override if set, else defaultSeconds
func (c Class) EffectiveTransition(defaultSeconds int) int {
	if c.TransitionSeconds > 0 {
		return c.TransitionSeconds
	}
	return defaultSeconds
}

// TotalDurationSeconds sums the effective workout durations plus one transition between
// each pair of consecutive workouts.
func (c Class) TotalDurationSeconds(defaultTransition int) int {
	total := 0
	for _, w := range c.Workouts {
		total += w.EffectiveDuration()
	}
	if len(c.Workouts) > 1 {
		total += (len(c.Workouts) - 1) * c.EffectiveTransition(defaultTransition)
	}
	return total
}

// ToSteps converts the class into the step list a Play Mode session runs
func (c Class) ToSteps() []playmode.WorkoutStep {
	steps := make([]playmode.WorkoutStep, 0, len(c.Workouts))
	for _, w := range c.Workouts {
		steps = append(steps, playmode.WorkoutStep{
			ID:              w.ID,
			Name:            w.Name,
			DurationSeconds: w.EffectiveDuration(),
			CoachingCues:    w.CoachingCues,
			MediaReference:  w.MediaURL,
		})
	}
	return steps
}

// Validate reports the first problem that would stop the class from running
func (c Class) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: class %q has no name", ErrInvalidClass, c.ID)
	}
	if len(c.Workouts) == 0 {
		return fmt.Errorf("%w: class %q has no workouts", ErrInvalidClass, c.Name)
	}
	if c.TransitionSeconds < 0 {
		return fmt.Errorf("%w: class %q has negative transition %d", ErrInvalidClass, c.Name, c.TransitionSeconds)
	}

	seen := make(map[string]bool, len(c.Workouts))
	for i, w := range c.Workouts {
		if w.Name == "" {
			return fmt.Errorf("%w: class %q workout %d has no name", ErrInvalidClass, c.Name, i+1)
		}
		if w.EffectiveDuration() <= 0 {
			return fmt.Errorf("%w: class %q workout %q has duration %d", ErrInvalidClass, c.Name, w.Name, w.EffectiveDuration())
		}
		if seen[w.ID] {
			return fmt.Errorf("%w: class %q has duplicate workout id %q", ErrInvalidClass, c.Name, w.ID)
		}
		seen[w.ID] = true
	}
	return nil
}
