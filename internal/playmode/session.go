package playmode

import (
	"github.com/lowaak/smart-trainer/studio-play/internal/events"
)

// Phase is the lifecycle position of a Session
type Phase int

const (
	PhaseIdle          Phase = iota // Created, Start not yet accepted
	PhaseRunning                    // Workout countdown ticking
	PhasePaused                     // Nothing ticks; see State.ResumePhase
	PhaseTransitioning              // Interstitial countdown ticking
	PhaseCompleted                  // Terminal: last step expired
	PhaseAborted                    // Terminal: instructor exited
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseRunning:
		return "Running"
	case PhasePaused:
		return "Paused"
	case PhaseTransitioning:
		return "Transitioning"
	case PhaseCompleted:
		return "Completed"
	case PhaseAborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// Terminal reports whether no further transitions are possible
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseAborted
}

// SessionConfig holds per-session settings. Zero values select defaults.
type SessionConfig struct {
	TransitionSeconds int
}

// Session sequences the steps of one Play Mode activation.
//
// A Session is not safe for concurrent use: every method, including Tick, must be
// called from one goroutine or under one lock (see Runner). Events are delivered
// synchronously from inside the call that raised them.
type Session struct {
	transitionSeconds int

	steps               []WorkoutStep
	currentIndex        int
	elapsedTotalSeconds int
	phase               Phase
	resumePhase         Phase

	countdown  *Countdown
	transition Transition

	events *events.Event[Event]
}

// NewSession creates an idle session.
func NewSession(cfg SessionConfig) (*Session, error) {
	transitionSeconds := cfg.TransitionSeconds
	if transitionSeconds == 0 {
		transitionSeconds = DefaultTransitionSeconds
	}
	if transitionSeconds < 0 {
		return nil, &InvalidDurationError{Seconds: transitionSeconds}
	}

	return &Session{
		transitionSeconds: transitionSeconds,
		phase:             PhaseIdle,
		countdown:         NewCountdown(true),
		events:            events.NewEvent[Event](false),
	}, nil
}

// Listen registers a callback for session events and returns its deregistration function
func (s *Session) Listen(callback func(Event)) func() {
	return s.events.Listen(callback)
}

// Start takes ownership of steps and begins the first one.
// On error the session stays idle.
func (s *Session) Start(steps []WorkoutStep) error {
	if s.phase != PhaseIdle {
		return ErrAlreadyStarted
	}
	if err := validateSteps(steps); err != nil {
		return err
	}

	s.steps = make([]WorkoutStep, len(steps))
	copy(s.steps, steps)
	s.elapsedTotalSeconds = 0
	s.beginStep(0, false)
	return nil
}

// Tick advances whichever countdown is active by one second.
// Ticks delivered while idle, paused or terminal are ignored.
func (s *Session) Tick() {
	switch s.phase {
	case PhaseRunning:
		signals := s.countdown.Tick()
		s.elapsedTotalSeconds++

		if signals.Has(SignalWarning) {
			s.emit(EventWarning)
		}
		if signals.Has(SignalPreview) {
			s.emit(EventPreviewDue)
		}
		if signals.Has(SignalFinalCount) {
			s.emit(EventFinalCount)
		}
		if signals.Has(SignalExpired) {
			s.onCountdownExpired()
		}

	case PhaseTransitioning:
		expired := s.transition.Tick()
		s.elapsedTotalSeconds++
		if expired {
			s.onTransitionExpired()
		}
	}
}

// onCountdownExpired decides between completion and a transition to the next step.
func (s *Session) onCountdownExpired() {
	s.emit(EventExpired)

	if s.currentIndex == len(s.steps)-1 {
		s.phase = PhaseCompleted
		s.emit(EventSessionCompleted)
		return
	}

	// transitionSeconds was validated by NewSession
	_ = s.transition.Start(s.transitionSeconds)
	s.phase = PhaseTransitioning
	s.emit(EventTransitionStarted)
}

func (s *Session) onTransitionExpired() {
	s.emit(EventTransitionExpired)
	s.beginStep(s.currentIndex + 1, false)
}

// beginStep moves to index and starts its countdown from the full duration.
// skipped marks the StepStarted event as the result of a skip.
func (s *Session) beginStep(index int, skipped bool) {
	s.currentIndex = index
	// Durations were validated by Start
	_ = s.countdown.Initialize(s.steps[index].DurationSeconds)
	s.countdown.Resume()
	s.phase = PhaseRunning
	s.events.Notify(s.newEvent(EventStepStarted, func(e *Event) { e.Skipped = skipped }))
}

// SkipForward jumps to the next step without a transition.
// It reports whether the skip happened; refusals raise an EventNotice.
func (s *Session) SkipForward() bool {
	if !s.checkStepControl() {
		return false
	}
	if s.currentIndex == len(s.steps)-1 {
		s.notice(NoticeLastStep)
		return false
	}
	s.countdown.Stop()
	s.beginStep(s.currentIndex + 1, true)
	return true
}

// SkipBackward returns to the previous step without a transition.
func (s *Session) SkipBackward() bool {
	if !s.checkStepControl() {
		return false
	}
	if s.currentIndex == 0 {
		s.notice(NoticeFirstStep)
		return false
	}
	s.countdown.Stop()
	s.beginStep(s.currentIndex - 1, true)
	return true
}

// RestartCurrentStep resets the current step to its full duration.
// A paused session stays paused.
func (s *Session) RestartCurrentStep() bool {
	if !s.checkStepControl() {
		return false
	}
	_ = s.countdown.Initialize(s.steps[s.currentIndex].DurationSeconds)
	if s.phase == PhaseRunning {
		s.countdown.Resume()
	}
	s.emit(EventStepRestarted)
	return true
}

// AddSeconds extends the current step's countdown. Non-positive n is ignored.
func (s *Session) AddSeconds(n int) bool {
	if n <= 0 {
		return false
	}
	if !s.checkStepControl() {
		return false
	}
	if !s.countdown.AddSeconds(n) {
		return false
	}
	s.events.Notify(s.newEvent(EventTimeAdded, func(e *Event) { e.SecondsAdded = n }))
	return true
}

// checkStepControl gates the actions that touch the workout countdown.
func (s *Session) checkStepControl() bool {
	if s.phase == PhaseIdle || s.phase.Terminal() {
		s.notice(NoticeNotRunning)
		return false
	}
	if s.inTransition() {
		s.notice(NoticeDuringTransition)
		return false
	}
	return true
}

// Pause stops the active countdown. Pausing a paused session does nothing.
func (s *Session) Pause() bool {
	switch s.phase {
	case PhaseRunning:
		s.countdown.Pause()
	case PhaseTransitioning:
		s.transition.Pause()
	default:
		return false
	}
	s.resumePhase = s.phase
	s.phase = PhasePaused
	s.emit(EventPaused)
	return true
}

// Resume continues whichever countdown was paused, from where it stopped.
func (s *Session) Resume() bool {
	if s.phase != PhasePaused {
		return false
	}
	s.phase = s.resumePhase
	if s.phase == PhaseTransitioning {
		s.transition.Resume()
	} else {
		s.countdown.Resume()
	}
	s.emit(EventResumed)
	return true
}

// TogglePause flips between paused and whichever phase was paused.
func (s *Session) TogglePause() bool {
	if s.phase == PhasePaused {
		return s.Resume()
	}
	return s.Pause()
}

// Abort ends the session without completion. Later ticks are ignored.
func (s *Session) Abort() bool {
	if s.phase.Terminal() {
		return false
	}
	s.countdown.Stop()
	s.transition.Cancel()
	s.phase = PhaseAborted
	s.emit(EventSessionAborted)
	return true
}

// Ticking reports whether the owner's tick source should be running
func (s *Session) Ticking() bool {
	return s.phase == PhaseRunning || s.phase == PhaseTransitioning
}

func (s *Session) Phase() Phase             { return s.phase }
func (s *Session) CurrentIndex() int        { return s.currentIndex }
func (s *Session) ElapsedTotalSeconds() int { return s.elapsedTotalSeconds }
func (s *Session) TransitionSeconds() int   { return s.transitionSeconds }
func (s *Session) StepCount() int           { return len(s.steps) }

// SecondsRemaining returns the remaining time of whichever countdown is current
func (s *Session) SecondsRemaining() int {
	if s.inTransition() {
		return s.transition.SecondsRemaining()
	}
	return s.countdown.SecondsRemaining()
}

func (s *Session) inTransition() bool {
	return s.phase == PhaseTransitioning || (s.phase == PhasePaused && s.resumePhase == PhaseTransitioning)
}

func (s *Session) nextStep() *WorkoutStep {
	if s.currentIndex+1 >= len(s.steps) {
		return nil
	}
	next := s.steps[s.currentIndex+1]
	return &next
}

// State returns a snapshot for presentation.
func (s *Session) State() State {
	state := State{
		Phase:               s.phase,
		CurrentIndex:        s.currentIndex,
		StepCount:           len(s.steps),
		ElapsedTotalSeconds: s.elapsedTotalSeconds,
		TransitionSeconds:   s.transitionSeconds,
		InTransition:        s.inTransition(),
	}
	if s.phase == PhasePaused {
		state.ResumePhase = s.resumePhase
	}
	if len(s.steps) == 0 {
		return state
	}

	state.Current = s.steps[s.currentIndex]
	state.Next = s.nextStep()
	state.SecondsRemaining = s.SecondsRemaining()
	if state.InTransition {
		state.CountdownDuration = s.transition.TotalDuration()
	} else {
		state.CountdownDuration = s.countdown.TotalDuration()
		state.PreviewShown = s.countdown.PreviewFired() && !s.phase.Terminal()
	}
	return state
}

func (s *Session) notice(n Notice) {
	s.events.Notify(s.newEvent(EventNotice, func(e *Event) { e.Notice = n }))
}

func (s *Session) emit(kind EventKind) {
	s.events.Notify(s.newEvent(kind, nil))
}

func (s *Session) newEvent(kind EventKind, decorate func(*Event)) Event {
	e := Event{
		Kind:         kind,
		StepIndex:    s.currentIndex,
		TotalElapsed: s.elapsedTotalSeconds,
	}
	if len(s.steps) > 0 {
		e.Step = s.steps[s.currentIndex]
		e.SecondsRemaining = s.SecondsRemaining()
	}
	if kind == EventPreviewDue {
		e.Next = s.nextStep()
	}
	if decorate != nil {
		decorate(&e)
	}
	return e
}
