package playmode

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lowaak/smart-trainer/studio-play/internal/events"
	"github.com/lowaak/smart-trainer/studio-play/internal/go_func_utils"
)

// DefaultTickInterval is the period of one countdown second
const DefaultTickInterval = 1 * time.Second

// ErrRunnerClosed is returned for commands sent after Shutdown
var ErrRunnerClosed = errors.New("runner is shut down")

// runnerCommand represents commands sent to the runner goroutine
type runnerCommand int

const (
	cmdStart runnerCommand = iota
	cmdTogglePause
	cmdPause
	cmdResume
	cmdSkipForward
	cmdSkipBackward
	cmdRestart
	cmdAddSeconds
	cmdAbort
)

var runnerCommandNames = map[runnerCommand]string{
	cmdStart:        "start",
	cmdTogglePause:  "toggle pause",
	cmdPause:        "pause",
	cmdResume:       "resume",
	cmdSkipForward:  "skip forward",
	cmdSkipBackward: "skip backward",
	cmdRestart:      "restart",
	cmdAddSeconds:   "add seconds",
	cmdAbort:        "abort",
}

type commandRequest struct {
	cmd               runnerCommand
	steps             []WorkoutStep
	transitionSeconds int
	seconds           int
	reply             chan commandResult
}

type commandResult struct {
	applied bool
	err     error
}

// Runner drives one Session at a time from a ticker goroutine.
// User commands and ticks are serialized on that goroutine, so a tick can never
// interleave with a command. State snapshots and session events are published to
// listeners after the session lock is released; listeners run on the runner goroutine
// and must not call back into the Runner.
type Runner struct {
	clock        Clock
	logger       *log.Logger
	tickInterval time.Duration

	// Current session (protected by mu)
	mu        sync.Mutex
	session   *Session
	sessionID string
	startedAt time.Time
	pending   []Event

	stateEvent *events.Event[State]
	eventEvent *events.Event[Event]

	// Goroutine management
	cmdChan      chan commandRequest
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// NewRunner creates a Runner and starts its goroutine. A non-positive tickInterval
// selects DefaultTickInterval.
func NewRunner(clock Clock, logger *log.Logger, tickInterval time.Duration) *Runner {
	if clock == nil {
		panic("Runner: clock cannot be nil")
	}
	if logger == nil {
		panic("Runner: logger cannot be nil")
	}
	if tickInterval <= 0 {
		tickInterval = DefaultTickInterval
	}

	r := &Runner{
		clock:        clock,
		logger:       logger,
		tickInterval: tickInterval,
		stateEvent:   events.NewEvent[State](true),
		eventEvent:   events.NewEvent[Event](false),
		cmdChan:      make(chan commandRequest),
		doneChan:     make(chan struct{}),
	}

	// Create the ticker here so it exists before any command can arrive
	ticker := clock.NewTicker(tickInterval)
	ticker.Stop() // Start stopped, will be started when a session starts

	r.wg.Add(1)
	go_func_utils.SafeGo(logger, "Runner", func() { r.runLoop(ticker) })

	return r
}

// ListenToState registers a callback for state snapshots. The latest snapshot is
// delivered immediately if one exists.
func (r *Runner) ListenToState(callback func(State)) func() {
	return r.stateEvent.Listen(callback)
}

// ListenToStateChan registers a channel for state snapshots. Sends never block.
func (r *Runner) ListenToStateChan(ch chan<- State) func() {
	return r.stateEvent.ListenChan(ch)
}

// ListenToEvents registers a callback for session events.
func (r *Runner) ListenToEvents(callback func(Event)) func() {
	return r.eventEvent.Listen(callback)
}

// ListenToEventsChan registers a channel for session events. Sends never block.
func (r *Runner) ListenToEventsChan(ch chan<- Event) func() {
	return r.eventEvent.ListenChan(ch)
}

// State returns the current snapshot, or the zero State when no session was started.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.session == nil {
		return State{}
	}
	return r.session.State()
}

// SessionID returns the identifier of the current session, or "" if none
func (r *Runner) SessionID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessionID
}

// StartedAt returns when the current session was started, zero before the first one
func (r *Runner) StartedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startedAt
}

// Start begins a new session with the given steps. A session that is still live
// must be aborted first. transitionSeconds of 0 selects DefaultTransitionSeconds.
func (r *Runner) Start(steps []WorkoutStep, transitionSeconds int) error {
	result := r.send(commandRequest{cmd: cmdStart, steps: steps, transitionSeconds: transitionSeconds})
	return result.err
}

// TogglePause pauses a ticking session or resumes a paused one
func (r *Runner) TogglePause() bool  { return r.sendSimple(cmdTogglePause, 0) }
func (r *Runner) Pause() bool        { return r.sendSimple(cmdPause, 0) }
func (r *Runner) Resume() bool       { return r.sendSimple(cmdResume, 0) }
func (r *Runner) SkipForward() bool  { return r.sendSimple(cmdSkipForward, 0) }
func (r *Runner) SkipBackward() bool { return r.sendSimple(cmdSkipBackward, 0) }

// Restart resets the current step to its full duration
func (r *Runner) Restart() bool { return r.sendSimple(cmdRestart, 0) }

// AddSeconds extends the current step
func (r *Runner) AddSeconds(n int) bool { return r.sendSimple(cmdAddSeconds, n) }

// Abort ends the current session without completion
func (r *Runner) Abort() bool { return r.sendSimple(cmdAbort, 0) }

// Shutdown aborts any live session, stops the runner goroutine and waits for it.
// Safe to call multiple times - only the first call has effect
func (r *Runner) Shutdown() {
	r.shutdownOnce.Do(func() {
		r.logger.Printf("Runner: Shutting down")
		r.Abort()
		close(r.doneChan) // Signal goroutine to exit
		r.wg.Wait()
		r.logger.Printf("Runner: Shutdown complete")
	})
}

func (r *Runner) sendSimple(cmd runnerCommand, seconds int) bool {
	return r.send(commandRequest{cmd: cmd, seconds: seconds}).applied
}

// send hands a command to the runner goroutine and waits for its result.
func (r *Runner) send(req commandRequest) commandResult {
	req.reply = make(chan commandResult, 1)
	select {
	case r.cmdChan <- req:
	case <-r.doneChan:
		return commandResult{err: ErrRunnerClosed}
	}
	return <-req.reply
}

// --- Runner goroutine ---

// commandOutcome holds what to do after a command was applied under lock
type commandOutcome struct {
	result      commandResult
	state       State
	events      []Event
	ticking     bool
	resetTicker bool // a countdown was (re)initialized or resumed
}

// applyCommand runs a command against the session under lock.
func (r *Runner) applyCommand(req commandRequest) commandOutcome {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out commandOutcome
	if req.cmd == cmdStart {
		out.result.err = r.startSession(req.steps, req.transitionSeconds)
		out.result.applied = out.result.err == nil
		out.resetTicker = out.result.applied
	} else if r.session == nil {
		r.logger.Printf("Runner: Cannot %s - no session", runnerCommandNames[req.cmd])
	} else {
		out.result.applied, out.resetTicker = r.applySessionCommand(req)
	}

	if r.session != nil {
		out.state = r.session.State()
		out.ticking = r.session.Ticking()
	}
	out.events = r.takePending()
	return out
}

// startSession replaces a finished session with a new one.
// MUST be called with mu held.
func (r *Runner) startSession(steps []WorkoutStep, transitionSeconds int) error {
	if r.session != nil && !r.session.Phase().Terminal() {
		r.logger.Printf("Runner: Cannot start - session %s still live", r.sessionID)
		return ErrAlreadyStarted
	}

	session, err := NewSession(SessionConfig{TransitionSeconds: transitionSeconds})
	if err != nil {
		r.logger.Printf("Runner: Invalid transition: %v", err)
		return err
	}
	session.Listen(func(e Event) { r.pending = append(r.pending, e) })

	if err := session.Start(steps); err != nil {
		r.logger.Printf("Runner: Rejected step list: %v", err)
		r.pending = nil
		return err
	}

	r.session = session
	r.sessionID = uuid.NewString()
	r.startedAt = r.clock.Now()
	r.logger.Printf("Runner: Session %s started at %s with %d steps (transition %ds)",
		r.sessionID, r.startedAt.Format(time.Kitchen), session.StepCount(), session.TransitionSeconds())
	return nil
}

// applySessionCommand maps a command onto the session.
// MUST be called with mu held and a session present.
func (r *Runner) applySessionCommand(req commandRequest) (applied, resetTicker bool) {
	s := r.session
	switch req.cmd {
	case cmdTogglePause:
		applied = s.TogglePause()
		resetTicker = applied && s.Ticking()
	case cmdPause:
		applied = s.Pause()
	case cmdResume:
		applied = s.Resume()
		resetTicker = applied
	case cmdSkipForward:
		applied = s.SkipForward()
		resetTicker = applied
	case cmdSkipBackward:
		applied = s.SkipBackward()
		resetTicker = applied
	case cmdRestart:
		applied = s.RestartCurrentStep()
		resetTicker = applied && s.Ticking()
	case cmdAddSeconds:
		applied = s.AddSeconds(req.seconds)
	case cmdAbort:
		applied = s.Abort()
	}
	return applied, resetTicker
}

// takePending drains the events the session raised during the current call.
// MUST be called with mu held.
func (r *Runner) takePending() []Event {
	pending := r.pending
	r.pending = nil
	return pending
}

// tickResult holds the result of processing a timer tick
type tickResult struct {
	skip    bool // no ticking session, ignore this tick
	state   State
	events  []Event
	ticking bool
}

// handleTick processes a timer tick under lock and returns what to publish.
func (r *Runner) handleTick() tickResult {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.session == nil || !r.session.Ticking() {
		return tickResult{skip: true}
	}

	r.session.Tick()
	return tickResult{
		state:   r.session.State(),
		events:  r.takePending(),
		ticking: r.session.Ticking(),
	}
}

// publish delivers events then the resulting state.
// No lock needed - only makes external calls.
func (r *Runner) publish(evts []Event, state State) {
	for _, e := range evts {
		r.logEvent(e)
		r.eventEvent.Notify(e)
	}
	r.stateEvent.Notify(state)
}

func (r *Runner) logEvent(e Event) {
	switch e.Kind {
	case EventStepStarted:
		r.logger.Printf("Runner: Step %d '%s' started (%s)", e.StepIndex+1, e.Step.Name, FormatClock(e.SecondsRemaining))
	case EventTransitionStarted:
		r.logger.Printf("Runner: Transition after '%s' (%ds)", e.Step.Name, e.SecondsRemaining)
	case EventTimeAdded:
		r.logger.Printf("Runner: Added %ds to '%s'", e.SecondsAdded, e.Step.Name)
	case EventSessionCompleted:
		r.logger.Printf("Runner: Session complete in %s", FormatClock(e.TotalElapsed))
	case EventSessionAborted:
		r.logger.Printf("Runner: Session aborted at step %d after %s", e.StepIndex+1, FormatClock(e.TotalElapsed))
	case EventNotice:
		r.logger.Printf("Runner: Notice - %s", e.Notice.Message())
	case EventPaused, EventResumed, EventStepRestarted:
		r.logger.Printf("Runner: %s at %s", e.Kind, FormatClock(e.SecondsRemaining))
	}
}

// runLoop is the main goroutine that serializes commands and ticks.
func (r *Runner) runLoop(ticker Ticker) {
	defer r.wg.Done()
	defer ticker.Stop()

	for {
		select {
		case <-r.doneChan:
			r.logger.Printf("Runner: Goroutine exiting")
			return

		case req := <-r.cmdChan:
			out := r.applyCommand(req)

			if !out.ticking {
				ticker.Stop()
			} else if out.resetTicker {
				ticker.Reset(r.tickInterval)
			}

			// Publish before replying so callers observe their own command's effects
			if out.result.applied || len(out.events) > 0 {
				r.publish(out.events, out.state)
			}
			req.reply <- out.result

		case <-ticker.C():
			result := r.handleTick()
			if result.skip {
				ticker.Stop()
				continue
			}

			if !result.ticking {
				ticker.Stop()
			}
			r.publish(result.events, result.state)
		}
	}
}
