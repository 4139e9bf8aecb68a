package playmode

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeSteps builds steps named after their position
func makeSteps(durations ...int) []WorkoutStep {
	steps := make([]WorkoutStep, len(durations))
	for i, d := range durations {
		steps[i] = WorkoutStep{
			ID:              fmt.Sprintf("s%d", i),
			Name:            fmt.Sprintf("Step %d", i),
			DurationSeconds: d,
		}
	}
	return steps
}

// eventLog records every event a session raises
type eventLog struct {
	events []Event
}

func (l *eventLog) record(e Event) {
	l.events = append(l.events, e)
}

func (l *eventLog) count(kind EventKind) int {
	n := 0
	for _, e := range l.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (l *eventLog) last(kind EventKind) (Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Kind == kind {
			return l.events[i], true
		}
	}
	return Event{}, false
}

func (l *eventLog) reset() {
	l.events = nil
}

func newTestSession(t *testing.T, transitionSeconds int) (*Session, *eventLog) {
	t.Helper()
	s, err := NewSession(SessionConfig{TransitionSeconds: transitionSeconds})
	require.NoError(t, err)
	log := &eventLog{}
	s.Listen(log.record)
	return s, log
}

func tickSession(s *Session, n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func TestNewSession(t *testing.T) {
	s, err := NewSession(SessionConfig{})
	require.NoError(t, err)
	assert.Equal(t, DefaultTransitionSeconds, s.TransitionSeconds())
	assert.Equal(t, PhaseIdle, s.Phase())
	assert.False(t, s.Ticking())

	s, err = NewSession(SessionConfig{TransitionSeconds: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, s.TransitionSeconds())

	_, err = NewSession(SessionConfig{TransitionSeconds: -1})
	assert.ErrorIs(t, err, ErrInvalidDuration)
}

func TestSession_ClassScenario(t *testing.T) {
	s, log := newTestSession(t, 10)

	require.NoError(t, s.Start(makeSteps(30, 45, 20)))
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 30, s.SecondsRemaining())
	assert.Equal(t, PhaseRunning, s.Phase())

	tickSession(s, 30)
	assert.Equal(t, 1, log.count(EventExpired))
	assert.Equal(t, PhaseTransitioning, s.Phase())
	assert.Equal(t, 10, s.SecondsRemaining())
	assert.Equal(t, 0, s.CurrentIndex())

	tickSession(s, 10)
	assert.Equal(t, 1, log.count(EventTransitionExpired))
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, 45, s.SecondsRemaining())
	assert.Equal(t, PhaseRunning, s.Phase())

	require.True(t, s.SkipForward())
	assert.Equal(t, 2, s.CurrentIndex())
	assert.Equal(t, 20, s.SecondsRemaining())
	assert.Equal(t, PhaseRunning, s.Phase(), "skip bypasses the transition")

	tickSession(s, 20)
	assert.Equal(t, 2, log.count(EventExpired))
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Equal(t, 30+10+20, s.ElapsedTotalSeconds())

	completed, ok := log.last(EventSessionCompleted)
	require.True(t, ok)
	assert.Equal(t, 60, completed.TotalElapsed)
	assert.Equal(t, 1, log.count(EventSessionCompleted))
	assert.Equal(t, 1, log.count(EventTransitionStarted), "no transition after the last step")
}

func TestSession_MonotonicIndex(t *testing.T) {
	s, log := newTestSession(t, 2)
	require.NoError(t, s.Start(makeSteps(5, 3, 4, 6)))

	prev := s.CurrentIndex()
	for i := 0; i < 200; i++ {
		s.Tick()
		idx := s.CurrentIndex()
		assert.GreaterOrEqual(t, idx, prev)
		assert.LessOrEqual(t, idx-prev, 1)
		assert.Less(t, idx, s.StepCount())
		prev = idx
	}

	assert.Equal(t, 3, s.CurrentIndex())
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Equal(t, 3, log.count(EventTransitionExpired))
	assert.Equal(t, 5+3+4+6+3*2, s.ElapsedTotalSeconds(), "ticks after completion are ignored")
}

func TestSession_StartRejectsEmpty(t *testing.T) {
	for _, steps := range [][]WorkoutStep{nil, {}} {
		s, log := newTestSession(t, 0)

		err := s.Start(steps)
		require.ErrorIs(t, err, ErrInvalidSession)

		var sessionErr *InvalidSessionError
		require.ErrorAs(t, err, &sessionErr)
		assert.Equal(t, PhaseIdle, s.Phase())
		assert.Empty(t, log.events)

		s.Tick()
		assert.Equal(t, 0, s.ElapsedTotalSeconds())
	}
}

func TestSession_StartRejectsInvalidSteps(t *testing.T) {
	s, _ := newTestSession(t, 0)

	steps := makeSteps(30, 0, 20)
	err := s.Start(steps)
	require.ErrorIs(t, err, ErrInvalidDuration)

	var durationErr *InvalidDurationError
	require.ErrorAs(t, err, &durationErr)
	assert.Equal(t, "s1", durationErr.StepID)
	assert.Contains(t, err.Error(), `"s1"`)

	steps = makeSteps(30, 30)
	steps[1].ID = steps[0].ID
	assert.ErrorIs(t, s.Start(steps), ErrInvalidSession)

	assert.Equal(t, PhaseIdle, s.Phase())
	require.NoError(t, s.Start(makeSteps(30)), "a rejected start leaves the session startable")
}

func TestSession_StartTwice(t *testing.T) {
	s, _ := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30)))
	assert.ErrorIs(t, s.Start(makeSteps(30)), ErrAlreadyStarted)
}

func TestSession_StartOwnsSteps(t *testing.T) {
	s, _ := newTestSession(t, 0)
	steps := makeSteps(30, 40)
	require.NoError(t, s.Start(steps))

	steps[0].DurationSeconds = 5
	steps[0].Name = "changed"
	require.True(t, s.RestartCurrentStep())
	assert.Equal(t, 30, s.SecondsRemaining())
	assert.Equal(t, "Step 0", s.State().Current.Name)
}

func TestSession_SkipBackwardAtFirstStep(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30, 40)))
	tickSession(s, 5)
	before := s.State()
	log.reset()

	assert.NotPanics(t, func() {
		assert.False(t, s.SkipBackward())
	})
	assert.Equal(t, before, s.State())

	require.Len(t, log.events, 1)
	assert.Equal(t, EventNotice, log.events[0].Kind)
	assert.Equal(t, NoticeFirstStep, log.events[0].Notice)
}

func TestSession_SkipForwardAtLastStep(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30, 40)))
	require.True(t, s.SkipForward())
	before := s.State()
	log.reset()

	assert.False(t, s.SkipForward())
	assert.Equal(t, before, s.State())
	notice, ok := log.last(EventNotice)
	require.True(t, ok)
	assert.Equal(t, NoticeLastStep, notice.Notice)
}

func TestSession_SkipBackward(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30, 40)))
	require.True(t, s.SkipForward())
	tickSession(s, 12)

	require.True(t, s.SkipBackward())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 30, s.SecondsRemaining())
	assert.Equal(t, 12, s.ElapsedTotalSeconds(), "skipping does not rewind elapsed time")
	assert.Equal(t, 3, log.count(EventStepStarted))
}

func TestSession_StepControlsDisallowedDuringTransition(t *testing.T) {
	s, log := newTestSession(t, 10)
	require.NoError(t, s.Start(makeSteps(5, 30, 30)))
	tickSession(s, 7)
	require.Equal(t, PhaseTransitioning, s.Phase())
	require.Equal(t, 8, s.SecondsRemaining())
	log.reset()

	assert.False(t, s.SkipForward())
	assert.False(t, s.SkipBackward())
	assert.False(t, s.RestartCurrentStep())
	assert.False(t, s.AddSeconds(30))

	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 8, s.SecondsRemaining(), "transition countdown untouched")
	assert.Equal(t, PhaseTransitioning, s.Phase())
	assert.Equal(t, 4, log.count(EventNotice))
	for _, e := range log.events {
		assert.Equal(t, NoticeDuringTransition, e.Notice)
	}

	tickSession(s, 8)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, 30, s.SecondsRemaining())
}

func TestSession_PauseDuringTransition(t *testing.T) {
	s, log := newTestSession(t, 10)
	require.NoError(t, s.Start(makeSteps(5, 30)))
	tickSession(s, 8)
	require.Equal(t, 7, s.SecondsRemaining())

	require.True(t, s.Pause())
	assert.Equal(t, PhasePaused, s.Phase())
	assert.False(t, s.Ticking())
	state := s.State()
	assert.True(t, state.InTransition)
	assert.Equal(t, PhaseTransitioning, state.ResumePhase)

	tickSession(s, 20)
	assert.Equal(t, 7, s.SecondsRemaining())
	assert.Equal(t, 8, s.ElapsedTotalSeconds(), "paused time is excluded")

	assert.False(t, s.SkipForward(), "still a transition while paused")

	require.True(t, s.Resume())
	assert.Equal(t, PhaseTransitioning, s.Phase())
	tickSession(s, 7)
	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Equal(t, 1, s.CurrentIndex())
	assert.Equal(t, 1, log.count(EventPaused))
	assert.Equal(t, 1, log.count(EventResumed))
}

func TestSession_PauseIdempotent(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30)))
	tickSession(s, 4)

	require.True(t, s.Pause())
	assert.False(t, s.Pause(), "second pause is a no-op")
	assert.Equal(t, 26, s.SecondsRemaining())
	assert.False(t, s.Ticking())
	assert.Equal(t, 1, log.count(EventPaused))

	tickSession(s, 10)
	assert.Equal(t, 26, s.SecondsRemaining())

	require.True(t, s.Resume())
	assert.False(t, s.Resume())
	tickSession(s, 1)
	assert.Equal(t, 25, s.SecondsRemaining())
}

func TestSession_TogglePause(t *testing.T) {
	s, _ := newTestSession(t, 0)
	assert.False(t, s.TogglePause(), "idle")

	require.NoError(t, s.Start(makeSteps(30)))
	require.True(t, s.TogglePause())
	assert.Equal(t, PhasePaused, s.Phase())
	require.True(t, s.TogglePause())
	assert.Equal(t, PhaseRunning, s.Phase())
}

func TestSession_SkipWhilePausedRunsNewStep(t *testing.T) {
	s, _ := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30, 40)))
	require.True(t, s.Pause())

	require.True(t, s.SkipForward())
	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Equal(t, 1, s.CurrentIndex())
	tickSession(s, 1)
	assert.Equal(t, 39, s.SecondsRemaining())
}

func TestSession_RestartCurrentStep(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(20, 40)))
	tickSession(s, 12)
	require.True(t, s.State().PreviewShown)

	require.True(t, s.RestartCurrentStep())
	assert.Equal(t, 20, s.SecondsRemaining())
	assert.Equal(t, 0, s.CurrentIndex())
	assert.False(t, s.State().PreviewShown, "restart re-arms the preview")
	assert.Equal(t, 12, s.ElapsedTotalSeconds())
	assert.Equal(t, 1, log.count(EventStepRestarted))

	tickSession(s, 10)
	assert.Equal(t, 2, log.count(EventPreviewDue))
}

func TestSession_RestartWhilePausedStaysPaused(t *testing.T) {
	s, _ := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30)))
	tickSession(s, 10)
	require.True(t, s.Pause())

	require.True(t, s.RestartCurrentStep())
	assert.Equal(t, PhasePaused, s.Phase())
	assert.Equal(t, 30, s.SecondsRemaining())

	tickSession(s, 3)
	assert.Equal(t, 30, s.SecondsRemaining())

	require.True(t, s.Resume())
	tickSession(s, 3)
	assert.Equal(t, 27, s.SecondsRemaining())
}

func TestSession_AddSeconds(t *testing.T) {
	s, log := newTestSession(t, 0)
	assert.False(t, s.AddSeconds(15), "idle")

	require.NoError(t, s.Start(makeSteps(20)))
	tickSession(s, 10)
	require.Equal(t, 1, log.count(EventPreviewDue))

	assert.False(t, s.AddSeconds(0))
	assert.False(t, s.AddSeconds(-15))
	require.True(t, s.AddSeconds(30))
	assert.Equal(t, 40, s.SecondsRemaining())

	added, ok := log.last(EventTimeAdded)
	require.True(t, ok)
	assert.Equal(t, 30, added.SecondsAdded)
	assert.Equal(t, 40, added.SecondsRemaining)

	tickSession(s, 40)
	assert.Equal(t, 1, log.count(EventPreviewDue), "preview does not re-fire after adding time")
	assert.Equal(t, 2, log.count(EventWarning))
	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Equal(t, 50, s.ElapsedTotalSeconds())
}

func TestSession_AddSecondsWhilePaused(t *testing.T) {
	s, _ := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30)))
	require.True(t, s.Pause())

	require.True(t, s.AddSeconds(15))
	assert.Equal(t, 45, s.SecondsRemaining())
	assert.Equal(t, PhasePaused, s.Phase())
}

func TestSession_PreviewEvent(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(20, 10)))

	tickSession(s, 9)
	assert.False(t, s.State().PreviewShown)
	s.Tick()

	preview, ok := log.last(EventPreviewDue)
	require.True(t, ok)
	assert.Equal(t, 10, preview.SecondsRemaining)
	require.NotNil(t, preview.Next)
	assert.Equal(t, "s1", preview.Next.ID)
	assert.True(t, s.State().PreviewShown)

	// Warning precedes the preview on the same tick
	n := len(log.events)
	assert.Equal(t, EventWarning, log.events[n-2].Kind)
	assert.Equal(t, EventPreviewDue, log.events[n-1].Kind)

	tickSession(s, 10+DefaultTransitionSeconds)
	assert.Equal(t, 1, s.CurrentIndex())
	assert.False(t, s.State().PreviewShown, "preview resets on step change")

	tickSession(s, 10)
	assert.Equal(t, 1, log.count(EventPreviewDue), "a 10s step has no preview")
	assert.Equal(t, PhaseCompleted, s.Phase())
}

func TestSession_PreviewOnLastStepHasNoNext(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(20)))
	tickSession(s, 10)

	preview, ok := log.last(EventPreviewDue)
	require.True(t, ok)
	assert.Nil(t, preview.Next)
	assert.Equal(t, FinishLabel, s.State().NextName())
	assert.Equal(t, FeedbackNone, SuggestedFeedback(preview), "no cue before the finish")
}

func TestSession_AddHugeSecondsKeepsStepRunning(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30)))

	require.True(t, s.AddSeconds(math.MaxInt))
	s.Tick()

	assert.Equal(t, PhaseRunning, s.Phase())
	assert.Positive(t, s.SecondsRemaining())
	assert.Zero(t, log.count(EventExpired))
}

func TestSession_StepStartedMarksSkips(t *testing.T) {
	s, log := newTestSession(t, 2)
	require.NoError(t, s.Start(makeSteps(20, 20, 20)))

	started, ok := log.last(EventStepStarted)
	require.True(t, ok)
	assert.False(t, started.Skipped, "first step")
	assert.Equal(t, FeedbackNone, SuggestedFeedback(started))

	tickSession(s, 20+2)
	started, _ = log.last(EventStepStarted)
	assert.Equal(t, 1, started.StepIndex)
	assert.False(t, started.Skipped, "advance after a transition")

	require.True(t, s.SkipForward())
	started, _ = log.last(EventStepStarted)
	assert.True(t, started.Skipped)
	assert.Equal(t, FeedbackMedium, SuggestedFeedback(started))

	require.True(t, s.SkipBackward())
	started, _ = log.last(EventStepStarted)
	assert.Equal(t, 1, started.StepIndex)
	assert.True(t, started.Skipped)
}

func TestSession_FinalCountCues(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(5)))
	tickSession(s, 5)

	var remaining []int
	for _, e := range log.events {
		if e.Kind == EventFinalCount {
			remaining = append(remaining, e.SecondsRemaining)
		}
	}
	assert.Equal(t, []int{3, 2, 1}, remaining)
}

func TestSession_Abort(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(30, 30)))
	tickSession(s, 5)

	require.True(t, s.Abort())
	assert.Equal(t, PhaseAborted, s.Phase())
	assert.False(t, s.Ticking())
	assert.Equal(t, 1, log.count(EventSessionAborted))

	tickSession(s, 100)
	assert.Equal(t, 25, s.SecondsRemaining())
	assert.Equal(t, 5, s.ElapsedTotalSeconds())
	assert.Zero(t, log.count(EventExpired))

	assert.False(t, s.Abort(), "already terminal")
	assert.False(t, s.SkipForward())
	assert.False(t, s.Pause())
	notice, ok := log.last(EventNotice)
	require.True(t, ok)
	assert.Equal(t, NoticeNotRunning, notice.Notice)
}

func TestSession_AbortDuringTransition(t *testing.T) {
	s, log := newTestSession(t, 10)
	require.NoError(t, s.Start(makeSteps(5, 30)))
	tickSession(s, 6)
	require.Equal(t, PhaseTransitioning, s.Phase())

	require.True(t, s.Abort())
	tickSession(s, 20)
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Zero(t, log.count(EventTransitionExpired))
}

func TestSession_AbortFromIdle(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.True(t, s.Abort())
	assert.Equal(t, PhaseAborted, s.Phase())
	assert.Equal(t, 1, log.count(EventSessionAborted))
}

func TestSession_CompletedIsTerminal(t *testing.T) {
	s, log := newTestSession(t, 0)
	require.NoError(t, s.Start(makeSteps(3)))
	tickSession(s, 10)

	assert.Equal(t, PhaseCompleted, s.Phase())
	assert.Equal(t, 3, s.ElapsedTotalSeconds())
	assert.Equal(t, 0, s.SecondsRemaining())
	assert.False(t, s.Abort())
	assert.False(t, s.RestartCurrentStep())
	assert.Equal(t, 1, log.count(EventSessionCompleted))
}

func TestSession_State(t *testing.T) {
	s, _ := newTestSession(t, 10)
	assert.Equal(t, State{Phase: PhaseIdle, TransitionSeconds: 10}, s.State())

	steps := makeSteps(30, 45)
	require.NoError(t, s.Start(steps))
	tickSession(s, 5)

	state := s.State()
	assert.Equal(t, PhaseRunning, state.Phase)
	assert.Equal(t, steps[0], state.Current)
	require.NotNil(t, state.Next)
	assert.Equal(t, steps[1], *state.Next)
	assert.Equal(t, 25, state.SecondsRemaining)
	assert.Equal(t, 30, state.CountdownDuration)
	assert.Equal(t, 2, state.StepCount)
	assert.False(t, state.InTransition)
	assert.False(t, state.IsLastStep())

	tickSession(s, 27)
	state = s.State()
	assert.True(t, state.InTransition)
	assert.Equal(t, 8, state.SecondsRemaining)
	assert.Equal(t, 10, state.CountdownDuration)
	assert.False(t, state.PreviewShown)
}

func TestSession_EventsCarryStep(t *testing.T) {
	s, log := newTestSession(t, 0)
	steps := makeSteps(30, 45)
	require.NoError(t, s.Start(steps))
	require.True(t, s.SkipForward())

	started, ok := log.last(EventStepStarted)
	require.True(t, ok)
	assert.Equal(t, 1, started.StepIndex)
	assert.Equal(t, steps[1], started.Step)
	assert.Equal(t, 45, started.SecondsRemaining)
	assert.Nil(t, started.Next)
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "Running", PhaseRunning.String())
	assert.Equal(t, "Transitioning", PhaseTransitioning.String())
	assert.Equal(t, "Unknown", Phase(42).String())
	assert.True(t, PhaseCompleted.Terminal())
	assert.True(t, PhaseAborted.Terminal())
	assert.False(t, PhasePaused.Terminal())
}

func TestSuggestedFeedback(t *testing.T) {
	next := makeSteps(30)[0]
	tests := []struct {
		name  string
		event Event
		want  Feedback
	}{
		{"preview", Event{Kind: EventPreviewDue, Next: &next}, FeedbackLight},
		{"preview on last step", Event{Kind: EventPreviewDue}, FeedbackNone},
		{"final count", Event{Kind: EventFinalCount}, FeedbackLight},
		{"warning", Event{Kind: EventWarning}, FeedbackWarning},
		{"step started", Event{Kind: EventStepStarted}, FeedbackNone},
		{"step skipped", Event{Kind: EventStepStarted, Skipped: true}, FeedbackMedium},
		{"time added", Event{Kind: EventTimeAdded}, FeedbackMedium},
		{"restart", Event{Kind: EventStepRestarted}, FeedbackMedium},
		{"expired", Event{Kind: EventExpired}, FeedbackSuccess},
		{"completed", Event{Kind: EventSessionCompleted}, FeedbackSuccess},
		{"aborted", Event{Kind: EventSessionAborted}, FeedbackHeavy},
		{"transition", Event{Kind: EventTransitionStarted}, FeedbackNone},
		{"notice", Event{Kind: EventNotice}, FeedbackNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedFeedback(tt.event))
		})
	}
}

func TestNotice_Text(t *testing.T) {
	assert.Equal(t, "This is the first workout in the class.", NoticeFirstStep.Message())
	assert.Equal(t, "This is the last workout in the class.", NoticeLastStep.Message())
	assert.Empty(t, NoticeNone.Title())
	assert.NotEmpty(t, NoticeDuringTransition.Title())
}
