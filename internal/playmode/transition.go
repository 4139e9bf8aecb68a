package playmode

// DefaultTransitionSeconds is the interstitial length between two steps
const DefaultTransitionSeconds = 10

// Transition runs the fixed-length interstitial between two consecutive steps.
// It shares the countdown mechanics but has no preview or cues, and its expiry means
// "advance", never "complete". Keeping it a separate type stops a transition
// countdown from ever being mistaken for a workout countdown.
type Transition struct {
	countdown Countdown
}

// Start begins a transition of the given length.
func (t *Transition) Start(durationSeconds int) error {
	if err := t.countdown.Initialize(durationSeconds); err != nil {
		return err
	}
	t.countdown.Resume()
	return nil
}

// Tick consumes one second and reports whether the transition just expired.
func (t *Transition) Tick() bool {
	return t.countdown.Tick().Has(SignalExpired)
}

// Pause preserves the remaining time
func (t *Transition) Pause() {
	t.countdown.Pause()
}

func (t *Transition) Resume() {
	t.countdown.Resume()
}

// Cancel drops the transition without firing expiry
func (t *Transition) Cancel() {
	t.countdown.Stop()
}

func (t *Transition) SecondsRemaining() int { return t.countdown.SecondsRemaining() }
func (t *Transition) TotalDuration() int    { return t.countdown.TotalDuration() }
func (t *Transition) Active() bool          { return t.countdown.Active() }
