package playmode

import "math"

// Countdown thresholds, in seconds remaining
const (
	PreviewAtSeconds     = 10 // "Up Next" preview point
	PreviewMinDuration   = 15 // preview only for countdowns longer than this
	WarningAtSeconds     = 10
	FinalCountFromSecond = 3 // final-count cue fires at 3, 2 and 1
)

// Signal is the set of edge-triggered conditions raised by a single tick
type Signal uint8

const (
	SignalPreview Signal = 1 << iota
	SignalWarning
	SignalFinalCount
	SignalExpired
)

// Has reports whether every flag in other is set
func (s Signal) Has(other Signal) bool {
	return s&other == other && other != 0
}

// Countdown drives one integer-seconds countdown to zero.
// It never schedules anything itself: Tick is called by the owner once per second,
// and a countdown that is paused or expired ignores ticks.
type Countdown struct {
	announce bool // raise preview/warning/final-count signals

	secondsRemaining int
	totalDuration    int
	previewFired     bool
	active           bool // initialized and not yet expired
	ticking          bool
}

// NewCountdown creates an idle countdown. Workout countdowns announce the preview
// and cue signals; transition countdowns only expire.
func NewCountdown(announce bool) *Countdown {
	return &Countdown{announce: announce}
}

// Initialize loads a new duration and re-arms the preview. The countdown is left
// stopped: call Resume to let ticks through.
func (c *Countdown) Initialize(durationSeconds int) error {
	if durationSeconds <= 0 {
		return &InvalidDurationError{Seconds: durationSeconds}
	}
	c.secondsRemaining = durationSeconds
	c.totalDuration = durationSeconds
	c.previewFired = false
	c.active = true
	c.ticking = false
	return nil
}

// Tick consumes one second and reports the signals it crossed.
func (c *Countdown) Tick() Signal {
	if !c.active || !c.ticking {
		return 0
	}

	c.secondsRemaining--
	var signals Signal

	if c.announce {
		if c.secondsRemaining == WarningAtSeconds {
			signals |= SignalWarning
		}
		if c.secondsRemaining == PreviewAtSeconds && c.totalDuration > PreviewMinDuration && !c.previewFired {
			c.previewFired = true
			signals |= SignalPreview
		}
		if c.secondsRemaining > 0 && c.secondsRemaining <= FinalCountFromSecond {
			signals |= SignalFinalCount
		}
	}

	if c.secondsRemaining <= 0 {
		c.secondsRemaining = 0
		c.active = false
		c.ticking = false
		signals |= SignalExpired
	}
	return signals
}

// AddSeconds extends an active countdown. The preview stays fired so it cannot repeat.
// The remaining time saturates at math.MaxInt.
func (c *Countdown) AddSeconds(n int) bool {
	if !c.active || n <= 0 {
		return false
	}
	if n > math.MaxInt-c.secondsRemaining {
		c.secondsRemaining = math.MaxInt
	} else {
		c.secondsRemaining += n
	}
	return true
}

// Pause stops ticks from counting
func (c *Countdown) Pause() {
	c.ticking = false
}

// Resume lets ticks count again. It has no effect on an expired countdown.
func (c *Countdown) Resume() {
	if c.active {
		c.ticking = true
	}
}

// Stop deactivates the countdown without expiring it
func (c *Countdown) Stop() {
	c.active = false
	c.ticking = false
}

func (c *Countdown) SecondsRemaining() int { return c.secondsRemaining }
func (c *Countdown) TotalDuration() int    { return c.totalDuration }
func (c *Countdown) PreviewFired() bool    { return c.previewFired }
func (c *Countdown) Active() bool          { return c.active }
func (c *Countdown) Ticking() bool         { return c.ticking }
