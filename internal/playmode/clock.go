package playmode

import "time"

// Clock abstracts the tick source so the Runner can be driven deterministically in tests.
type Clock interface {
	// Now returns the current time
	Now() time.Time
	// NewTicker creates a running Ticker with period d
	NewTicker(d time.Duration) Ticker
}

// Ticker represents a repeating timer
type Ticker interface {
	// C returns the ticker's time channel
	C() <-chan time.Time
	// Stop turns off the ticker. No ticks are delivered until Reset.
	Stop()
	// Reset restarts the ticker with period d, counting from now
	Reset(d time.Duration)
}

// realClock implements Clock using the standard time package
type realClock struct{}

// NewRealClock creates a Clock backed by the system time
func NewRealClock() Clock {
	return &realClock{}
}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func (c *realClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{ticker: time.NewTicker(d)}
}

// realTicker wraps time.Ticker to implement the Ticker interface
type realTicker struct {
	ticker *time.Ticker
}

func (t *realTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *realTicker) Stop() {
	t.ticker.Stop()
}

func (t *realTicker) Reset(d time.Duration) {
	t.ticker.Reset(d)
}
