package playmode

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tickCountdown delivers n ticks and returns the union of raised signals per remaining value
func tickCountdown(c *Countdown, n int) map[int]Signal {
	raised := make(map[int]Signal)
	for i := 0; i < n; i++ {
		if s := c.Tick(); s != 0 {
			raised[c.SecondsRemaining()] |= s
		}
	}
	return raised
}

func TestCountdown_Initialize(t *testing.T) {
	c := NewCountdown(true)
	assert.False(t, c.Active())

	require.NoError(t, c.Initialize(30))
	assert.Equal(t, 30, c.SecondsRemaining())
	assert.Equal(t, 30, c.TotalDuration())
	assert.True(t, c.Active())
	assert.False(t, c.Ticking(), "initialize leaves the countdown stopped")
	assert.False(t, c.PreviewFired())
}

func TestCountdown_InitializeRejectsNonPositive(t *testing.T) {
	for _, d := range []int{0, -1, -60} {
		c := NewCountdown(true)
		err := c.Initialize(d)
		require.ErrorIs(t, err, ErrInvalidDuration)

		var durationErr *InvalidDurationError
		require.ErrorAs(t, err, &durationErr)
		assert.Equal(t, d, durationErr.Seconds)
		assert.False(t, c.Active())
	}
}

func TestCountdown_TickIgnoredUntilResumed(t *testing.T) {
	c := NewCountdown(true)
	assert.Equal(t, Signal(0), c.Tick(), "uninitialized")

	require.NoError(t, c.Initialize(5))
	c.Tick()
	assert.Equal(t, 5, c.SecondsRemaining())

	c.Resume()
	c.Tick()
	assert.Equal(t, 4, c.SecondsRemaining())
}

func TestCountdown_NeverNegative(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(3))
	c.Resume()

	expiries := 0
	for i := 0; i < 20; i++ {
		if c.Tick().Has(SignalExpired) {
			expiries++
		}
		assert.GreaterOrEqual(t, c.SecondsRemaining(), 0)
	}

	assert.Equal(t, 1, expiries)
	assert.Equal(t, 0, c.SecondsRemaining())
	assert.False(t, c.Active())
	assert.False(t, c.Ticking())
}

func TestCountdown_PreviewThreshold(t *testing.T) {
	tests := []struct {
		duration    int
		wantPreview bool
	}{
		{duration: 10, wantPreview: false},
		{duration: 15, wantPreview: false},
		{duration: 16, wantPreview: true},
		{duration: 20, wantPreview: true},
		{duration: 300, wantPreview: true},
	}

	for _, tt := range tests {
		c := NewCountdown(true)
		require.NoError(t, c.Initialize(tt.duration))
		c.Resume()

		raised := tickCountdown(c, tt.duration)

		previews := 0
		for remaining, s := range raised {
			if s.Has(SignalPreview) {
				previews++
				assert.Equal(t, PreviewAtSeconds, remaining, "duration %d", tt.duration)
			}
		}
		if tt.wantPreview {
			assert.Equal(t, 1, previews, "duration %d", tt.duration)
		} else {
			assert.Zero(t, previews, "duration %d", tt.duration)
		}
	}
}

func TestCountdown_CueSignals(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(12))
	c.Resume()

	raised := tickCountdown(c, 12)

	assert.Equal(t, SignalWarning, raised[10], "no preview for a 12s step")
	assert.True(t, raised[3].Has(SignalFinalCount))
	assert.True(t, raised[2].Has(SignalFinalCount))
	assert.True(t, raised[1].Has(SignalFinalCount))
	assert.Equal(t, SignalExpired, raised[0], "no final-count cue at zero")
	assert.Len(t, raised, 5)
}

func TestCountdown_SilentCountdownOnlyExpires(t *testing.T) {
	c := NewCountdown(false)
	require.NoError(t, c.Initialize(30))
	c.Resume()

	raised := tickCountdown(c, 30)
	assert.Equal(t, map[int]Signal{0: SignalExpired}, raised)
}

func TestCountdown_AddSecondsKeepsPreviewFired(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(20))
	c.Resume()

	raised := tickCountdown(c, 10)
	require.True(t, raised[10].Has(SignalPreview))
	require.True(t, c.PreviewFired())

	assert.True(t, c.AddSeconds(30))
	assert.Equal(t, 40, c.SecondsRemaining())
	assert.Equal(t, 20, c.TotalDuration(), "adding time does not change the restart duration")

	raised = tickCountdown(c, 30)
	assert.False(t, raised[10].Has(SignalPreview), "preview must not repeat")
	assert.True(t, raised[10].Has(SignalWarning), "warning cue repeats")
	assert.True(t, c.PreviewFired())
}

func TestCountdown_AddSecondsSaturates(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(30))
	c.Resume()

	assert.True(t, c.AddSeconds(math.MaxInt))
	assert.Equal(t, math.MaxInt, c.SecondsRemaining())

	assert.Zero(t, c.Tick()&SignalExpired)
	assert.Equal(t, math.MaxInt-1, c.SecondsRemaining())
	assert.True(t, c.Active())

	assert.True(t, c.AddSeconds(5))
	assert.Equal(t, math.MaxInt, c.SecondsRemaining())
}

func TestCountdown_AddSecondsRequiresActive(t *testing.T) {
	c := NewCountdown(true)
	assert.False(t, c.AddSeconds(15), "uninitialized")

	require.NoError(t, c.Initialize(2))
	assert.False(t, c.AddSeconds(0))
	assert.False(t, c.AddSeconds(-5))

	c.Resume()
	tickCountdown(c, 2)
	assert.False(t, c.AddSeconds(15), "expired")
	assert.Equal(t, 0, c.SecondsRemaining())
}

func TestCountdown_PauseIdempotent(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(30))
	c.Resume()
	tickCountdown(c, 5)

	c.Pause()
	c.Pause()
	assert.False(t, c.Ticking())
	assert.Equal(t, 25, c.SecondsRemaining())

	tickCountdown(c, 5)
	assert.Equal(t, 25, c.SecondsRemaining())

	c.Resume()
	c.Resume()
	tickCountdown(c, 5)
	assert.Equal(t, 20, c.SecondsRemaining())
}

func TestCountdown_InitializeRearmsPreview(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(20))
	c.Resume()
	tickCountdown(c, 10)
	require.True(t, c.PreviewFired())

	require.NoError(t, c.Initialize(20))
	assert.False(t, c.PreviewFired())
	assert.False(t, c.Ticking())
}

func TestCountdown_Stop(t *testing.T) {
	c := NewCountdown(true)
	require.NoError(t, c.Initialize(3))
	c.Resume()
	c.Stop()

	raised := tickCountdown(c, 5)
	assert.Empty(t, raised, "a stopped countdown never expires")
	assert.Equal(t, 3, c.SecondsRemaining())

	c.Resume()
	assert.False(t, c.Ticking(), "resume has no effect once stopped")
}

func TestSignal_Has(t *testing.T) {
	s := SignalWarning | SignalPreview
	assert.True(t, s.Has(SignalWarning))
	assert.True(t, s.Has(SignalPreview))
	assert.True(t, s.Has(SignalWarning|SignalPreview))
	assert.False(t, s.Has(SignalExpired))
	assert.False(t, s.Has(0))
}
