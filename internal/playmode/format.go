package playmode

import "fmt"

// FinishLabel names the preview target on the last step
const FinishLabel = "Finish"

// AdjustmentPresets are the quick "+N s" time adjustments offered during a step
var AdjustmentPresets = []int{15, 30, 60}

// Timer band thresholds, in seconds remaining
const (
	DangerAtSeconds      = 10
	WarningBandAtSeconds = 30
)

// TimerBand is the urgency class of a countdown display
type TimerBand int

const (
	BandNormal TimerBand = iota
	BandWarning
	BandDanger
)

func (b TimerBand) String() string {
	switch b {
	case BandWarning:
		return "Warning"
	case BandDanger:
		return "Danger"
	default:
		return "Normal"
	}
}

// BandFor returns the band for the given seconds remaining
func BandFor(secondsRemaining int) TimerBand {
	switch {
	case secondsRemaining <= DangerAtSeconds:
		return BandDanger
	case secondsRemaining <= WarningBandAtSeconds:
		return BandWarning
	default:
		return BandNormal
	}
}

// FormatClock renders seconds as m:ss. Negative values render as 0:00.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
