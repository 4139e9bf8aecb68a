package playmode

// State is a point-in-time snapshot of a Session for presentation.
type State struct {
	Phase       Phase
	ResumePhase Phase // Phase that Resume returns to; only meaningful while Paused

	CurrentIndex int
	StepCount    int
	Current      WorkoutStep
	Next         *WorkoutStep // nil on the last step

	SecondsRemaining    int // Of the transition while InTransition, else of the current step
	CountdownDuration   int
	ElapsedTotalSeconds int
	TransitionSeconds   int

	PreviewShown bool
	InTransition bool
}

// Started reports whether the snapshot belongs to a session that accepted Start
func (s State) Started() bool {
	return s.StepCount > 0
}

func (s State) IsLastStep() bool {
	return s.StepCount > 0 && s.CurrentIndex == s.StepCount-1
}

// Progress is the fraction of steps reached, counting the current one.
func (s State) Progress() float64 {
	if s.StepCount == 0 {
		return 0
	}
	return float64(s.CurrentIndex+1) / float64(s.StepCount)
}

// Band classifies the remaining time of the current step for display.
// Transitions always render in the normal band.
func (s State) Band() TimerBand {
	if s.InTransition || !s.Started() {
		return BandNormal
	}
	return BandFor(s.SecondsRemaining)
}

// NextName is the label for the "Up Next" preview
func (s State) NextName() string {
	if s.Next == nil {
		return FinishLabel
	}
	return s.Next.Name
}
