package playmode

// EventKind identifies what a session Event reports
type EventKind int

const (
	EventStepStarted       EventKind = iota // A step's countdown (re)started at a new index
	EventPreviewDue                         // "Up Next" point reached
	EventWarning                            // Ten seconds left in the step
	EventFinalCount                         // 3, 2, 1
	EventExpired                            // Workout countdown reached zero
	EventTransitionStarted                  // Interstitial began
	EventTransitionExpired                  // Interstitial reached zero
	EventSessionCompleted                   // Last step expired
	EventSessionAborted                     // Instructor exited
	EventPaused
	EventResumed
	EventTimeAdded
	EventStepRestarted
	EventNotice // A refused action, see Notice
)

var eventKindNames = map[EventKind]string{
	EventStepStarted:       "StepStarted",
	EventPreviewDue:        "PreviewDue",
	EventWarning:           "Warning",
	EventFinalCount:        "FinalCount",
	EventExpired:           "Expired",
	EventTransitionStarted: "TransitionStarted",
	EventTransitionExpired: "TransitionExpired",
	EventSessionCompleted:  "SessionCompleted",
	EventSessionAborted:    "SessionAborted",
	EventPaused:            "Paused",
	EventResumed:           "Resumed",
	EventTimeAdded:         "TimeAdded",
	EventStepRestarted:     "StepRestarted",
	EventNotice:            "Notice",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Notice is a user-facing explanation for an action the session refused
type Notice int

const (
	NoticeNone Notice = iota
	NoticeLastStep
	NoticeFirstStep
	NoticeDuringTransition
	NoticeNotRunning
)

// Title and Message return the text the presentation layer shows for a notice
func (n Notice) Title() string {
	switch n {
	case NoticeLastStep:
		return "Last Workout"
	case NoticeFirstStep:
		return "First Workout"
	case NoticeDuringTransition:
		return "Transition"
	case NoticeNotRunning:
		return "Not Running"
	default:
		return ""
	}
}

func (n Notice) Message() string {
	switch n {
	case NoticeLastStep:
		return "This is the last workout in the class."
	case NoticeFirstStep:
		return "This is the first workout in the class."
	case NoticeDuringTransition:
		return "Wait for the transition to finish."
	case NoticeNotRunning:
		return "Play Mode is not running."
	default:
		return ""
	}
}

// Event is a single notification raised by a Session.
type Event struct {
	Kind             EventKind
	StepIndex        int
	Step             WorkoutStep
	Next             *WorkoutStep // Following step for PreviewDue, nil on the last step
	SecondsRemaining int          // Of the countdown the event concerns
	SecondsAdded     int          // EventTimeAdded only
	TotalElapsed     int
	Notice           Notice // EventNotice only
	Skipped          bool   // EventStepStarted reached by a skip
}

// Feedback is the haptic/audio pattern the presentation layer may play for an event
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackLight
	FeedbackMedium
	FeedbackHeavy
	FeedbackSuccess
	FeedbackWarning
)

// SuggestedFeedback maps an event to its feedback pattern.
// The core never plays feedback itself.
func SuggestedFeedback(e Event) Feedback {
	switch e.Kind {
	case EventPreviewDue:
		if e.Next == nil {
			return FeedbackNone
		}
		return FeedbackLight
	case EventFinalCount, EventPaused, EventResumed:
		return FeedbackLight
	case EventStepStarted:
		if !e.Skipped {
			return FeedbackNone
		}
		return FeedbackMedium
	case EventTimeAdded, EventStepRestarted:
		return FeedbackMedium
	case EventWarning:
		return FeedbackWarning
	case EventExpired, EventSessionCompleted:
		return FeedbackSuccess
	case EventSessionAborted:
		return FeedbackHeavy
	default:
		return FeedbackNone
	}
}
