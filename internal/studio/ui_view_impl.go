package studio

import "github.com/lowaak/smart-trainer/studio-play/internal/playmode"

// UIViewImpl defines the interface for framework-specific UI implementations
type UIViewImpl interface {
	// Initialize is called after construction to set up framework-specific widgets
	// controller is used to handle UI events
	Initialize(controller *UIController)

	// SetupKeyboardHandlers sets up keyboard event handlers
	// controller is used to handle keyboard events
	SetupKeyboardHandlers(controller *UIController)

	// Run starts the UI framework and blocks until it exits
	Run() error

	// Stop stops the UI framework
	Stop()

	// Draw refreshes/redraws the UI
	Draw() error

	// --- Mode Management ---

	// SetMode switches the UI to the specified mode
	SetMode(mode UIMode)

	// GetCurrentMode returns the currently active UI mode
	GetCurrentMode() UIMode

	// ShowDialog shows a modal over the current mode, or hides it for DialogNone
	ShowDialog(dialog Dialog)

	// --- Log View (shared across modes) ---

	// GetLogViewHeight returns the visible height of the log view
	GetLogViewHeight() int

	// ClearLogView clears the log view
	ClearLogView()

	// WriteLogLine writes a line to the log view
	WriteLogLine(line string) error

	// --- Class Selection Mode ---

	// SetClassList populates the class list and details
	SetClassList(list ClassListState)

	// --- Play Mode ---

	// UpdatePlayState updates the countdown, the workout panels and the progress display
	UpdatePlayState(state PlayState)

	// PlayFeedback renders the feedback pattern of a session event
	PlayFeedback(feedback playmode.Feedback)
}
