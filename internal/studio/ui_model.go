package studio

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/lowaak/smart-trainer/studio-play/internal/catalog"
	"github.com/lowaak/smart-trainer/studio-play/internal/events"
	"github.com/lowaak/smart-trainer/studio-play/internal/go_func_utils"
	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
)

// DialogKind identifies the modal currently shown over the active mode
type DialogKind int

const (
	DialogNone        DialogKind = iota
	DialogExitConfirm            // Leaving Play Mode discards the session
	DialogCompleted              // Class complete summary
	DialogNotice                 // A refused Play Mode action
	DialogError                  // A class could not be started
)

// Dialog is a modal message. The zero value means no dialog.
type Dialog struct {
	Kind    DialogKind
	Title   string
	Message string
}

// UIState holds the current state of the UI that views need to render
type UIState struct {
	Mode   UIMode
	Dialog Dialog
}

// ClassListState is the class list as the Class Selection mode shows it
type ClassListState struct {
	Classes    []catalog.Class // Matching Query, in catalog order
	Query      string
	SelectedID string
}

// Selected returns the selected class if it is in the list
func (s ClassListState) Selected() (catalog.Class, bool) {
	for _, class := range s.Classes {
		if class.ID == s.SelectedID {
			return class, true
		}
	}
	return catalog.Class{}, false
}

// PlayState pairs the running class with the latest session snapshot
type PlayState struct {
	Class   catalog.Class
	Session playmode.State
}

// Active reports whether a session is running, paused or transitioning
func (p PlayState) Active() bool {
	return p.Session.Started() && !p.Session.Phase.Terminal()
}

// ClassSource provides the class catalog, see catalog.Catalog
type ClassSource interface {
	ListenToChanges(callback func([]catalog.Class)) func()
}

// PlaySource publishes Play Mode sessions, see playmode.Runner.
// Callbacks run on the runner goroutine.
type PlaySource interface {
	ListenToState(callback func(playmode.State)) func()
	ListenToEvents(callback func(playmode.Event)) func()
}

type UIModel struct {
	logEvent              *events.Event[string]
	closeApplicationEvent *events.Event[struct{}]
	uiStateEvent          *events.Event[UIState]
	uiState               UIState
	classListEvent        *events.Event[ClassListState]
	allClasses            []catalog.Class
	classList             ClassListState
	playStateEvent        *events.Event[PlayState]
	playState             PlayState
	feedbackEvent         *events.Event[playmode.Feedback]
	persistence           *uiModelPersistence
	unregisterSources     []func()
	logLines              []string
	logMu                 sync.RWMutex
	mu                    sync.RWMutex
	ctx                   context.Context
	cancel                context.CancelFunc
	wg                    sync.WaitGroup
	logger                *log.Logger
}

// NewUIModel creates the model and subscribes it to the catalog and the runner.
// stateFile remembers the last selected class; "" disables it.
func NewUIModel(classes ClassSource, play PlaySource, stateFile string, logger *log.Logger, uiLogChan <-chan string) *UIModel {
	if logger == nil {
		panic("UIModel: logger cannot be nil")
	}
	if classes == nil {
		panic("UIModel: classes cannot be nil")
	}
	if play == nil {
		panic("UIModel: play cannot be nil")
	}
	if uiLogChan == nil {
		panic("UIModel: uiLogChan cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())
	model := &UIModel{
		logEvent:              events.NewEvent[string](false),
		closeApplicationEvent: events.NewEvent[struct{}](true),
		uiStateEvent:          events.NewEvent[UIState](true),
		uiState:               UIState{Mode: UIModeClassSelection},
		classListEvent:        events.NewEvent[ClassListState](true),
		playStateEvent:        events.NewEvent[PlayState](true),
		feedbackEvent:         events.NewEvent[playmode.Feedback](false),
		persistence:           newUIModelPersistence(stateFile, logger),
		logLines:              make([]string, 0, maxLogLines),
		ctx:                   ctx,
		cancel:                cancel,
		logger:                logger,
	}
	model.classList.SelectedID = model.persistence.getLastClassID()

	// The catalog replays its current list on registration
	model.unregisterSources = append(model.unregisterSources,
		classes.ListenToChanges(model.onClassesChanged),
		play.ListenToState(model.onPlayState),
		play.ListenToEvents(model.onPlayEvent),
	)

	// Read from the UI log channel and populate logLines
	model.wg.Add(1)
	go_func_utils.SafeGo(model.logger, "UIModel log reader", func() { model.readFromLogChannel(ctx, uiLogChan) })

	return model
}

// Shutdown unsubscribes from the sources, stops all goroutines and waits for them to finish
func (m *UIModel) Shutdown() {
	m.logger.Println("UIModel: Shutting down")
	for _, unregister := range m.unregisterSources {
		unregister()
	}
	m.cancel()
	m.wg.Wait()
	m.logger.Println("UIModel: Shutdown complete")
}

// ListenToLog registers a channel to receive log messages
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToLog(ch chan<- string) func() {
	return m.logEvent.ListenChan(ch)
}

// ListenToCloseApplication registers a channel to receive close application signals
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToCloseApplication(ch chan<- struct{}) func() {
	return m.closeApplicationEvent.ListenChan(ch)
}

// RequestCloseApplication signals that the application should close
func (m *UIModel) RequestCloseApplication() {
	m.closeApplicationEvent.Notify(struct{}{})
}

// ListenToUIState registers a channel to receive UI state changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToUIState(ch chan<- UIState) func() {
	return m.uiStateEvent.ListenChan(ch)
}

// GetUIState returns the current UI state
func (m *UIModel) GetUIState() UIState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.uiState
}

// SetMode updates the current UI mode and notifies listeners
func (m *UIModel) SetMode(mode UIMode) {
	m.mu.Lock()
	if m.uiState.Mode == mode {
		m.mu.Unlock()
		return
	}
	m.uiState.Mode = mode
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// ShowDialog replaces the current dialog and notifies listeners
func (m *UIModel) ShowDialog(dialog Dialog) {
	m.mu.Lock()
	m.uiState.Dialog = dialog
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
}

// ClearDialog hides the current dialog and returns it
func (m *UIModel) ClearDialog() Dialog {
	m.mu.Lock()
	previous := m.uiState.Dialog
	if previous.Kind == DialogNone {
		m.mu.Unlock()
		return previous
	}
	m.uiState.Dialog = Dialog{}
	state := m.uiState
	m.mu.Unlock()

	m.uiStateEvent.Notify(state)
	return previous
}

// --- Class Selection ---

// ListenToClassList registers a channel to receive class list changes
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToClassList(ch chan<- ClassListState) func() {
	return m.classListEvent.ListenChan(ch)
}

// GetClassList returns a copy of the current class list
func (m *UIModel) GetClassList() ClassListState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyClassList()
}

// SetSearchQuery filters the class list and notifies listeners
func (m *UIModel) SetSearchQuery(query string) {
	m.mu.Lock()
	if m.classList.Query == query {
		m.mu.Unlock()
		return
	}
	m.classList.Query = query
	m.rebuildClassList()
	result := m.copyClassList()
	m.mu.Unlock()

	m.classListEvent.Notify(result)
}

// SetSelectedClass selects a listed class and remembers it across restarts.
// Returns false if classID is not in the current list.
func (m *UIModel) SetSelectedClass(classID string) bool {
	m.mu.Lock()
	found := false
	for _, class := range m.classList.Classes {
		if class.ID == classID {
			found = true
			break
		}
	}
	if !found {
		m.mu.Unlock()
		return false
	}
	changed := m.classList.SelectedID != classID
	m.classList.SelectedID = classID
	m.persistence.setLastClassID(classID)
	result := m.copyClassList()
	m.mu.Unlock()

	if changed {
		m.classListEvent.Notify(result)
	}
	return true
}

// onClassesChanged is called by the catalog whenever its classes are replaced
func (m *UIModel) onClassesChanged(classes []catalog.Class) {
	m.mu.Lock()
	m.allClasses = classes
	m.rebuildClassList()
	result := m.copyClassList()
	m.mu.Unlock()

	m.classListEvent.Notify(result)
}

// rebuildClassList applies the query and keeps the selection on a listed class.
// An empty result keeps the previous selection so clearing the query restores it.
// Must be called with mu held
func (m *UIModel) rebuildClassList() {
	m.classList.Classes = catalog.Filter(m.allClasses, m.classList.Query)
	if len(m.classList.Classes) == 0 {
		return
	}
	if _, ok := m.classList.Selected(); !ok {
		m.classList.SelectedID = m.classList.Classes[0].ID
	}
}

// copyClassList must be called with mu held
func (m *UIModel) copyClassList() ClassListState {
	result := m.classList
	result.Classes = make([]catalog.Class, len(m.classList.Classes))
	copy(result.Classes, m.classList.Classes)
	return result
}

// --- Play Mode ---

// ListenToPlayState registers a channel to receive Play Mode updates
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToPlayState(ch chan<- PlayState) func() {
	return m.playStateEvent.ListenChan(ch)
}

// GetPlayState returns the running class and its latest session snapshot
func (m *UIModel) GetPlayState() PlayState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.playState
}

// SetActiveClass records which class the current session plays
func (m *UIModel) SetActiveClass(class catalog.Class) {
	m.mu.Lock()
	m.playState.Class = class
	state := m.playState
	m.mu.Unlock()

	m.playStateEvent.Notify(state)
}

// ListenToFeedback registers a channel to receive the feedback pattern of each session event
// Returns a deregistration function that can be called to remove the listener
func (m *UIModel) ListenToFeedback(ch chan<- playmode.Feedback) func() {
	return m.feedbackEvent.ListenChan(ch)
}

// onPlayState runs on the runner goroutine and must not call back into the runner
func (m *UIModel) onPlayState(session playmode.State) {
	m.mu.Lock()
	m.playState.Session = session
	state := m.playState
	m.mu.Unlock()

	m.playStateEvent.Notify(state)
}

// onPlayEvent runs on the runner goroutine and must not call back into the runner
func (m *UIModel) onPlayEvent(e playmode.Event) {
	if feedback := playmode.SuggestedFeedback(e); feedback != playmode.FeedbackNone {
		m.feedbackEvent.Notify(feedback)
	}

	switch e.Kind {
	case playmode.EventNotice:
		m.ShowDialog(Dialog{
			Kind:    DialogNotice,
			Title:   e.Notice.Title(),
			Message: e.Notice.Message(),
		})
	case playmode.EventSessionCompleted:
		m.mu.RLock()
		className := m.playState.Class.Name
		m.mu.RUnlock()
		m.ShowDialog(completedDialog(className, e.TotalElapsed))
	}
}

// completedDialog is the class complete summary
func completedDialog(className string, totalSeconds int) Dialog {
	if className == "" {
		className = "Class"
	}
	return Dialog{
		Kind:    DialogCompleted,
		Title:   "Class Complete",
		Message: fmt.Sprintf("%s\n\nTotal time %s", className, playmode.FormatClock(totalSeconds)),
	}
}

// --- Log ---

// readFromLogChannel reads log lines from the channel and populates logLines
func (m *UIModel) readFromLogChannel(ctx context.Context, logChan <-chan string) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-logChan:
			if !ok {
				// Channel closed
				return
			}

			m.logMu.Lock()
			m.logLines = append(m.logLines, line)
			if len(m.logLines) > maxLogLines {
				// Remove oldest lines, keep the most recent maxLogLines
				m.logLines = m.logLines[len(m.logLines)-maxLogLines:]
			}
			m.logMu.Unlock()

			// Notify listeners for immediate display
			m.logEvent.Notify(line)
		}
	}
}

// GetLogTail returns the last n lines of logs
func (m *UIModel) GetLogTail(n int) []string {
	m.logMu.RLock()
	defer m.logMu.RUnlock()

	if n <= 0 {
		return []string{}
	}

	if n >= len(m.logLines) {
		result := make([]string, len(m.logLines))
		copy(result, m.logLines)
		return result
	}

	result := make([]string, n)
	copy(result, m.logLines[len(m.logLines)-n:])
	return result
}
