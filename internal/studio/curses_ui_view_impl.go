package studio

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lowaak/smart-trainer/studio-play/internal/catalog"
	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
)

// Page names for tview.Pages
const (
	pageClassSelection = "class_selection"
	pagePlayMode       = "play_mode"
	pageDialog         = "dialog"
)

const (
	progressBarWidth = 30
	flashDuration    = 300 * time.Millisecond
)

// CursesUIViewImpl implements UIViewImpl using tview (curses-based terminal UI)
type CursesUIViewImpl struct {
	logger                   *log.Logger
	app                      *tview.Application
	defaultTransitionSeconds int
	currentMode              UIMode
	dialogKind               atomic.Int32

	// Captured on every draw, used for the terminal bell
	screenMu sync.Mutex
	screen   tcell.Screen

	// Root container that holds all pages
	pages *tview.Pages

	// Shared components (visible in all modes)
	logView  *tview.TextView
	mainFlex *tview.Flex // Main layout: mode content on left, logs on right
	modal    *tview.Modal

	// Class Selection mode components
	classSelectionFlex       *tview.Flex
	classSelectionTabWidgets []*tview.Box
	searchInput              *tview.InputField
	classList                *tview.List
	classDetailsPanel        *tview.TextView
	classes                  []catalog.Class
	updatingClassList        atomic.Bool // Suppresses list callbacks while SetClassList rebuilds

	// Play Mode components
	playModeFlex       *tview.Flex
	playModeTabWidgets []*tview.Box
	headerPanel        *tview.TextView
	timerPanel         *tview.TextView
	cuesPanel          *tview.TextView
	upNextPanel        *tview.TextView
	flashUntil         atomic.Int64 // UnixNano until which the timer border stays highlighted
}

// NewCursesUIView creates the tview implementation. defaultTransitionSeconds is used for
// class durations in the details panel.
func NewCursesUIView(logger *log.Logger, app *tview.Application, defaultTransitionSeconds int) *CursesUIViewImpl {
	return &CursesUIViewImpl{
		logger:                   logger,
		app:                      app,
		defaultTransitionSeconds: defaultTransitionSeconds,
		currentMode:              UIModeClassSelection,
	}
}

// Initialize sets up the tview widgets
func (ui *CursesUIViewImpl) Initialize(controller *UIController) {
	// Note: Don't use SetChangedFunc with app.Draw() - it can cause hangs during shutdown
	// when the app has been stopped but log messages are still being written.
	// The BaseUIView's event listeners already call Draw() after updating content.
	ui.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(false)
	ui.logView.SetBorder(true).SetTitle(" Logs ")

	ui.pages = tview.NewPages()

	ui.initClassSelectionMode(controller)
	ui.initPlayMode()
	ui.initDialog(controller)

	ui.pages.AddPage(pageClassSelection, ui.classSelectionFlex, true, true)
	ui.pages.AddPage(pagePlayMode, ui.playModeFlex, true, false)
	ui.pages.AddPage(pageDialog, ui.modal, false, false)

	// Create main layout: pages on left, logs on right
	ui.mainFlex = tview.NewFlex().
		AddItem(ui.pages, 0, 2, true).
		AddItem(ui.logView, 0, 1, false)

	ui.app.SetBeforeDrawFunc(func(screen tcell.Screen) bool {
		ui.screenMu.Lock()
		ui.screen = screen
		ui.screenMu.Unlock()
		return false
	})

	ui.setFocusForCurrentMode()
}

// initClassSelectionMode sets up the Class Selection mode UI
func (ui *CursesUIViewImpl) initClassSelectionMode(controller *UIController) {
	instructionsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	instructionsText.SetText("[yellow]Enter[white] Start Class  |  [yellow]/[white] Search  |  [yellow]Tab[white] Cycle Panels  |  [yellow]Esc[white] Quit\n[yellow]1[white] Classes  |  [yellow]2[white] Play Mode")

	ui.searchInput = tview.NewInputField().
		SetLabel(" Search: ").
		SetPlaceholder("class, type or workout").
		SetChangedFunc(func(text string) {
			controller.OnSearchChanged(text)
		}).
		SetDoneFunc(func(key tcell.Key) {
			// Enter or Escape hands the keyboard back to the list
			ui.app.SetFocus(ui.classList)
		})

	ui.classList = tview.NewList().
		ShowSecondaryText(true).
		SetSelectedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			if index < 0 || index >= len(ui.classes) {
				return
			}
			ui.logger.Printf("UI: Class selected: index=%d, name=%s", index, mainText)
			controller.StartClass(ui.classes[index].ID)
		}).
		SetChangedFunc(func(index int, mainText, secondaryText string, shortcut rune) {
			ui.updateClassDetailsDisplay(index)
			if ui.updatingClassList.Load() || index < 0 || index >= len(ui.classes) {
				return
			}
			controller.OnClassHighlighted(ui.classes[index].ID)
		})
	ui.classList.SetBorder(true).SetTitle(" Classes ")

	ui.classDetailsPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.classDetailsPanel.SetBorder(true).SetTitle(" Class Details ")
	ui.updateClassDetailsDisplay(-1)

	ui.classSelectionTabWidgets = append(ui.classSelectionTabWidgets, ui.classList.Box)
	ui.classSelectionTabWidgets = append(ui.classSelectionTabWidgets, ui.searchInput.Box)
	ui.classSelectionTabWidgets = append(ui.classSelectionTabWidgets, ui.classDetailsPanel.Box)

	listColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.searchInput, 1, 0, false).
		AddItem(ui.classList, 0, 1, true)

	contentRow := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(listColumn, 0, 1, true).
		AddItem(ui.classDetailsPanel, 0, 1, false)

	ui.classSelectionFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(instructionsText, 2, 0, false).
		AddItem(contentRow, 0, 1, true)
}

// initPlayMode sets up the Play Mode UI
func (ui *CursesUIViewImpl) initPlayMode() {
	ui.headerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.headerPanel.SetBorder(true).SetTitle(" Class ")

	ui.timerPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	ui.timerPanel.SetBorder(true).SetTitle(" Workout ")

	ui.cuesPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetWordWrap(true)
	ui.cuesPanel.SetBorder(true).SetTitle(" Coaching Cues ")

	ui.upNextPanel = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	ui.upNextPanel.SetBorder(true).SetTitle(" Up Next ")

	controlsText := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	controlsText.SetText("[yellow]Space[white] Pause/Resume  |  [yellow]n[white]/[yellow]→[white] Next  |  [yellow]p[white]/[yellow]←[white] Previous  |  [yellow]r[white] Restart\n" +
		adjustmentHelp() + "  |  [yellow]x[white]/[yellow]Esc[white] Exit")

	ui.updatePlayDisplay(PlayState{})

	ui.playModeTabWidgets = append(ui.playModeTabWidgets, ui.timerPanel.Box)
	ui.playModeTabWidgets = append(ui.playModeTabWidgets, ui.cuesPanel.Box)

	sideColumn := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.cuesPanel, 0, 2, false).
		AddItem(ui.upNextPanel, 0, 1, false)

	middleRow := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ui.timerPanel, 0, 3, true).
		AddItem(sideColumn, 0, 2, false)

	ui.playModeFlex = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(ui.headerPanel, 5, 0, false).
		AddItem(middleRow, 0, 1, true).
		AddItem(controlsText, 2, 0, false)
}

// initDialog sets up the modal shared by all dialogs
func (ui *CursesUIViewImpl) initDialog(controller *UIController) {
	ui.modal = tview.NewModal().
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			if DialogKind(ui.dialogKind.Load()) == DialogExitConfirm && buttonLabel == "Exit" {
				controller.ConfirmExit()
				return
			}
			// Escape reports index -1 and cancels like the first button
			controller.DismissDialog()
		})
}

// SetClassList populates the class list, keeping the selected class highlighted
func (ui *CursesUIViewImpl) SetClassList(list ClassListState) {
	ui.updatingClassList.Store(true)
	defer ui.updatingClassList.Store(false)

	ui.classes = list.Classes
	ui.classList.Clear()

	selectedIdx := -1
	for i, class := range list.Classes {
		if class.ID == list.SelectedID {
			selectedIdx = i
		}
		ui.classList.AddItem(class.Name, ui.formatClassSummary(class), 0, nil)
	}
	if selectedIdx > -1 {
		ui.classList.SetCurrentItem(selectedIdx)
	}

	title := " Classes "
	if list.Query != "" {
		title = fmt.Sprintf(" Classes (%d matching) ", len(list.Classes))
	}
	ui.classList.SetTitle(title)
	ui.updateClassDetailsDisplay(ui.classList.GetCurrentItem())
}

func (ui *CursesUIViewImpl) formatClassSummary(class catalog.Class) string {
	parts := make([]string, 0, 3)
	if class.ClassType != "" {
		parts = append(parts, class.ClassType)
	}
	parts = append(parts, playmode.FormatClock(class.TotalDurationSeconds(ui.defaultTransitionSeconds)))
	parts = append(parts, fmt.Sprintf("%d workouts", len(class.Workouts)))
	return strings.Join(parts, "  |  ")
}

// updateClassDetailsDisplay formats and displays the class details
func (ui *CursesUIViewImpl) updateClassDetailsDisplay(index int) {
	if ui.classDetailsPanel == nil {
		return
	}

	var text string

	if index < 0 || index >= len(ui.classes) || ui.classList.GetItemCount() == 0 {
		text = "\n\n  [yellow]Class Selection[white]\n\n"
		text += "  No classes to show.\n\n"
		text += "  [gray]Add class files to the classes directory or clear the search.[white]\n"
		ui.classDetailsPanel.SetText(text)
		return
	}

	class := ui.classes[index]
	text = "\n"
	text += fmt.Sprintf("  [yellow]%s[white]\n\n", class.Name)
	if class.ClassType != "" {
		text += fmt.Sprintf("  [gray]Type:[white] %s\n", class.ClassType)
	}
	if class.Room != "" {
		text += fmt.Sprintf("  [gray]Room:[white] %s\n", class.Room)
	}
	if !class.ScheduledAt.IsZero() {
		text += fmt.Sprintf("  [gray]Scheduled:[white] %s\n", class.ScheduledAt.Local().Format("Mon 2 Jan 15:04"))
	}
	text += fmt.Sprintf("  [gray]Duration:[white] %s\n", playmode.FormatClock(class.TotalDurationSeconds(ui.defaultTransitionSeconds)))
	text += fmt.Sprintf("  [gray]Transitions:[white] %ds\n\n", class.EffectiveTransition(ui.defaultTransitionSeconds))

	text += "  [gray]Workouts:[white]\n"
	for i, workout := range class.Workouts {
		text += fmt.Sprintf("    %d. %s [gray](%s)[white]\n", i+1, tview.Escape(workout.Name), playmode.FormatClock(workout.EffectiveDuration()))
	}
	text += "\n  [green]Press Enter to start this class[white]\n"

	ui.classDetailsPanel.SetText(text)
}

// SetMode switches the UI to the specified mode
func (ui *CursesUIViewImpl) SetMode(mode UIMode) {
	if ui.currentMode == mode {
		return
	}

	ui.currentMode = mode

	switch mode {
	case UIModeClassSelection:
		ui.pages.SwitchToPage(pageClassSelection)
	case UIModePlayMode:
		ui.pages.SwitchToPage(pagePlayMode)
	}
	// SwitchToPage hides every other page, including an open dialog
	if DialogKind(ui.dialogKind.Load()) != DialogNone {
		ui.pages.ShowPage(pageDialog)
	}

	ui.setFocusForCurrentMode()
}

// GetCurrentMode returns the currently active UI mode
func (ui *CursesUIViewImpl) GetCurrentMode() UIMode {
	return ui.currentMode
}

// ShowDialog shows the modal for dialog, or hides it for DialogNone
func (ui *CursesUIViewImpl) ShowDialog(dialog Dialog) {
	previous := DialogKind(ui.dialogKind.Swap(int32(dialog.Kind)))

	if dialog.Kind == DialogNone {
		if previous != DialogNone {
			ui.pages.HidePage(pageDialog)
			ui.setFocusForCurrentMode()
		}
		return
	}

	ui.modal.ClearButtons()
	switch dialog.Kind {
	case DialogExitConfirm:
		ui.modal.AddButtons([]string{"Cancel", "Exit"})
	case DialogCompleted:
		ui.modal.AddButtons([]string{"Done"})
	default:
		ui.modal.AddButtons([]string{"OK"})
	}
	ui.modal.SetText(dialog.Title + "\n\n" + dialog.Message)
	ui.modal.SetFocus(0)

	ui.pages.ShowPage(pageDialog)
	ui.app.SetFocus(ui.modal)
}

// setFocusForCurrentMode sets focus to the open dialog or the first widget in the current mode
func (ui *CursesUIViewImpl) setFocusForCurrentMode() {
	if DialogKind(ui.dialogKind.Load()) != DialogNone {
		ui.app.SetFocus(ui.modal)
		return
	}
	widgets := ui.getTabWidgetsForCurrentMode()
	if len(widgets) > 0 {
		ui.app.SetFocus(widgets[0])
	}
}

// getTabWidgetsForCurrentMode returns the tab widgets for the current mode
func (ui *CursesUIViewImpl) getTabWidgetsForCurrentMode() []*tview.Box {
	switch ui.currentMode {
	case UIModeClassSelection:
		return ui.classSelectionTabWidgets
	case UIModePlayMode:
		return ui.playModeTabWidgets
	default:
		return nil
	}
}

// SetupKeyboardHandlers sets up keyboard event handlers
func (ui *CursesUIViewImpl) SetupKeyboardHandlers(controller *UIController) {
	ui.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// An open dialog and the search field take every key
		if DialogKind(ui.dialogKind.Load()) != DialogNone || ui.searchInput.HasFocus() {
			return event
		}

		// Number keys for mode switching (1-9)
		if event.Key() == tcell.KeyRune {
			if mode, ok := GetUIModeByKey(event.Rune()); ok {
				// Delegate to controller - it will update the model, which will notify us
				controller.OnModeChange(mode)
				return nil
			}
		}

		// Tab to switch focus between widgets in current mode
		if event.Key() == tcell.KeyTab {
			widgets := ui.getTabWidgetsForCurrentMode()
			widgetCount := len(widgets)
			if widgetCount > 0 {
				for i := 0; i < widgetCount+1; i++ {
					idx := i % widgetCount
					if widgets[idx].HasFocus() {
						nextIdx := (idx + 1) % widgetCount
						ui.app.SetFocus(widgets[nextIdx])
						break
					}
				}
			}
			return nil
		}

		// Escape leaves Play Mode or quits
		if event.Key() == tcell.KeyEscape {
			controller.OnEscapeKey()
			return nil
		}

		// Mode-specific key handlers
		switch ui.currentMode {
		case UIModeClassSelection:
			if event.Key() == tcell.KeyRune && event.Rune() == KeySearch {
				ui.app.SetFocus(ui.searchInput)
				return nil
			}
		case UIModePlayMode:
			switch event.Key() {
			case tcell.KeyRight:
				controller.SkipForward()
				return nil
			case tcell.KeyLeft:
				controller.SkipBackward()
				return nil
			case tcell.KeyRune:
				if seconds, ok := AdjustmentKeys[event.Rune()]; ok {
					controller.AddSeconds(seconds)
					return nil
				}
				switch event.Rune() {
				case KeyTogglePause:
					controller.TogglePause()
					return nil
				case KeySkipForward:
					controller.SkipForward()
					return nil
				case KeySkipBackward:
					controller.SkipBackward()
					return nil
				case KeyRestart:
					controller.RestartStep()
					return nil
				case KeyExit:
					controller.RequestExit()
					return nil
				}
			}
		}

		return event
	})
}

// GetLogViewHeight returns the visible height of the log view
func (ui *CursesUIViewImpl) GetLogViewHeight() int {
	_, _, _, height := ui.logView.GetInnerRect()
	return height
}

// ClearLogView clears the log view
func (ui *CursesUIViewImpl) ClearLogView() {
	ui.logView.Clear()
}

// WriteLogLine writes a line to the log view
func (ui *CursesUIViewImpl) WriteLogLine(line string) error {
	_, err := fmt.Fprint(ui.logView, tview.Escape(line))
	return err
}

// Draw refreshes/redraws the UI
func (ui *CursesUIViewImpl) Draw() error {
	ui.app.Draw()
	return nil
}

// Run starts the UI and blocks until it exits
func (ui *CursesUIViewImpl) Run() error {
	// SetRoot must be called before setting focus, otherwise focus may be reset
	ui.app.SetRoot(ui.mainFlex, true)
	ui.setFocusForCurrentMode()
	return ui.app.Run()
}

// Stop stops the UI framework
func (ui *CursesUIViewImpl) Stop() {
	ui.app.Stop()
}

// UpdatePlayState updates the Play Mode panels
func (ui *CursesUIViewImpl) UpdatePlayState(state PlayState) {
	ui.updatePlayDisplay(state)
}

// PlayFeedback rings the terminal bell for strong cues and flashes the timer border for light ones
func (ui *CursesUIViewImpl) PlayFeedback(feedback playmode.Feedback) {
	switch feedback {
	case playmode.FeedbackWarning, playmode.FeedbackSuccess, playmode.FeedbackHeavy:
		ui.screenMu.Lock()
		screen := ui.screen
		ui.screenMu.Unlock()
		if screen != nil {
			_ = screen.Beep() // Terminals without a bell ignore it
		}
	case playmode.FeedbackLight, playmode.FeedbackMedium:
		ui.flashUntil.Store(time.Now().Add(flashDuration).UnixNano())
		ui.timerPanel.SetBorderColor(tcell.ColorYellow)
	}
}

// adjustmentHelp lists the time adjustment keys in preset order
func adjustmentHelp() string {
	parts := make([]string, 0, len(adjustmentKeyRunes))
	for _, key := range adjustmentKeyRunes {
		if seconds, ok := AdjustmentKeys[key]; ok {
			parts = append(parts, fmt.Sprintf("[yellow]%c[white] +%ds", key, seconds))
		}
	}
	return strings.Join(parts, "  |  ")
}

// bandColor is the tview color tag for a timer band
func bandColor(band playmode.TimerBand) string {
	switch band {
	case playmode.BandDanger:
		return "red"
	case playmode.BandWarning:
		return "yellow"
	default:
		return "green"
	}
}

// progressBar renders fraction (0..1) as a bar of width cells
func progressBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// updatePlayDisplay formats and displays the Play Mode panels
func (ui *CursesUIViewImpl) updatePlayDisplay(state PlayState) {
	if ui.timerPanel == nil {
		return
	}

	if time.Now().UnixNano() > ui.flashUntil.Load() {
		ui.timerPanel.SetBorderColor(tview.Styles.BorderColor)
	}

	session := state.Session
	if !session.Started() {
		ui.headerPanel.SetText("\n  [gray]No class running[white]")
		ui.timerPanel.SetText("\n\n[gray]Select a class in Class Selection (press 1) and press Enter.[white]")
		ui.cuesPanel.SetText("")
		ui.upNextPanel.SetText("")
		return
	}

	// Header: class, position and progress
	header := fmt.Sprintf("  [yellow]%s[white]", tview.Escape(state.Class.Name))
	switch session.Phase {
	case playmode.PhasePaused:
		header += "  [gray](PAUSED)[white]"
	case playmode.PhaseCompleted:
		header += "  [green](COMPLETE)[white]"
	case playmode.PhaseAborted:
		header += "  [red](EXITED)[white]"
	}
	header += fmt.Sprintf("\n  Workout %d of %d   [gray]Elapsed:[white] %s\n", session.CurrentIndex+1, session.StepCount, playmode.FormatClock(session.ElapsedTotalSeconds))
	header += fmt.Sprintf("  [cyan]%s[white] %.0f%%", progressBar(session.Progress(), progressBarWidth), session.Progress()*100)
	ui.headerPanel.SetText(header)

	// Timer: the transition banner replaces the workout while it runs
	var timer string
	if session.InTransition {
		timer = "\n[yellow::b]GET READY[-:-:-]\n\n"
		timer += fmt.Sprintf("[white::b]%s[-:-:-]\n\n", playmode.FormatClock(session.SecondsRemaining))
		timer += fmt.Sprintf("[gray]Next:[white] %s\n", tview.Escape(session.NextName()))
	} else {
		timer = fmt.Sprintf("\n[white::b]%s[-:-:-]\n\n", tview.Escape(session.Current.Name))
		timer += fmt.Sprintf("[%s::b]%s[-:-:-]\n", bandColor(session.Band()), playmode.FormatClock(session.SecondsRemaining))
		timer += fmt.Sprintf("[gray]of %s[white]\n", playmode.FormatClock(session.CountdownDuration))
	}
	if session.Phase == playmode.PhasePaused {
		timer += "\n[yellow]PAUSED[white] [gray]- press Space to resume[white]\n"
	}
	ui.timerPanel.SetText(timer)

	// Coaching cues for the current workout
	var cues string
	if session.Current.CoachingCues != "" {
		cues = "\n  " + tview.Escape(session.Current.CoachingCues) + "\n"
	} else {
		cues = "\n  [gray]No coaching cues[white]\n"
	}
	if session.Current.MediaReference != "" {
		cues += fmt.Sprintf("\n  [gray]Media:[white] %s\n", tview.Escape(session.Current.MediaReference))
	}
	ui.cuesPanel.SetText(cues)

	// Up Next appears once the preview is due
	var upNext string
	switch {
	case session.Next == nil && (session.PreviewShown || session.InTransition):
		upNext = fmt.Sprintf("\n  [green]%s![white]\n", playmode.FinishLabel)
	case session.PreviewShown || session.InTransition:
		upNext = fmt.Sprintf("\n  [yellow]%s[white]\n  [gray]%s[white]\n", tview.Escape(session.Next.Name), playmode.FormatClock(session.Next.DurationSeconds))
	default:
		upNext = "\n  [gray]Shown near the end of this workout[white]\n"
	}
	ui.upNextPanel.SetText(upNext)
}
