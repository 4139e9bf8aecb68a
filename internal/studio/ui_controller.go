package studio

import (
	"log"

	"github.com/lowaak/smart-trainer/studio-play/internal/catalog"
	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
)

// UIController handles UI events and coordinates the runner, the catalog and the UIModel
type UIController struct {
	model                    *UIModel
	runner                   *playmode.Runner
	catalog                  *catalog.Catalog
	defaultTransitionSeconds int
	logger                   *log.Logger
}

// NewUIController creates a new UIController with the given dependencies.
// defaultTransitionSeconds applies to classes without their own transition length.
func NewUIController(model *UIModel, runner *playmode.Runner, classes *catalog.Catalog, defaultTransitionSeconds int, logger *log.Logger) *UIController {
	if model == nil {
		panic("UIController: model cannot be nil")
	}
	if runner == nil {
		panic("UIController: runner cannot be nil")
	}
	if classes == nil {
		panic("UIController: catalog cannot be nil")
	}
	if logger == nil {
		panic("UIController: logger cannot be nil")
	}

	return &UIController{
		model:                    model,
		runner:                   runner,
		catalog:                  classes,
		defaultTransitionSeconds: defaultTransitionSeconds,
		logger:                   logger,
	}
}

// OnEscapeKey handles when the Escape key is pressed.
// In Play Mode it asks before leaving, elsewhere it closes the application.
func (c *UIController) OnEscapeKey() {
	if c.model.GetUIState().Mode == UIModePlayMode {
		c.RequestExit()
		return
	}
	c.model.RequestCloseApplication()
}

// OnModeChange handles when the user requests a mode change
func (c *UIController) OnModeChange(mode UIMode) {
	if mode == UIModePlayMode && !c.model.GetPlayState().Active() {
		c.logger.Printf("No class running - select a class and press Enter")
		return
	}
	if info, ok := GetUIModeInfo(mode); ok {
		c.logger.Printf("Switching to %s mode", info.DisplayName)
	}
	if mode == UIModeClassSelection && c.model.GetPlayState().Active() {
		c.logger.Printf("Class still running - press 2 to return to Play Mode")
	}
	c.model.SetMode(mode)
}

// --- Class Selection Methods ---

// OnSearchChanged filters the class list
func (c *UIController) OnSearchChanged(query string) {
	c.model.SetSearchQuery(query)
}

// OnClassHighlighted handles when the list cursor moves to a class
func (c *UIController) OnClassHighlighted(classID string) {
	c.model.SetSelectedClass(classID)
}

// StartClass starts Play Mode for a class.
// Only one session runs at a time; a running class is resumed on screen instead.
func (c *UIController) StartClass(classID string) {
	if c.model.GetPlayState().Active() {
		c.logger.Printf("A class is already running - exit it before starting another")
		c.model.SetMode(UIModePlayMode)
		return
	}

	class, ok := c.catalog.Get(classID)
	if !ok {
		c.logger.Printf("Unknown class: %s", classID)
		return
	}

	transitionSeconds := class.EffectiveTransition(c.defaultTransitionSeconds)
	if err := c.runner.Start(class.ToSteps(), transitionSeconds); err != nil {
		c.logger.Printf("Cannot start %s: %v", class.Name, err)
		c.model.ShowDialog(Dialog{
			Kind:    DialogError,
			Title:   "Cannot Start Class",
			Message: err.Error(),
		})
		return
	}

	c.logger.Printf("Class started: %s (%d workouts, %ds transitions)", class.Name, len(class.Workouts), transitionSeconds)
	c.model.SetSelectedClass(class.ID)
	c.model.SetActiveClass(class)
	c.model.SetMode(UIModePlayMode)
}

// --- Play Mode Methods ---

// TogglePause pauses a running session or resumes a paused one
func (c *UIController) TogglePause() {
	c.runner.TogglePause()
}

// SkipForward ends the current workout early
func (c *UIController) SkipForward() {
	c.runner.SkipForward()
}

// SkipBackward returns to the previous workout
func (c *UIController) SkipBackward() {
	c.runner.SkipBackward()
}

// RestartStep restarts the current workout from its full duration
func (c *UIController) RestartStep() {
	c.runner.Restart()
}

// AddSeconds extends the current workout
func (c *UIController) AddSeconds(seconds int) {
	if !c.runner.AddSeconds(seconds) {
		c.logger.Printf("Could not add %ds", seconds)
	}
}

// RequestExit asks for confirmation before leaving Play Mode.
// The session keeps running while the question is open.
func (c *UIController) RequestExit() {
	if !c.model.GetPlayState().Active() {
		c.model.SetMode(UIModeClassSelection)
		return
	}
	c.model.ShowDialog(Dialog{
		Kind:    DialogExitConfirm,
		Title:   "Exit Play Mode?",
		Message: "The class will stop and progress will not be saved.",
	})
}

// ConfirmExit aborts the session and returns to Class Selection
func (c *UIController) ConfirmExit() {
	c.model.ClearDialog()
	if c.runner.Abort() {
		c.logger.Printf("Class exited: %s", c.model.GetPlayState().Class.Name)
	}
	c.model.SetMode(UIModeClassSelection)
}

// DismissDialog closes the current dialog. Dismissing the class complete summary
// returns to Class Selection.
func (c *UIController) DismissDialog() {
	dialog := c.model.ClearDialog()
	if dialog.Kind == DialogCompleted {
		c.model.SetMode(UIModeClassSelection)
	}
}

// Shutdown stops the runner, aborting any live session
func (c *UIController) Shutdown() {
	c.runner.Shutdown()
}
