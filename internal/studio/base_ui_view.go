package studio

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/lowaak/smart-trainer/studio-play/internal/go_func_utils"
	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
)

// logResizeInterval is how often the log view height is polled
const logResizeInterval = 100 * time.Millisecond

// BaseUIView contains the base logic shared by all UI implementations
type BaseUIView struct {
	uiViewImpl   UIViewImpl
	uiModel      *UIModel
	uiController *UIController
	context      context.Context
	cancelFunc   context.CancelFunc
	waitGroup    sync.WaitGroup
	logger       *log.Logger
}

// NewBaseUIViewArg holds the arguments for creating a new BaseUIView
type NewBaseUIViewArg struct {
	UIViewImpl   UIViewImpl
	UIModel      *UIModel
	UIController *UIController
	Logger       *log.Logger
}

// NewBaseUIView creates a new BaseUIView with the given implementation
func NewBaseUIView(args NewBaseUIViewArg) *BaseUIView {
	if args.Logger == nil {
		panic("BaseUIView: logger cannot be nil")
	}
	if args.UIViewImpl == nil {
		panic("BaseUIView: UIViewImpl cannot be nil")
	}
	if args.UIModel == nil {
		panic("BaseUIView: UIModel cannot be nil")
	}
	if args.UIController == nil {
		panic("BaseUIView: UIController cannot be nil")
	}
	ctx, cancel := context.WithCancel(context.Background())

	base := &BaseUIView{
		uiViewImpl:   args.UIViewImpl,
		uiModel:      args.UIModel,
		uiController: args.UIController,
		context:      ctx,
		cancelFunc:   cancel,
		logger:       args.Logger,
	}

	// Initialize framework-specific widgets
	args.UIViewImpl.Initialize(args.UIController)

	// Set up keyboard handlers
	args.UIViewImpl.SetupKeyboardHandlers(args.UIController)

	// Set initial mode from model
	args.UIViewImpl.SetMode(args.UIModel.GetUIState().Mode)

	// Set up periodic resize check and initial display
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView log resize", func() { base.monitorLogResize() })
	base.updateLogDisplay()

	base.setupEventListeners()

	return base
}

// setupEventListeners forwards model changes to the view. Channel listeners drop values
// while their buffer is full, so each listener renders the model's latest value rather than
// the one it received.
func (base *BaseUIView) setupEventListeners() {
	// Listen to log messages from model
	logChan := make(chan string, 1)
	logUnregister := base.uiModel.ListenToLog(logChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView log", func() {
		defer base.waitGroup.Done()
		defer logUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-logChan:
				if !ok {
					return
				}
				// When a new log arrives, update the display to show the tail
				base.updateLogDisplay()
				base.draw()
			}
		}
	})

	// Listen to class list changes from model
	classListChan := make(chan ClassListState, 1)
	classListUnregister := base.uiModel.ListenToClassList(classListChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView class list", func() {
		defer base.waitGroup.Done()
		defer classListUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-classListChan:
				if !ok {
					return
				}
				base.uiViewImpl.SetClassList(base.uiModel.GetClassList())
				base.draw()
			}
		}
	})

	// Listen to close application event from model
	closeChan := make(chan struct{}, 1)
	closeUnregister := base.uiModel.ListenToCloseApplication(closeChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView close", func() {
		defer base.waitGroup.Done()
		defer closeUnregister()
		select {
		case <-base.context.Done():
			return
		case _, ok := <-closeChan:
			if !ok {
				return
			}
			// Stop the UI implementation
			base.uiViewImpl.Stop()
		}
	})

	// Listen to UI state changes from model
	uiStateChan := make(chan UIState, 1)
	uiStateUnregister := base.uiModel.ListenToUIState(uiStateChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView UI state", func() {
		defer base.waitGroup.Done()
		defer uiStateUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-uiStateChan:
				if !ok {
					return
				}
				state := base.uiModel.GetUIState()
				base.uiViewImpl.SetMode(state.Mode)
				base.uiViewImpl.ShowDialog(state.Dialog)
				base.draw()
			}
		}
	})

	// Listen to Play Mode updates from model
	playStateChan := make(chan PlayState, 1)
	playStateUnregister := base.uiModel.ListenToPlayState(playStateChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView play state", func() {
		defer base.waitGroup.Done()
		defer playStateUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case _, ok := <-playStateChan:
				if !ok {
					return
				}
				base.uiViewImpl.UpdatePlayState(base.uiModel.GetPlayState())
				base.draw()
			}
		}
	})

	// Listen to session feedback from model. Each cue is rendered once, so this one uses the value.
	feedbackChan := make(chan playmode.Feedback, 8)
	feedbackUnregister := base.uiModel.ListenToFeedback(feedbackChan)
	base.waitGroup.Add(1)
	go_func_utils.SafeGo(base.logger, "BaseUIView feedback", func() {
		defer base.waitGroup.Done()
		defer feedbackUnregister()
		for {
			select {
			case <-base.context.Done():
				return
			case feedback, ok := <-feedbackChan:
				if !ok {
					return
				}
				base.uiViewImpl.PlayFeedback(feedback)
				base.draw()
			}
		}
	})
}

func (base *BaseUIView) draw() {
	if err := base.uiViewImpl.Draw(); err != nil {
		base.logger.Printf("BaseUIView: Error drawing: %v", err)
	}
}

func (base *BaseUIView) updateLogDisplay() {
	// Get the visible height of the log view
	height := base.uiViewImpl.GetLogViewHeight()
	if height <= 0 {
		return
	}

	// Get the tail of logs that fit in the visible area
	logLines := base.uiModel.GetLogTail(height)

	// Clear and update the log view
	base.uiViewImpl.ClearLogView()
	for _, line := range logLines {
		if err := base.uiViewImpl.WriteLogLine(line); err != nil {
			base.logger.Printf("BaseUIView: Error writing to log view: %v", err)
		}
	}
}

func (base *BaseUIView) monitorLogResize() {
	defer base.waitGroup.Done()
	var lastHeight int
	ticker := time.NewTicker(logResizeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-base.context.Done():
			return
		case <-ticker.C:
			height := base.uiViewImpl.GetLogViewHeight()
			if height != lastHeight && height > 0 {
				lastHeight = height
				base.updateLogDisplay()
				base.draw()
			}
		}
	}
}

// Shutdown stops all goroutines and waits for them to finish
func (base *BaseUIView) Shutdown() {
	base.logger.Println("BaseUIView: Shutting down")
	base.cancelFunc()
	base.waitGroup.Wait()
	base.logger.Println("BaseUIView: Shutdown complete")
}

// Run starts the UI and blocks until it exits
func (base *BaseUIView) Run() error {
	return base.uiViewImpl.Run()
}
