package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/rivo/tview"
	"github.com/spf13/pflag"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lowaak/smart-trainer/studio-play/internal/catalog"
	"github.com/lowaak/smart-trainer/studio-play/internal/config"
	"github.com/lowaak/smart-trainer/studio-play/internal/playmode"
	"github.com/lowaak/smart-trainer/studio-play/internal/studio"
)

const uiLogBuffer = 256

// uiLogWriter forwards log output to the in-app log pane. It never blocks the logger:
// lines are dropped while the pane is behind. The log file keeps everything.
type uiLogWriter struct {
	ch chan<- string
}

func (w uiLogWriter) Write(p []byte) (int, error) {
	select {
	case w.ch <- string(p):
	default:
	}
	return len(p), nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, "studio-play:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load("studio-play", args)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Log.File), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	logFile := &lumberjack.Logger{
		Filename:   cfg.Log.File,
		MaxSize:    cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAgeDays,
	}
	defer logFile.Close()

	uiLogChan := make(chan string, uiLogBuffer)
	logger := log.New(io.MultiWriter(logFile, uiLogWriter{ch: uiLogChan}), "", log.Ltime)
	if cfg.ConfigFile != "" {
		logger.Printf("Studio Play starting, config %s", cfg.ConfigFile)
	} else {
		logger.Printf("Studio Play starting with default config")
	}

	// --- Classes ---
	var builtins []catalog.Class
	if cfg.BuiltinClasses {
		builtins = catalog.BuiltinClasses()
	}
	classes := catalog.New(logger, builtins)
	if cfg.ClassesDir != "" {
		if err := os.MkdirAll(cfg.ClassesDir, 0o755); err != nil {
			logger.Printf("Cannot create classes dir %s: %v", cfg.ClassesDir, err)
		}
		catalog.Reload(cfg.ClassesDir, classes, logger)
		watcher, err := catalog.NewWatcher(cfg.ClassesDir, classes, logger, catalog.DefaultReloadDebounce)
		if err != nil {
			logger.Printf("Class hot reload disabled: %v", err)
		} else {
			defer watcher.Shutdown()
		}
	}

	// --- Play Mode ---
	runner := playmode.NewRunner(playmode.NewRealClock(), logger, cfg.TickInterval)
	model := studio.NewUIModel(classes, runner, cfg.StateFile, logger, uiLogChan)
	controller := studio.NewUIController(model, runner, classes, cfg.TransitionSeconds, logger)

	// --- UI ---
	app := tview.NewApplication()
	view := studio.NewCursesUIView(logger, app, cfg.TransitionSeconds)
	base := studio.NewBaseUIView(studio.NewBaseUIViewArg{
		UIViewImpl:   view,
		UIModel:      model,
		UIController: controller,
		Logger:       logger,
	})

	runErr := base.Run()

	base.Shutdown()
	controller.Shutdown()
	model.Shutdown()
	logger.Printf("Studio Play stopped")

	if runErr != nil {
		return fmt.Errorf("run UI: %w", runErr)
	}
	return nil
}
