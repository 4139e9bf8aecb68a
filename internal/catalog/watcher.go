package catalog

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/lowaak/smart-trainer/studio-play/internal/go_func_utils"
)

// DefaultReloadDebounce coalesces the burst of events an editor produces on save
const DefaultReloadDebounce = 250 * time.Millisecond

// Watcher reloads a class directory into a Catalog whenever a class file changes.
type Watcher struct {
	dir      string
	catalog  *Catalog
	logger   *log.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher

	// Goroutine management
	doneChan     chan struct{} // Closed to signal shutdown
	wg           sync.WaitGroup
	shutdownOnce sync.Once
}

// Reload loads dir into catalog once. Files that fail to load are logged and skipped.
func Reload(dir string, catalog *Catalog, logger *log.Logger) {
	classes, err := LoadDir(dir)
	if err != nil {
		logger.Printf("Catalog: Some class files failed to load: %v", err)
	}
	catalog.Replace(classes)
}

// NewWatcher starts watching dir. The directory must exist.
func NewWatcher(dir string, catalog *Catalog, logger *log.Logger, debounce time.Duration) (*Watcher, error) {
	if catalog == nil {
		panic("Watcher: catalog cannot be nil")
	}
	if logger == nil {
		panic("Watcher: logger cannot be nil")
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close() // Ignore close error in error path
		return nil, fmt.Errorf("watch classes dir: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		catalog:  catalog,
		logger:   logger,
		debounce: debounce,
		watcher:  fsw,
		doneChan: make(chan struct{}),
	}

	w.wg.Add(1)
	go_func_utils.SafeGo(logger, "Watcher", w.watchLoop)

	logger.Printf("Watcher: Watching %s for class changes", dir)
	return w, nil
}

// Shutdown stops watching and waits for the watch goroutine to exit.
// Safe to call multiple times - only the first call has effect
func (w *Watcher) Shutdown() {
	w.shutdownOnce.Do(func() {
		close(w.doneChan)
		w.wg.Wait()
		_ = w.watcher.Close()
		w.logger.Printf("Watcher: Stopped")
	})
}

// relevant reports whether an event can change the set of loaded classes
func relevant(event fsnotify.Event) bool {
	if !IsClassFile(event.Name) {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

// watchLoop is the file watcher goroutine. Reloads run on this goroutine, after the
// debounce timer fires with no further relevant events.
func (w *Watcher) watchLoop() {
	defer w.wg.Done()

	debounce := time.NewTimer(w.debounce)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-w.doneChan:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			w.logger.Printf("Watcher: %s %s", event.Op, filepath.Base(event.Name))
			// Debounce: reset timer on each event
			debounce.Reset(w.debounce)

		case <-debounce.C:
			Reload(w.dir, w.catalog, w.logger)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Watcher: Error: %v", err)
		}
	}
}
