package catalog

import (
	"fmt"
	"log"
	"strings"
	"sync"

	"golang.org/x/text/cases"

	"github.com/lowaak/smart-trainer/studio-play/internal/events"
)

// Catalog is the thread-safe set of classes available for Play Mode.
// Built-in classes come first, followed by classes loaded from disk.
type Catalog struct {
	logger   *log.Logger
	builtins []Class

	mu      sync.RWMutex
	classes []Class
	byID    map[string]int

	changed *events.Event[[]Class]
}

// New creates a catalog holding only the given built-in classes
func New(logger *log.Logger, builtins []Class) *Catalog {
	if logger == nil {
		panic("Catalog: logger cannot be nil")
	}
	c := &Catalog{
		logger:   logger,
		builtins: builtins,
		changed:  events.NewEvent[[]Class](true),
	}
	c.Replace(nil)
	return c
}

// ListenToChanges registers a callback for catalog updates. The current classes are
// delivered immediately.
func (c *Catalog) ListenToChanges(callback func([]Class)) func() {
	return c.changed.Listen(callback)
}

// Replace swaps the loaded classes, keeping the built-ins. A loaded class whose ID is
// already taken is dropped.
func (c *Catalog) Replace(loaded []Class) {
	classes := make([]Class, 0, len(c.builtins)+len(loaded))
	byID := make(map[string]int, len(c.builtins)+len(loaded))

	for _, class := range append(append([]Class(nil), c.builtins...), loaded...) {
		if _, dup := byID[class.ID]; dup {
			c.logger.Printf("Catalog: Skipping class '%s' from %s - duplicate id %s", class.Name, sourceName(class), class.ID)
			continue
		}
		byID[class.ID] = len(classes)
		classes = append(classes, class)
	}

	c.mu.Lock()
	c.classes = classes
	c.byID = byID
	c.mu.Unlock()

	c.logger.Printf("Catalog: %d classes available (%d built-in)", len(classes), len(c.builtins))

	// External call after releasing lock
	c.changed.Notify(c.Classes())
}

// Classes returns a copy of all classes in catalog order
func (c *Catalog) Classes() []Class {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Class, len(c.classes))
	copy(out, c.classes)
	return out
}

// Get looks up a class by ID
func (c *Catalog) Get(id string) (Class, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Class{}, false
	}
	return c.classes[i], true
}

// Search returns the classes whose name, class type or any workout name contains
// query, ignoring case. An empty query matches everything.
func (c *Catalog) Search(query string) []Class {
	return Filter(c.Classes(), query)
}

// Filter applies the Search match to an arbitrary class list
func Filter(classes []Class, query string) []Class {
	query = strings.TrimSpace(query)
	if query == "" {
		return classes
	}

	fold := cases.Fold()
	needle := fold.String(query)
	contains := func(s string) bool {
		return strings.Contains(fold.String(s), needle)
	}

	var matched []Class
	for _, class := range classes {
		if contains(class.Name) || contains(class.ClassType) {
			matched = append(matched, class)
			continue
		}
		for _, w := range class.Workouts {
			if contains(w.Name) {
				matched = append(matched, class)
				break
			}
		}
	}
	return matched
}

func sourceName(c Class) string {
	if c.Source == "" {
		return "built-ins"
	}
	return fmt.Sprintf("'%s'", c.Source)
}
