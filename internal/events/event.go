package events

import (
	"sync"
)

// Event is a typed pub/sub topic.
// Listeners are either callbacks, invoked synchronously by Notify in the caller's goroutine,
// or channels, which receive non-blocking sends (a full channel misses that value).
type Event[T any] struct {
	mu         sync.RWMutex
	listeners  map[uint64]func(T)
	nextID     uint64
	replayLast bool
	last       T
	hasLast    bool
}

// NewEvent creates a new Event.
// replayLast: if true, the most recent Notify value is delivered to every new listener
// as soon as it registers
func NewEvent[T any](replayLast bool) *Event[T] {
	return &Event[T]{
		listeners:  make(map[uint64]func(T)),
		replayLast: replayLast,
	}
}

// Listen registers a callback and returns its deregistration function.
func (e *Event[T]) Listen(callback func(T)) func() {
	if callback == nil {
		panic("callback cannot be nil")
	}
	return e.register(callback)
}

// ListenChan registers a channel and returns its deregistration function.
func (e *Event[T]) ListenChan(ch chan<- T) func() {
	if ch == nil {
		panic("channel cannot be nil")
	}
	return e.register(func(value T) {
		select {
		case ch <- value:
		default:
		}
	})
}

func (e *Event[T]) register(deliver func(T)) func() {
	e.mu.Lock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = deliver
	replay, hasReplay := e.last, e.replayLast && e.hasLast
	e.mu.Unlock()

	// Deliver outside the lock so the listener may call back into the Event
	if hasReplay {
		deliver(replay)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Lock()
			delete(e.listeners, id)
			e.mu.Unlock()
		})
	}
}

// Notify delivers value to every registered listener.
func (e *Event[T]) Notify(value T) {
	e.mu.Lock()
	if e.replayLast {
		e.last = value
		e.hasLast = true
	}
	snapshot := make([]func(T), 0, len(e.listeners))
	for _, deliver := range e.listeners {
		snapshot = append(snapshot, deliver)
	}
	e.mu.Unlock()

	for _, deliver := range snapshot {
		deliver(value)
	}
}

// Last returns the most recent value when the Event replays, and whether there is one.
func (e *Event[T]) Last() (T, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.last, e.hasLast
}

// ListenerCount returns the number of registered listeners
func (e *Event[T]) ListenerCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.listeners)
}
