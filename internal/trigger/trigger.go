// Package trigger abstracts the external capture triggers (hardware
// buttons in the original deployment) behind a single source interface
// with a hardware-signal implementation and an in-process test harness.
package trigger

import (
	"sync"
	"time"
)

// Handler receives debounced trigger events. Trigger sources carry no
// capture state of their own; a panic event is a toggle request and the
// handler decides what it means against the engine's actual state.
type Handler interface {
	// OnClipTrigger is invoked once per clip request.
	OnClipTrigger()
	// OnPanicTrigger is invoked once per panic toggle request.
	OnPanicTrigger()
}

// Source delivers trigger events to a handler until stopped.
type Source interface {
	Start(handler Handler) error
	Stop()
}

// debouncer suppresses events arriving within the window of the last
// accepted one, collapsing switch bounce and double-presses.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	last   time.Time
}

func newDebouncer(window time.Duration) *debouncer {
	return &debouncer{window: window}
}

// allow reports whether an event at this instant should be delivered.
func (d *debouncer) allow() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	if now.Sub(d.last) < d.window {
		return false
	}
	d.last = now
	return true
}
