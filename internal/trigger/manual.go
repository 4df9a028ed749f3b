package trigger

import (
	"sync"
	"time"
)

// ManualSource is an in-process trigger source for tests and interactive
// use. Events injected through Clip and Panic go through the same
// debounce as hardware triggers.
type ManualSource struct {
	debounce *debouncer

	mu      sync.Mutex
	handler Handler
}

// NewManualSource creates a manual trigger source. A zero debounce
// window delivers every event.
func NewManualSource(debounce time.Duration) *ManualSource {
	return &ManualSource{debounce: newDebouncer(debounce)}
}

// Start registers the handler.
func (s *ManualSource) Start(handler Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = handler
	return nil
}

// Stop detaches the handler; later injections are dropped.
func (s *ManualSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handler = nil
}

// Clip injects a clip trigger.
func (s *ManualSource) Clip() {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler == nil || !s.debounce.allow() {
		return
	}
	handler.OnClipTrigger()
}

// Panic injects a panic toggle request.
func (s *ManualSource) Panic() {
	s.mu.Lock()
	handler := s.handler
	s.mu.Unlock()
	if handler == nil || !s.debounce.allow() {
		return
	}
	handler.OnPanicTrigger()
}
