//go:build windows

package trigger

import (
	"fmt"
	"time"
)

// SignalSource is unavailable on Windows, which has no user signals.
// Use the manual trigger source instead.
type SignalSource struct{}

func NewSignalSource(debounce time.Duration) *SignalSource {
	return &SignalSource{}
}

func (s *SignalSource) Start(handler Handler) error {
	return fmt.Errorf("signal trigger source is not supported on windows")
}

func (s *SignalSource) Stop() {}
