//go:build !windows

// OS signal based trigger source: SIGUSR1 requests a clip, SIGUSR2
// toggles panic capture. This stands in for the GPIO edge-detection
// layer on headless deployments.
package trigger

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/audiodash/audiodash-go/internal/logging"
)

// SignalSource maps process signals onto trigger events.
type SignalSource struct {
	debounce time.Duration

	sigChan  chan os.Signal
	quitChan chan struct{}
}

// NewSignalSource creates a signal trigger source with the given
// debounce window.
func NewSignalSource(debounce time.Duration) *SignalSource {
	return &SignalSource{debounce: debounce}
}

// Start registers the signal handlers and dispatches events to handler.
func (s *SignalSource) Start(handler Handler) error {
	s.sigChan = make(chan os.Signal, 4)
	s.quitChan = make(chan struct{})
	signal.Notify(s.sigChan, syscall.SIGUSR1, syscall.SIGUSR2)

	log := logging.ForModule("trigger")
	clipDebounce := newDebouncer(s.debounce)
	panicDebounce := newDebouncer(s.debounce)

	go func() {
		for {
			select {
			case <-s.quitChan:
				return
			case sig := <-s.sigChan:
				switch sig {
				case syscall.SIGUSR1:
					if !clipDebounce.allow() {
						continue
					}
					log.Info("clip trigger received")
					handler.OnClipTrigger()
				case syscall.SIGUSR2:
					if !panicDebounce.allow() {
						continue
					}
					log.Info("panic toggle received")
					handler.OnPanicTrigger()
				}
			}
		}
	}()

	log.Info("signal triggers armed", "clip", "SIGUSR1", "panic", "SIGUSR2")
	return nil
}

// Stop unregisters the signal handlers.
func (s *SignalSource) Stop() {
	if s.sigChan != nil {
		signal.Stop(s.sigChan)
	}
	if s.quitChan != nil {
		close(s.quitChan)
		s.quitChan = nil
	}
}
