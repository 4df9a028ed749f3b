// Package daemon wires the capture engine together for realtime mode and
// runs it until a termination signal arrives.
package daemon

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/audiodash/audiodash-go/internal/audio"
	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/datastore"
	"github.com/audiodash/audiodash-go/internal/export"
	"github.com/audiodash/audiodash-go/internal/logging"
	"github.com/audiodash/audiodash-go/internal/seal"
	"github.com/audiodash/audiodash-go/internal/trigger"
)

// triggerHandler routes debounced trigger events into the controller.
// Clip saves block for the post-capture window, so they run detached.
// The panic toggle direction comes from the controller's own state, so a
// refused start (capture not running) cannot leave a stale toggle behind.
type triggerHandler struct {
	controller *audio.Controller
}

func (h *triggerHandler) OnClipTrigger() {
	go h.controller.SaveClip()
}

func (h *triggerHandler) OnPanicTrigger() {
	if h.controller.Status().PanicActive {
		go h.controller.StopPanic()
	} else {
		h.controller.StartPanic()
	}
}

// Run starts continuous capture and blocks until SIGINT or SIGTERM.
func Run(settings *conf.Settings) error {
	log := logging.ForModule("daemon")

	// Initialize database access. A nil store means no metadata sink is
	// configured, which only disables bookkeeping.
	store := datastore.New(settings)
	if store != nil {
		if err := store.Open(); err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer closeStore(store)
	} else {
		log.Warn("no metadata store enabled, recordings will not be indexed")
	}

	// Resolve the panic sealer up front so a missing key is reported at
	// startup, not at the moment a panic capture ends.
	panicSealer, err := resolvePanicSealer(settings)
	if err != nil {
		log.Error("panic capture is NOT armed, panic saves will fail closed", "error", err)
	}

	pipeline := export.New(settings, store)
	source := audio.NewMalgoSource(settings)

	controller, err := audio.NewController(settings, source, pipeline, panicSealer)
	if err != nil {
		return err
	}

	if err := controller.Start(); err != nil {
		return err
	}
	defer controller.Stop()

	triggerSource, err := buildTriggerSource(settings)
	if err != nil {
		return err
	}
	if err := triggerSource.Start(&triggerHandler{controller: controller}); err != nil {
		return fmt.Errorf("failed to start trigger source: %w", err)
	}
	defer triggerSource.Stop()

	quitChan := make(chan struct{})
	monitorCtrlC(quitChan)

	// Periodic status logging in debug mode.
	statusTicker := time.NewTicker(10 * time.Second)
	defer statusTicker.Stop()

	for {
		select {
		case <-quitChan:
			log.Info("shutting down")
			return nil
		case <-statusTicker.C:
			if settings.Debug {
				s := controller.Status()
				log.Debug("capture status",
					"running", s.Running,
					"panic_active", s.PanicActive,
					"fill", s.FillFraction,
					"buffered_seconds", s.BufferedSeconds,
					"level", s.Level.Level)
			}
		}
	}
}

// monitorCtrlC listens for termination signals and closes quitChan.
func monitorCtrlC(quitChan chan struct{}) {
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		fmt.Println("\nReceived termination signal, stopping capture")
		close(quitChan)
	}()
}

// resolvePanicSealer builds the sealer mandated for panic exports from
// the configured crypto mode. An error leaves panic saves failing closed.
func resolvePanicSealer(settings *conf.Settings) (seal.Sealer, error) {
	switch settings.Crypto.Mode {
	case "hybrid":
		pub, err := seal.LoadPublicKey(settings.Crypto.PublicKey)
		if err != nil {
			return nil, fmt.Errorf("cannot load public key %q: %w (generate one with 'audiodash keypair')", settings.Crypto.PublicKey, err)
		}
		return seal.NewPublicKeySealer(pub)
	case "password":
		if settings.Crypto.Password == "" {
			return nil, fmt.Errorf("crypto mode is password but no password is configured")
		}
		return seal.NewPasswordSealer(settings.Crypto.Password, settings.Crypto.Iterations), nil
	default:
		return nil, fmt.Errorf("unknown crypto mode: %s", settings.Crypto.Mode)
	}
}

// buildTriggerSource selects the configured trigger implementation.
func buildTriggerSource(settings *conf.Settings) (trigger.Source, error) {
	debounce := time.Duration(settings.Trigger.DebounceMs) * time.Millisecond
	switch settings.Trigger.Source {
	case "signal":
		return trigger.NewSignalSource(debounce), nil
	case "manual":
		return trigger.NewManualSource(debounce), nil
	default:
		return nil, fmt.Errorf("unknown trigger source: %s", settings.Trigger.Source)
	}
}

func closeStore(store datastore.Interface) {
	if err := store.Close(); err != nil {
		logging.ForModule("daemon").Error("failed to close database", "error", err)
	}
}
