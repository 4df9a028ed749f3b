// malgo backed sample source for physical capture devices
package audio

import (
	"encoding/hex"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
	"unsafe"

	"github.com/gen2brain/malgo"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/logging"
)

// captureDevice holds information about a selected capture device.
type captureDevice struct {
	Name    string
	ID      string
	Pointer unsafe.Pointer
}

// DeviceInfo holds information about an audio device for listings.
type DeviceInfo struct {
	Index int
	Name  string
	ID    string
}

// MalgoSource captures audio from a physical device through malgo,
// delivering mono float32 blocks to the registered callback.
type MalgoSource struct {
	settings *conf.Settings

	mu     sync.Mutex
	ctx    *malgo.AllocatedContext
	device *malgo.Device
	open   bool
}

// NewMalgoSource creates a source for the device named in settings.
func NewMalgoSource(settings *conf.Settings) *MalgoSource {
	return &MalgoSource{settings: settings}
}

// Name identifies the source for logging.
func (s *MalgoSource) Name() string {
	return s.settings.Audio.Source
}

// preferredBackend picks the native audio backend for the platform.
func preferredBackend() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	default:
		return nil
	}
}

// Open initializes the capture device and starts delivering blocks to cb.
func (s *MalgoSource) Open(cb BlockFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.open {
		return fmt.Errorf("source already open")
	}

	log := logging.ForModule("audio")

	malgoCtx, err := malgo.InitContext(preferredBackend(), malgo.ContextConfig{}, func(message string) {
		if s.settings.Debug {
			log.Debug("malgo", "message", strings.TrimSpace(message))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to initialize audio context: %w", err)
	}

	infos, err := malgoCtx.Devices(malgo.Capture)
	if err != nil {
		_ = malgoCtx.Uninit()
		return fmt.Errorf("failed to get capture devices: %w", err)
	}

	selected, err := selectCaptureDevice(infos, s.settings.Audio.Source)
	if err != nil {
		_ = malgoCtx.Uninit()
		return err
	}

	channels := s.settings.Audio.Channels
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = uint32(channels)
	deviceConfig.SampleRate = uint32(s.settings.Audio.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(s.settings.Audio.BlockSize)
	deviceConfig.Alsa.NoMMap = 1
	deviceConfig.Capture.DeviceID = selected.Pointer

	// Down-mix in the data callback so the engine only ever sees mono.
	onReceiveFrames := func(pOutput, pInput []byte, frameCount uint32) {
		cb(DownmixS16LE(pInput, channels))
	}

	// onStopDevice is called when the device stops, either normally or
	// unexpectedly; try a single restart before giving up.
	onStopDevice := func() {
		go func() {
			s.mu.Lock()
			device := s.device
			stillOpen := s.open
			s.mu.Unlock()
			if !stillOpen || device == nil {
				return
			}
			time.Sleep(100 * time.Millisecond)
			if err := device.Start(); err != nil {
				log.Error("failed to restart audio device", "error", err)
			} else {
				log.Info("audio device restarted")
			}
		}()
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onReceiveFrames,
		Stop: onStopDevice,
	})
	if err != nil {
		_ = malgoCtx.Uninit()
		return fmt.Errorf("failed to initialize capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		_ = malgoCtx.Uninit()
		return fmt.Errorf("failed to start capture device: %w", err)
	}

	s.ctx = malgoCtx
	s.device = device
	s.open = true

	log.Info("listening on capture device", "name", selected.Name, "id", selected.ID)
	return nil
}

// Close stops the capture device. Safe to call when not open.
func (s *MalgoSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.open {
		return nil
	}
	s.open = false

	if s.device != nil {
		_ = s.device.Stop()
		s.device.Uninit()
		s.device = nil
	}
	if s.ctx != nil {
		if err := s.ctx.Uninit(); err != nil {
			return fmt.Errorf("failed to uninit audio context: %w", err)
		}
		s.ctx = nil
	}
	return nil
}

// selectCaptureDevice picks a capture device matching the configured
// source by decoded ID or name substring.
func selectCaptureDevice(infos []malgo.DeviceInfo, audioSource string) (captureDevice, error) {
	for _, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		if matchesDeviceSettings(decodedID, info, audioSource) {
			return captureDevice{
				Name:    info.Name(),
				ID:      decodedID,
				Pointer: info.ID.Pointer(),
			}, nil
		}
	}
	return captureDevice{}, fmt.Errorf("no suitable capture device found for source setting %q", audioSource)
}

// matchesDeviceSettings checks if the device matches the source specified by the user.
func matchesDeviceSettings(decodedID string, info malgo.DeviceInfo, audioSource string) bool {
	if runtime.GOOS == "windows" && audioSource == "sysdefault" {
		// On Windows there is no "sysdefault" device, use the default device instead.
		return info.IsDefault == 1
	}
	// Check if the decoded ID or device name matches the user's setting.
	return decodedID == audioSource || strings.Contains(info.Name(), audioSource)
}

// ListDevices returns the available audio capture devices.
func ListDevices() ([]DeviceInfo, error) {
	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize context: %w", err)
	}
	defer ctx.Uninit() //nolint:errcheck

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("failed to get devices: %w", err)
	}

	var devices []DeviceInfo
	for i, info := range infos {
		decodedID, err := hexToASCII(info.ID.String())
		if err != nil {
			continue
		}
		devices = append(devices, DeviceInfo{
			Index: i,
			Name:  info.Name(),
			ID:    decodedID,
		})
	}
	return devices, nil
}

// hexToASCII converts a hexadecimal string to an ASCII string.
func hexToASCII(hexStr string) (string, error) {
	bytes, err := hex.DecodeString(hexStr)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
