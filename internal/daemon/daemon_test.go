package daemon

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodash/audiodash-go/internal/audio"
	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/export"
	"github.com/audiodash/audiodash-go/internal/seal"
)

type stubSource struct {
	cb audio.BlockFunc
}

func (s *stubSource) Open(cb audio.BlockFunc) error {
	s.cb = cb
	return nil
}

func (s *stubSource) Close() error { return nil }
func (s *stubSource) Name() string { return "stub" }

type stubExporter struct {
	mu    sync.Mutex
	kinds []export.Kind
}

func (e *stubExporter) Export(raw export.RawCapture, kind export.Kind, sealer seal.Sealer) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.kinds = append(e.kinds, kind)
	return "out.mp3", nil
}

func (e *stubExporter) exportCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.kinds)
}

type stubSealer struct{}

func (stubSealer) Seal(plaintext []byte) ([]byte, error) { return plaintext, nil }

func daemonTestSettings() *conf.Settings {
	s := &conf.Settings{}
	s.Audio.SampleRate = 100
	s.Audio.Channels = 1
	s.Audio.BlockSize = 10
	s.Audio.WindowSeconds = 1
	s.Audio.Clip.PostSeconds = 1
	return s
}

// A panic toggle refused by the engine (capture not running) must not
// flip any trigger-side state: the next toggle still has to arm, not
// deliver a stale stop.
func TestPanicToggleFollowsEngineState(t *testing.T) {
	source := &stubSource{}
	exporter := &stubExporter{}
	ctrl, err := audio.NewController(daemonTestSettings(), source, exporter, stubSealer{})
	require.NoError(t, err)

	h := &triggerHandler{controller: ctrl}

	// refused while idle, nothing may become active
	h.OnPanicTrigger()
	assert.False(t, ctrl.Status().PanicActive)

	require.NoError(t, ctrl.Start())
	defer ctrl.Stop()

	h.OnPanicTrigger()
	assert.True(t, ctrl.Status().PanicActive, "toggle after a refused start must arm")

	h.OnPanicTrigger()
	waitForPanicInactive(t, ctrl)
	assert.Equal(t, 1, exporter.exportCount())
}

func TestPanicToggleRoundTrips(t *testing.T) {
	source := &stubSource{}
	exporter := &stubExporter{}
	ctrl, err := audio.NewController(daemonTestSettings(), source, exporter, stubSealer{})
	require.NoError(t, err)
	require.NoError(t, ctrl.Start())
	defer ctrl.Stop()

	h := &triggerHandler{controller: ctrl}

	for i := 0; i < 3; i++ {
		h.OnPanicTrigger()
		require.True(t, ctrl.Status().PanicActive)
		h.OnPanicTrigger()
		waitForPanicInactive(t, ctrl)
	}
	assert.Equal(t, 3, exporter.exportCount())
}

// the stop side of the toggle runs detached, poll for completion
func waitForPanicInactive(t *testing.T, ctrl *audio.Controller) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for ctrl.Status().PanicActive {
		if time.Now().After(deadline) {
			t.Fatal("panic capture never deactivated")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestResolvePanicSealer(t *testing.T) {
	t.Run("password mode", func(t *testing.T) {
		settings := daemonTestSettings()
		settings.Crypto.Mode = "password"
		settings.Crypto.Password = "secret"
		settings.Crypto.Iterations = 1000

		sealer, err := resolvePanicSealer(settings)
		require.NoError(t, err)
		assert.NotNil(t, sealer)
	})

	t.Run("password mode without password", func(t *testing.T) {
		settings := daemonTestSettings()
		settings.Crypto.Mode = "password"

		sealer, err := resolvePanicSealer(settings)
		assert.Error(t, err)
		assert.Nil(t, sealer)
	})

	t.Run("hybrid mode with missing key", func(t *testing.T) {
		settings := daemonTestSettings()
		settings.Crypto.Mode = "hybrid"
		settings.Crypto.PublicKey = "does-not-exist.pem"

		sealer, err := resolvePanicSealer(settings)
		assert.Error(t, err)
		assert.Nil(t, sealer)
	})

	t.Run("unknown mode", func(t *testing.T) {
		settings := daemonTestSettings()
		settings.Crypto.Mode = "rot13"

		sealer, err := resolvePanicSealer(settings)
		assert.Error(t, err)
		assert.Nil(t, sealer)
	})
}

func TestBuildTriggerSource(t *testing.T) {
	settings := daemonTestSettings()
	settings.Trigger.DebounceMs = 100

	settings.Trigger.Source = "manual"
	source, err := buildTriggerSource(settings)
	require.NoError(t, err)
	assert.NotNil(t, source)

	settings.Trigger.Source = "carrier-pigeon"
	_, err = buildTriggerSource(settings)
	assert.Error(t, err)
}
