// Package audio implements the capture engine: a rolling ring buffer fed
// by a realtime sample source, and the clip/panic capture modes on top of
// it. The controller is the only component shared between the capture
// callback and control goroutines.
package audio

import (
	"log/slog"
	"sync"
	"time"

	"github.com/audiodash/audiodash-go/internal/conf"
	"github.com/audiodash/audiodash-go/internal/errors"
	"github.com/audiodash/audiodash-go/internal/export"
	"github.com/audiodash/audiodash-go/internal/logging"
	"github.com/audiodash/audiodash-go/internal/seal"
)

// clipTimeoutSlack is added to the post-capture target as the hard wait
// bound; on expiry the clip proceeds with whatever was collected.
const clipTimeoutSlack = 5 * time.Second

// Exporter persists a finished raw capture. Satisfied by export.Pipeline.
type Exporter interface {
	Export(raw export.RawCapture, kind export.Kind, sealer seal.Sealer) (string, error)
}

// Status is a non-blocking view of the capture engine, safe to poll at
// high frequency.
type Status struct {
	Running             bool
	PanicActive         bool
	FillFraction        float64
	BufferedSeconds     float64
	PanicElapsedSeconds float64
	Level               LevelData
}

// Controller owns the ring buffer and the capture state machine. The
// capture callback only ever does a bounded push and fan-out, so export
// and crypto latency never stall ingestion.
type Controller struct {
	settings    *conf.Settings
	source      Source
	exporter    Exporter
	panicSealer seal.Sealer

	ring         *RingBuffer
	sampleRate   int
	postTarget   int           // clip post-capture target in samples
	clipTimeout  time.Duration // hard bound on the post-capture wait
	pollInterval time.Duration

	mu          sync.Mutex
	running     bool
	panicActive bool
	panic       *panicSession
	clips       []*clipSession
	level       LevelData

	log *slog.Logger
}

// NewController builds a controller from settings. Returns an error when
// the configured window yields an invalid ring buffer capacity.
func NewController(settings *conf.Settings, source Source, exporter Exporter, panicSealer seal.Sealer) (*Controller, error) {
	sampleRate := settings.Audio.SampleRate
	ring, err := NewRingBuffer(sampleRate * settings.Audio.WindowSeconds)
	if err != nil {
		return nil, errors.New(err).
			Component("audio").
			Category(errors.CategoryConfiguration).
			Context("window_seconds", settings.Audio.WindowSeconds).
			Build()
	}

	postSeconds := settings.Audio.Clip.PostSeconds
	return &Controller{
		settings:     settings,
		source:       source,
		exporter:     exporter,
		panicSealer:  panicSealer,
		ring:         ring,
		sampleRate:   sampleRate,
		postTarget:   sampleRate * postSeconds,
		clipTimeout:  time.Duration(postSeconds)*time.Second + clipTimeoutSlack,
		pollInterval: 10 * time.Millisecond,
		log:          logging.ForModule("audio"),
	}, nil
}

// Start opens the sample source and begins continuous ingestion.
// On failure the controller remains idle.
func (c *Controller) Start() error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		c.log.Warn("capture already running")
		return nil
	}
	c.mu.Unlock()

	if err := c.source.Open(c.ProcessSamples); err != nil {
		return errors.New(err).
			Component("audio").
			Category(errors.CategoryAudioSource).
			Context("source", c.source.Name()).
			Build()
	}

	c.mu.Lock()
	c.running = true
	c.mu.Unlock()

	c.log.Info("capture started",
		"source", c.source.Name(),
		"sample_rate", c.sampleRate,
		"window_seconds", c.settings.Audio.WindowSeconds)
	return nil
}

// Stop ends continuous ingestion. Calling while idle is a no-op.
func (c *Controller) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.running = false
	c.mu.Unlock()

	if err := c.source.Close(); err != nil {
		c.log.Error("failed to close audio source", "error", err)
	}
	c.log.Info("capture stopped")
}

// ProcessSamples is the ingest path, invoked once per audio block on the
// source callback. It must stay bounded: push into the ring, fan out to
// active sessions, nothing that can block on I/O. The push and the
// session-list read happen in one critical section with the snapshotting
// in SaveClip and StartPanic, so a block lands either in a pre snapshot
// or in the accumulators registered with it, never both.
func (c *Controller) ProcessSamples(samples []float32) {
	if len(samples) == 0 {
		return
	}
	level := calculateLevel(samples)

	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.ring.PushSlice(samples)
	c.level = level
	if c.panicActive && c.panic != nil {
		c.panic.append(samples)
	}
	clips := c.clips
	c.mu.Unlock()

	// clip sessions carry their own locks and cap their own growth
	for _, cs := range clips {
		cs.append(samples)
	}
}

// SaveClip captures the rolling window plus the configured post-trigger
// seconds and exports the result unencrypted. It blocks the calling
// goroutine, never the capture callback, and returns the final file path
// or an empty string on failure (already logged).
func (c *Controller) SaveClip() string {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		c.log.Error("cannot save clip, capture is not running")
		return ""
	}
	pre := c.ring.Snapshot()
	cs := newClipSession(c.postTarget)
	c.clips = append(c.clips, cs)
	c.mu.Unlock()

	c.log.Info("saving clip",
		"pre_seconds", float64(len(pre))/float64(c.sampleRate),
		"post_seconds", c.settings.Audio.Clip.PostSeconds)

	// poll-with-sleep bounded by the timeout; this is also the
	// cancellation mechanism, there is no separate cancel call
	deadline := time.Now().Add(c.clipTimeout)
	for cs.filled() < c.postTarget {
		if time.Now().After(deadline) {
			c.log.Warn("clip post-capture timed out, proceeding with shortfall",
				"collected", cs.filled(),
				"target", c.postTarget)
			break
		}
		time.Sleep(c.pollInterval)
	}

	c.removeClipSession(cs)
	post := cs.take()

	combined := make([]float32, 0, len(pre)+len(post))
	combined = append(combined, pre...)
	combined = append(combined, post...)

	path, err := c.exporter.Export(export.RawCapture{
		Samples:    combined,
		SampleRate: c.sampleRate,
	}, export.KindClip, nil)
	if err != nil {
		c.log.Error("clip export failed", "error", err)
		return ""
	}
	return path
}

// StartPanic begins an unbounded capture seeded with the current rolling
// window. Calling while already active is a no-op with a warning.
func (c *Controller) StartPanic() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		c.log.Error("cannot start panic capture, capture is not running")
		return
	}
	if c.panicActive {
		c.log.Warn("panic capture already active")
		return
	}

	c.panic = newPanicSession(c.ring.Snapshot(), time.Now())
	c.panicActive = true
	c.log.Warn("panic capture started")
}

// StopPanic ends the panic capture and exports the accumulated samples,
// always encrypted. With no usable key material the samples are discarded
// and nothing ever touches durable storage; this is a hard requirement.
func (c *Controller) StopPanic() string {
	c.mu.Lock()
	if !c.panicActive {
		c.mu.Unlock()
		c.log.Warn("panic capture is not active")
		return ""
	}
	c.panicActive = false
	ps := c.panic
	c.panic = nil
	c.mu.Unlock()

	elapsed := ps.elapsed()
	c.log.Warn("panic capture stopped", "elapsed_seconds", elapsed.Seconds())

	if c.panicSealer == nil {
		c.log.Error("no key material configured, discarding panic capture",
			"samples", len(ps.buf))
		return ""
	}

	path, err := c.exporter.Export(export.RawCapture{
		Samples:    ps.buf,
		SampleRate: c.sampleRate,
	}, export.KindPanic, c.panicSealer)
	if err != nil {
		c.log.Error("panic export failed", "error", err)
		return ""
	}
	return path
}

// Status returns a non-blocking snapshot of the engine state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{
		Running:         c.running,
		PanicActive:     c.panicActive,
		FillFraction:    c.ring.FillFraction(),
		BufferedSeconds: float64(c.ring.Len()) / float64(c.sampleRate),
		Level:           c.level,
	}
	if c.panicActive && c.panic != nil {
		s.PanicElapsedSeconds = c.panic.elapsed().Seconds()
	}
	return s
}

// removeClipSession detaches a finished clip session from the fan-out
// list. The list is rebuilt rather than compacted in place because the
// ingest path iterates over slice headers it read under the lock.
func (c *Controller) removeClipSession(target *clipSession) {
	c.mu.Lock()
	defer c.mu.Unlock()
	clips := make([]*clipSession, 0, len(c.clips))
	for _, cs := range c.clips {
		if cs != target {
			clips = append(clips, cs)
		}
	}
	c.clips = clips
}
