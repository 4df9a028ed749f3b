// capture sessions: accumulators fed by the ingest path while a clip or
// panic capture is in progress
package audio

import (
	"sync"
	"time"
)

// clipSession accumulates post-trigger samples up to a fixed target.
// The ingest callback appends into it while SaveClip polls Filled; both
// sides take the session lock only for a bounded copy.
type clipSession struct {
	mu     sync.Mutex
	buf    []float32
	target int
}

func newClipSession(target int) *clipSession {
	return &clipSession{
		buf:    make([]float32, 0, target),
		target: target,
	}
}

// append adds samples, ignoring anything beyond the target so the
// ingest path stays O(block) regardless of how long the waiter takes.
func (cs *clipSession) append(samples []float32) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	remaining := cs.target - len(cs.buf)
	if remaining <= 0 {
		return
	}
	if len(samples) > remaining {
		samples = samples[:remaining]
	}
	cs.buf = append(cs.buf, samples...)
}

// filled returns the number of accumulated samples.
func (cs *clipSession) filled() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.buf)
}

// take returns the accumulated samples and detaches them from the session.
func (cs *clipSession) take() []float32 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := cs.buf
	cs.buf = nil
	cs.target = 0
	return out
}

// panicSession grows without bound from its seed snapshot until stopped.
// Access is serialized by the controller lock, not a lock of its own,
// since the panic flag and the session always change together.
type panicSession struct {
	buf     []float32
	started time.Time
}

func newPanicSession(seed []float32, started time.Time) *panicSession {
	// reserve some growth headroom beyond the seed
	buf := make([]float32, len(seed), len(seed)*2)
	copy(buf, seed)
	return &panicSession{buf: buf, started: started}
}

func (ps *panicSession) append(samples []float32) {
	ps.buf = append(ps.buf, samples...)
}

func (ps *panicSession) elapsed() time.Duration {
	return time.Since(ps.started)
}
