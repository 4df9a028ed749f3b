// this file defines the ring buffer holding the rolling audio window
package audio

import (
	"fmt"
	"sync"
)

// RingBuffer is a fixed-capacity circular store of mono float32 samples.
// Once full, each push evicts the oldest sample. All methods are safe for
// concurrent use; the lock is held only for bounded copy work so the
// capture callback is never stalled for long.
type RingBuffer struct {
	data []float32
	head int // index of the oldest sample
	size int
	lock sync.Mutex
}

// NewRingBuffer allocates a ring buffer for the given number of samples.
// A capacity of zero or less is a configuration error.
func NewRingBuffer(capacity int) (*RingBuffer, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("invalid ring buffer capacity: %d, must be greater than 0", capacity)
	}
	// Prevent extremely large allocations (e.g. over 1GB of samples)
	if capacity > 1<<28 {
		return nil, fmt.Errorf("requested ring buffer capacity too large: %d samples", capacity)
	}
	return &RingBuffer{
		data: make([]float32, capacity),
	}, nil
}

// Push appends a single sample, evicting the oldest when full.
func (rb *RingBuffer) Push(sample float32) {
	rb.lock.Lock()
	defer rb.lock.Unlock()
	rb.push(sample)
}

// PushSlice appends a block of samples. Blocks larger than the capacity
// keep only their most recent samples, matching what a sample-by-sample
// push would leave behind.
func (rb *RingBuffer) PushSlice(samples []float32) {
	rb.lock.Lock()
	defer rb.lock.Unlock()

	if len(samples) >= len(rb.data) {
		// the block alone fills the whole window
		copy(rb.data, samples[len(samples)-len(rb.data):])
		rb.head = 0
		rb.size = len(rb.data)
		return
	}
	for _, s := range samples {
		rb.push(s)
	}
}

// push appends one sample. Caller must hold the lock.
func (rb *RingBuffer) push(sample float32) {
	if rb.size < len(rb.data) {
		rb.data[(rb.head+rb.size)%len(rb.data)] = sample
		rb.size++
		return
	}
	// full, overwrite the oldest sample and advance
	rb.data[rb.head] = sample
	rb.head = (rb.head + 1) % len(rb.data)
}

// Snapshot returns a copy of the current contents in chronological order,
// oldest first, without mutating the buffer.
func (rb *RingBuffer) Snapshot() []float32 {
	rb.lock.Lock()
	defer rb.lock.Unlock()

	out := make([]float32, rb.size)
	first := copy(out, rb.data[rb.head:min(rb.head+rb.size, len(rb.data))])
	if first < rb.size {
		// wrapped, copy the tail from the start of the backing slice
		copy(out[first:], rb.data[:rb.size-first])
	}
	return out
}

// Len returns the current number of buffered samples.
func (rb *RingBuffer) Len() int {
	rb.lock.Lock()
	defer rb.lock.Unlock()
	return rb.size
}

// Capacity returns the fixed capacity in samples.
func (rb *RingBuffer) Capacity() int {
	return len(rb.data)
}

// FillFraction returns len/capacity in [0,1].
func (rb *RingBuffer) FillFraction() float64 {
	rb.lock.Lock()
	defer rb.lock.Unlock()
	return float64(rb.size) / float64(len(rb.data))
}
