// sample source abstraction over capture devices
package audio

import "encoding/binary"

// BlockFunc receives one block of mono float32 samples from a source.
// It is invoked on the source's capture callback and must not block.
type BlockFunc func(samples []float32)

// Source delivers audio blocks at a fixed sample rate on a dedicated
// low-latency callback. Implementations down-mix multi-channel input to
// mono before delivery.
type Source interface {
	// Open starts delivering blocks to cb. It returns an error if the
	// underlying device cannot be opened.
	Open(cb BlockFunc) error
	// Close stops the source. Safe to call when not open.
	Close() error
	// Name identifies the source for logging.
	Name() string
}

// DownmixS16LE converts interleaved signed 16-bit little-endian PCM into
// mono float32 samples in [-1,1), averaging across channels.
func DownmixS16LE(pcm []byte, channels int) []float32 {
	if channels < 1 {
		channels = 1
	}
	frameBytes := 2 * channels
	frames := len(pcm) / frameBytes
	out := make([]float32, frames)

	for i := range frames {
		var sum float32
		for ch := range channels {
			off := i*frameBytes + ch*2
			s := int16(binary.LittleEndian.Uint16(pcm[off : off+2]))
			sum += float32(s) / 32768.0
		}
		out[i] = sum / float32(channels)
	}
	return out
}
