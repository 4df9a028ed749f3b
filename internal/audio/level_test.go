package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateLevel(t *testing.T) {
	tests := []struct {
		name          string
		samples       []float32
		expectedLevel int
		clipping      bool
	}{
		{
			name:          "empty block",
			samples:       nil,
			expectedLevel: 0,
		},
		{
			name:          "silence",
			samples:       make([]float32, 512),
			expectedLevel: 0,
		},
		{
			name:          "full scale square wave clips",
			samples:       []float32{1, -1, 1, -1},
			expectedLevel: 100,
			clipping:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level := calculateLevel(tt.samples)
			assert.Equal(t, tt.expectedLevel, level.Level)
			assert.Equal(t, tt.clipping, level.Clipping)
		})
	}
}

func TestCalculateLevelMonotonic(t *testing.T) {
	quiet := make([]float32, 512)
	loud := make([]float32, 512)
	for i := range quiet {
		quiet[i] = 0.01
		loud[i] = 0.5
	}

	assert.Greater(t, calculateLevel(loud).Level, calculateLevel(quiet).Level)
	assert.False(t, calculateLevel(loud).Clipping)
}

func TestDownmixS16LE(t *testing.T) {
	t.Run("mono passthrough", func(t *testing.T) {
		// two samples: 16384 and -16384
		pcm := []byte{0x00, 0x40, 0x00, 0xc0}
		out := DownmixS16LE(pcm, 1)
		assert.InDeltaSlice(t, []float32{0.5, -0.5}, out, 0.001)
	})

	t.Run("stereo averages channels", func(t *testing.T) {
		// one frame: left 16384, right -16384
		pcm := []byte{0x00, 0x40, 0x00, 0xc0}
		out := DownmixS16LE(pcm, 2)
		assert.InDeltaSlice(t, []float32{0}, out, 0.001)
	})

	t.Run("zero channels treated as mono", func(t *testing.T) {
		pcm := []byte{0x00, 0x40}
		out := DownmixS16LE(pcm, 0)
		assert.InDeltaSlice(t, []float32{0.5}, out, 0.001)
	})
}
