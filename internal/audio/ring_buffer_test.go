package audio

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRingBufferInvalidCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"zero", 0},
		{"negative", -44100},
		{"too large", 1<<28 + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rb, err := NewRingBuffer(tt.capacity)
			assert.Error(t, err)
			assert.Nil(t, rb)
		})
	}
}

func TestRingBufferFillAndSnapshot(t *testing.T) {
	rb, err := NewRingBuffer(8)
	require.NoError(t, err)

	assert.Equal(t, 0, rb.Len())
	assert.Equal(t, 8, rb.Capacity())
	assert.Empty(t, rb.Snapshot())

	rb.PushSlice([]float32{1, 2, 3})
	assert.Equal(t, 3, rb.Len())
	assert.InDelta(t, 3.0/8.0, rb.FillFraction(), 1e-9)
	assert.Equal(t, []float32{1, 2, 3}, rb.Snapshot())

	// snapshot must not consume the contents
	assert.Equal(t, []float32{1, 2, 3}, rb.Snapshot())
}

func TestRingBufferOverwritesOldest(t *testing.T) {
	rb, err := NewRingBuffer(4)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		rb.Push(float32(i))
	}

	// only the 4 most recent samples survive, in order
	assert.Equal(t, []float32{6, 7, 8, 9}, rb.Snapshot())
	assert.Equal(t, 4, rb.Len())
	assert.InDelta(t, 1.0, rb.FillFraction(), 1e-9)
}

func TestRingBufferPushSliceAcrossWrap(t *testing.T) {
	rb, err := NewRingBuffer(5)
	require.NoError(t, err)

	rb.PushSlice([]float32{1, 2, 3, 4})
	rb.PushSlice([]float32{5, 6, 7})

	assert.Equal(t, []float32{3, 4, 5, 6, 7}, rb.Snapshot())
}

func TestRingBufferBlockLargerThanCapacity(t *testing.T) {
	rb, err := NewRingBuffer(3)
	require.NoError(t, err)

	rb.PushSlice([]float32{1, 2, 3, 4, 5, 6, 7})

	// equivalent to pushing sample by sample: only the tail remains
	assert.Equal(t, []float32{5, 6, 7}, rb.Snapshot())
}

func TestRingBufferConcurrentPushSnapshot(t *testing.T) {
	rb, err := NewRingBuffer(1024)
	require.NoError(t, err)

	var wg sync.WaitGroup
	stop := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		block := make([]float32, 64)
		for i := 0; i < 500; i++ {
			rb.PushSlice(block)
		}
		close(stop)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				snap := rb.Snapshot()
				assert.LessOrEqual(t, len(snap), rb.Capacity())
			}
		}
	}()

	wg.Wait()
	assert.Equal(t, rb.Capacity(), rb.Len())
}
