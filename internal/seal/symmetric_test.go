package seal

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// low iteration count keeps key derivation fast in tests
const testIterations = 1000

func TestPasswordSealRoundTrip(t *testing.T) {
	plaintext := []byte("forty seconds of audio")
	sealer := NewPasswordSealer("correct horse", testIterations)

	container, err := sealer.Seal(plaintext)
	require.NoError(t, err)
	assert.Len(t, container, SaltSize+NonceSize+len(plaintext)+TagSize)

	opened, err := OpenPassword(container, "correct horse", testIterations)
	require.NoError(t, err)
	assert.Equal(t, plaintext, opened)
}

func TestPasswordSealEmptyPassword(t *testing.T) {
	sealer := NewPasswordSealer("", testIterations)
	_, err := sealer.Seal([]byte("data"))
	assert.ErrorIs(t, err, ErrMissingKeyMaterial)
}

func TestPasswordSealFreshSaltAndNonce(t *testing.T) {
	sealer := NewPasswordSealer("pw", testIterations)

	a, err := sealer.Seal([]byte("same plaintext"))
	require.NoError(t, err)
	b, err := sealer.Seal([]byte("same plaintext"))
	require.NoError(t, err)

	assert.False(t, bytes.Equal(a[:SaltSize], b[:SaltSize]), "salt must be fresh per container")
	assert.False(t, bytes.Equal(a[SaltSize:SaltSize+NonceSize], b[SaltSize:SaltSize+NonceSize]), "nonce must be fresh per container")
}

func TestOpenPasswordWrongPassword(t *testing.T) {
	sealer := NewPasswordSealer("right", testIterations)
	container, err := sealer.Seal([]byte("secret"))
	require.NoError(t, err)

	opened, err := OpenPassword(container, "wrong", testIterations)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	assert.Nil(t, opened, "no partial plaintext on failure")
}

func TestOpenPasswordWrongIterations(t *testing.T) {
	sealer := NewPasswordSealer("pw", testIterations)
	container, err := sealer.Seal([]byte("secret"))
	require.NoError(t, err)

	_, err = OpenPassword(container, "pw", testIterations+1)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestOpenPasswordTamperedContainer(t *testing.T) {
	sealer := NewPasswordSealer("pw", testIterations)
	container, err := sealer.Seal([]byte("integrity matters"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		offset int
	}{
		{"salt", 0},
		{"nonce", SaltSize},
		{"ciphertext", SaltSize + NonceSize},
		{"tag", len(container) - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := make([]byte, len(container))
			copy(tampered, container)
			tampered[tt.offset] ^= 0x01

			_, err := OpenPassword(tampered, "pw", testIterations)
			assert.ErrorIs(t, err, ErrAuthenticationFailed)
		})
	}
}

func TestOpenPasswordMalformedContainer(t *testing.T) {
	tests := []struct {
		name      string
		container []byte
	}{
		{"empty", nil},
		{"salt only", make([]byte, SaltSize)},
		{"one byte short of minimum", make([]byte, SaltSize+NonceSize+TagSize-1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := OpenPassword(tt.container, "pw", testIterations)
			assert.ErrorIs(t, err, ErrMalformedContainer)
		})
	}
}

func TestVerifyPassword(t *testing.T) {
	sealer := NewPasswordSealer("pw", testIterations)
	container, err := sealer.Seal([]byte("check"))
	require.NoError(t, err)

	assert.True(t, VerifyPassword(container, "pw", testIterations))
	assert.False(t, VerifyPassword(container, "nope", testIterations))
}

func TestDefaultIterationsFallback(t *testing.T) {
	sealer := NewPasswordSealer("pw", 0)
	container, err := sealer.Seal([]byte("data"))
	require.NoError(t, err)

	// zero on the open side selects the same default
	opened, err := OpenPassword(container, "pw", 0)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), opened)
}
