// Package seal implements the encryption strategies used to protect panic
// recordings: password-derived symmetric AES-256-GCM and hybrid RSA+AES
// where the device holds only the public half of the key pair.
package seal

import "github.com/audiodash/audiodash-go/internal/errors"

// Sealer produces an authenticated encrypted container from plaintext.
// Implementations never require key material beyond what normal capture
// operation is allowed to hold.
type Sealer interface {
	Seal(plaintext []byte) ([]byte, error)
}

// Sentinel errors for decrypt failure modes. Both fail closed: no partial
// plaintext is ever returned alongside them.
var (
	// ErrAuthenticationFailed indicates a GCM tag mismatch: wrong
	// password or a tampered container.
	ErrAuthenticationFailed = errors.NewStd("authentication failed: wrong password or corrupted file")

	// ErrWrongKey indicates the RSA key unwrap failed: wrong private key
	// or a corrupted container header.
	ErrWrongKey = errors.NewStd("key unwrap failed: wrong key or corrupted file")

	// ErrMissingKeyMaterial indicates a seal was requested without a
	// usable key configured.
	ErrMissingKeyMaterial = errors.NewStd("no usable key material configured")

	// ErrMalformedContainer indicates the container is too short or its
	// framing is inconsistent.
	ErrMalformedContainer = errors.NewStd("malformed encrypted container")
)

const (
	// SaltSize is the PBKDF2 salt length in the symmetric container.
	SaltSize = 32
	// NonceSize is the GCM nonce length in both container formats.
	NonceSize = 12
	// KeySize is the AES-256 key length.
	KeySize = 32
	// TagSize is the GCM authentication tag length.
	TagSize = 16
	// DefaultIterations is the default PBKDF2 iteration count.
	DefaultIterations = 100000
)
