// password-derived symmetric sealing
//
// Container layout: [salt 32 bytes][nonce 12 bytes][ciphertext || tag 16 bytes]
package seal

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

// PasswordSealer seals data under a key derived from a password with
// PBKDF2-SHA256. A fresh random salt and nonce are generated per call so
// no nonce is ever reused across containers.
type PasswordSealer struct {
	password   string
	iterations int
}

// NewPasswordSealer returns a sealer for the given password. An
// iteration count of zero or less selects DefaultIterations.
func NewPasswordSealer(password string, iterations int) *PasswordSealer {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PasswordSealer{password: password, iterations: iterations}
}

// deriveKey derives a 256-bit AES key from a password and salt.
func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, KeySize, sha256.New)
}

// Seal encrypts plaintext with AES-256-GCM under the derived key.
func (s *PasswordSealer) Seal(plaintext []byte) ([]byte, error) {
	if s.password == "" {
		return nil, ErrMissingKeyMaterial
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(deriveKey(s.password, salt, s.iterations))
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, SaltSize+NonceSize+len(plaintext)+TagSize)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// OpenPassword decrypts a symmetric container, re-deriving the key from
// the stored salt. Any tag mismatch fails closed with
// ErrAuthenticationFailed; no partial plaintext is returned.
func OpenPassword(container []byte, password string, iterations int) ([]byte, error) {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	if len(container) < SaltSize+NonceSize+TagSize {
		return nil, ErrMalformedContainer
	}

	salt := container[:SaltSize]
	nonce := container[SaltSize : SaltSize+NonceSize]
	ciphertext := container[SaltSize+NonceSize:]

	gcm, err := newGCM(deriveKey(password, salt, iterations))
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}

// VerifyPassword reports whether the password opens the given container.
func VerifyPassword(container []byte, password string, iterations int) bool {
	_, err := OpenPassword(container, password, iterations)
	return err == nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
