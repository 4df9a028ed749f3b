// hybrid sealing: a fresh AES-256 key encrypts the payload, RSA-OAEP
// wraps the key under the device's public half
//
// Container layout, integers big-endian:
// [wrapped key length 4 bytes][wrapped key][nonce 12 bytes][ciphertext || tag 16 bytes]
package seal

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// PublicKeySealer seals data so that only the matching private key, which
// is intentionally kept off-device, can ever read it back.
type PublicKeySealer struct {
	pub *rsa.PublicKey
}

// NewPublicKeySealer returns a sealer for the given public key.
func NewPublicKeySealer(pub *rsa.PublicKey) (*PublicKeySealer, error) {
	if pub == nil {
		return nil, ErrMissingKeyMaterial
	}
	return &PublicKeySealer{pub: pub}, nil
}

// Seal encrypts plaintext under a random AES-256 key and wraps that key
// with RSA-OAEP(SHA-256).
func (s *PublicKeySealer) Seal(plaintext []byte) ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, s.pub, key, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap session key: %w", err)
	}

	out := make([]byte, 0, 4+len(wrapped)+NonceSize+len(plaintext)+TagSize)
	out = binary.BigEndian.AppendUint32(out, uint32(len(wrapped)))
	out = append(out, wrapped...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, plaintext, nil)
	return out, nil
}

// OpenHybrid decrypts a hybrid container with the detached private key.
// Unwrap failures surface as ErrWrongKey, payload tag failures as
// ErrAuthenticationFailed; both fail closed.
func OpenHybrid(container []byte, priv *rsa.PrivateKey) ([]byte, error) {
	if priv == nil {
		return nil, ErrMissingKeyMaterial
	}
	if len(container) < 4 {
		return nil, ErrMalformedContainer
	}

	wrappedLen := int(binary.BigEndian.Uint32(container[:4]))
	// a wrapped key is exactly the RSA modulus size; anything larger than
	// the container itself is framing corruption
	if wrappedLen <= 0 || 4+wrappedLen+NonceSize+TagSize > len(container) {
		return nil, ErrMalformedContainer
	}

	wrapped := container[4 : 4+wrappedLen]
	nonce := container[4+wrappedLen : 4+wrappedLen+NonceSize]
	ciphertext := container[4+wrappedLen+NonceSize:]

	key, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, priv, wrapped, nil)
	if err != nil {
		return nil, ErrWrongKey
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}
	return plaintext, nil
}
