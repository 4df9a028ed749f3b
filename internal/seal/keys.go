// RSA key pair generation and PEM load/save. The private half is written
// once at generation time and is never read during normal capture.
package seal

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
)

const (
	publicKeyFile  = "public_key.pem"
	privateKeyFile = "private_key.pem"
)

// GenerateKeyPair creates a new RSA key pair and saves both halves under
// dir. bits must be 2048 or 4096. When passphrase is non-empty the
// private key PEM is encrypted with it. Returns the public and private
// key paths.
func GenerateKeyPair(dir string, bits int, passphrase string) (pubPath, privPath string, err error) {
	if bits != 2048 && bits != 4096 {
		return "", "", fmt.Errorf("invalid key size: %d, must be 2048 or 4096", bits)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", "", fmt.Errorf("failed to create key directory %s: %w", dir, err)
	}

	// Save private key: PKCS#8 in the clear, or the openssl-compatible
	// encrypted PKCS#1 form when a passphrase is given.
	var privPem *pem.Block
	if passphrase != "" {
		//nolint:staticcheck // legacy PEM encryption, matches what openssl expects for this label
		privPem, err = x509.EncryptPEMBlock(rand.Reader, "RSA PRIVATE KEY",
			x509.MarshalPKCS1PrivateKey(privateKey), []byte(passphrase), x509.PEMCipherAES256)
		if err != nil {
			return "", "", fmt.Errorf("failed to encrypt private key: %w", err)
		}
	} else {
		privBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal private key: %w", err)
		}
		privPem = &pem.Block{
			Type:  "PRIVATE KEY",
			Bytes: privBytes,
		}
	}

	privPath = filepath.Join(dir, privateKeyFile)
	if err := os.WriteFile(privPath, pem.EncodeToMemory(privPem), 0o600); err != nil {
		return "", "", fmt.Errorf("failed to write private key file at %s: %w", privPath, err)
	}

	// Save public key
	pubASN1, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return "", "", fmt.Errorf("failed to marshal public key: %w", err)
	}
	pubPem := &pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubASN1,
	}

	pubPath = filepath.Join(dir, publicKeyFile)
	if err := os.WriteFile(pubPath, pem.EncodeToMemory(pubPem), 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write public key file at %s: %w", pubPath, err)
	}

	return pubPath, privPath, nil
}

// LoadPublicKey loads an RSA public key from a PEM file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PUBLIC KEY" {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}

// LoadPrivateKey loads an RSA private key from a PEM file, decrypting it
// with the passphrase when the block is encrypted.
func LoadPrivateKey(path, passphrase string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("failed to decode PEM block containing private key")
	}

	keyBytes := block.Bytes
	//nolint:staticcheck // see GenerateKeyPair
	if x509.IsEncryptedPEMBlock(block) {
		if passphrase == "" {
			return nil, fmt.Errorf("private key is encrypted, passphrase required")
		}
		//nolint:staticcheck
		keyBytes, err = x509.DecryptPEMBlock(block, []byte(passphrase))
		if err != nil {
			return nil, fmt.Errorf("failed to decrypt private key: %w", err)
		}
	}

	if block.Type == "RSA PRIVATE KEY" {
		return x509.ParsePKCS1PrivateKey(keyBytes)
	}

	key, err := x509.ParsePKCS8PrivateKey(keyBytes)
	if err != nil {
		return nil, err
	}
	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA private key")
	}
	return rsaKey, nil
}
