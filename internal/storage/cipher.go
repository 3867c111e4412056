// Package storage provides durable document persistence for DocMesh.
package storage

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// ErrDecrypt indicates a stored value failed authentication, usually a
// wrong encryption key or on-disk corruption.
var ErrDecrypt = errors.New("storage: decrypt failed")

// Cipher seals and opens stored document values.
//
// The zero value of a nil *Cipher passes data through unchanged, so a
// store without an encryption key configured pays no overhead.
type Cipher struct {
	key [chacha20poly1305.KeySize]byte
}

// NewCipher derives a ChaCha20-Poly1305 cipher from a passphrase.
// The key is the SHA-256 of the passphrase; an empty passphrase
// returns nil (encryption disabled).
func NewCipher(passphrase string) *Cipher {
	if passphrase == "" {
		return nil
	}
	c := &Cipher{}
	c.key = sha256.Sum256([]byte(passphrase))
	return c
}

// Seal encrypts plaintext. Layout: nonce || ciphertext.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	if c == nil {
		return plaintext, nil
	}

	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("storage: init aead: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("storage: nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a value produced by Seal.
func (c *Cipher) Open(sealed []byte) ([]byte, error) {
	if c == nil {
		return sealed, nil
	}

	aead, err := chacha20poly1305.New(c.key[:])
	if err != nil {
		return nil, fmt.Errorf("storage: init aead: %w", err)
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrDecrypt
	}

	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plaintext, nil
}
