package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"
)

// GenerateSymmetricKey returns a fresh random 256-bit AES key.
func GenerateSymmetricKey() ([]byte, error) {
	key := make([]byte, AESKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, fmt.Errorf("generate symmetric key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != AESKeySize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidKeySize, len(key), AESKeySize)
	}

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

// EncryptAEAD encrypts plaintext with AES-256-GCM under key. A fresh
// random nonce is drawn on every call; the nonce, tag, and ciphertext
// are returned separately for the container format.
func EncryptAEAD(key, plaintext []byte) (nonce, tag, ciphertext []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	nonce = make([]byte, AESNonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("generate nonce: %w", err)
	}

	// Seal appends the tag to the ciphertext; split it off
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - AESTagSize
	return nonce, sealed[split:], sealed[:split], nil
}

// DecryptAEAD verifies and decrypts AES-256-GCM output produced by
// EncryptAEAD. Verification completes before any plaintext is released;
// a tag mismatch returns ErrIntegrityFailure and nothing else.
func DecryptAEAD(key, nonce, tag, ciphertext []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != AESNonceSize {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrInvalidNonceSize, len(nonce), AESNonceSize)
	}
	if len(tag) != AESTagSize {
		return nil, fmt.Errorf("%w: tag size %d, want %d", ErrIntegrityFailure, len(tag), AESTagSize)
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrIntegrityFailure
	}

	return plaintext, nil
}
