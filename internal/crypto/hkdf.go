package crypto

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// DeriveKEK derives a key-encryption key from a KEM shared secret using
// HKDF-SHA-512. The info input binds the package-wide context string and
// the per-mode label, so the same shared secret can never yield the same
// KEK under two different modes. Deterministic: same inputs, same output.
func DeriveKEK(sharedSecret []byte, label string, length int) ([]byte, error) {
	if len(sharedSecret) == 0 {
		return nil, fmt.Errorf("%w: empty shared secret", ErrInvalidKeySize)
	}

	info := make([]byte, 0, len(HKDFContext)+1+len(label))
	info = append(info, HKDFContext...)
	info = append(info, ':')
	info = append(info, label...)

	reader := hkdf.New(sha512.New, sharedSecret, nil, info)
	key := make([]byte, length)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
