package crypto

import (
	"crypto/subtle"
	"fmt"
	"time"
)

// Metadata describes the plaintext an envelope was produced from.
type Metadata struct {
	OriginalName string
	OriginalSize int64
	CreatedAt    time.Time
}

// Envelope is one encrypted payload together with everything needed to
// recover it. It is a self-contained value: the set of present optional
// fields is fully determined by Mode, and it holds no reference to the
// session that produced it.
type Envelope struct {
	Mode Mode

	// AEAD-encrypted user data.
	PayloadNonce []byte
	PayloadTag   []byte
	Ciphertext   []byte

	// KEMCiphertext is present iff the mode uses the KEM.
	KEMCiphertext []byte

	// ClassicalWrapped is present iff the mode uses classical wrapping.
	// In hybrid mode it protects only the first HybridCheckSize bytes of
	// the symmetric key.
	ClassicalWrapped []byte

	// Key-wrap layer, present iff the mode derives a KEK (ModeKEM,
	// ModeHybrid): the symmetric key AEAD-wrapped under the KEK.
	KeyNonce   []byte
	KeyTag     []byte
	WrappedKey []byte

	Metadata Metadata
}

// validateShape checks the mode/field-presence invariant both ways.
func (e *Envelope) validateShape() error {
	if !e.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, e.Mode)
	}

	if e.Mode.UsesKEM() != (len(e.KEMCiphertext) > 0) {
		return fmt.Errorf("%w: kem_ciphertext presence contradicts mode %s", ErrFormat, e.Mode)
	}
	if e.Mode.UsesClassical() != (len(e.ClassicalWrapped) > 0) {
		return fmt.Errorf("%w: classical_wrapped presence contradicts mode %s", ErrFormat, e.Mode)
	}

	hasWrap := len(e.KeyNonce) > 0 || len(e.KeyTag) > 0 || len(e.WrappedKey) > 0
	if e.Mode.WrapsKey() != hasWrap {
		return fmt.Errorf("%w: key-wrap fields contradict mode %s", ErrFormat, e.Mode)
	}
	if hasWrap && (len(e.KeyNonce) == 0 || len(e.KeyTag) == 0 || len(e.WrappedKey) == 0) {
		return fmt.Errorf("%w: incomplete key-wrap fields", ErrFormat)
	}

	return nil
}

// Encrypt produces an Envelope for plaintext under the session's public
// key material. The symmetric key is fresh per call; how it is protected
// branches on keys.Mode.
func Encrypt(plaintext []byte, keys *SessionKeys) (*Envelope, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}

	symKey, err := GenerateSymmetricKey()
	if err != nil {
		return nil, err
	}

	nonce, tag, ciphertext, err := EncryptAEAD(symKey, plaintext)
	if err != nil {
		return nil, fmt.Errorf("encrypt payload: %w", err)
	}

	env := &Envelope{
		Mode:         keys.Mode,
		PayloadNonce: nonce,
		PayloadTag:   tag,
		Ciphertext:   ciphertext,
	}

	switch keys.Mode {
	case ModeKEM:
		if err := wrapUnderKEK(env, symKey, keys); err != nil {
			return nil, err
		}

	case ModeClassical:
		env.ClassicalWrapped, err = WrapClassical(keys.Classical.Public, symKey)
		if err != nil {
			return nil, fmt.Errorf("wrap symmetric key: %w", err)
		}

	case ModeHybrid:
		// Both paths protect overlapping key material: the classical
		// wrap carries the first half, the KEK wrap carries the full
		// key. Recovering the key requires the KEM path; the classical
		// path serves as an independent cross-check on decryption.
		env.ClassicalWrapped, err = WrapClassical(keys.Classical.Public, symKey[:HybridCheckSize])
		if err != nil {
			return nil, fmt.Errorf("wrap key half: %w", err)
		}
		if err := wrapUnderKEK(env, symKey, keys); err != nil {
			return nil, err
		}
	}

	return env, nil
}

// wrapUnderKEK encapsulates against the KEM public key, derives a KEK,
// and AEAD-wraps the full symmetric key under it.
func wrapUnderKEK(env *Envelope, symKey []byte, keys *SessionKeys) error {
	kemCiphertext, sharedSecret, err := Encapsulate(keys.KEM.Public)
	if err != nil {
		return fmt.Errorf("encapsulate: %w", err)
	}

	kek, err := DeriveKEK(sharedSecret, keys.Mode.Label(), AESKeySize)
	if err != nil {
		return fmt.Errorf("derive KEK: %w", err)
	}

	keyNonce, keyTag, wrappedKey, err := EncryptAEAD(kek, symKey)
	if err != nil {
		return fmt.Errorf("wrap symmetric key: %w", err)
	}

	env.KEMCiphertext = kemCiphertext
	env.KeyNonce = keyNonce
	env.KeyTag = keyTag
	env.WrappedKey = wrappedKey
	return nil
}

// Decrypt recovers the plaintext from an Envelope using the session's
// secret key material. All verification layers must pass before any
// plaintext is returned.
func Decrypt(env *Envelope, keys *SessionKeys) ([]byte, error) {
	if err := env.validateShape(); err != nil {
		return nil, err
	}
	if err := keys.Validate(); err != nil {
		return nil, err
	}
	if env.Mode != keys.Mode {
		return nil, fmt.Errorf("%w: envelope mode %s, key material mode %s", ErrInvalidAlgorithm, env.Mode, keys.Mode)
	}
	if !keys.CanDecrypt() {
		return nil, fmt.Errorf("%w: secret material missing for mode %s", ErrKeysIncomplete, keys.Mode)
	}

	var symKey []byte
	var err error

	switch env.Mode {
	case ModeKEM:
		symKey, err = unwrapUnderKEK(env, keys)
		if err != nil {
			return nil, err
		}

	case ModeClassical:
		symKey, err = UnwrapClassical(keys.Classical.Private, env.ClassicalWrapped)
		if err != nil {
			return nil, err
		}
		if len(symKey) != AESKeySize {
			return nil, ErrUnwrapFailed
		}

	case ModeHybrid:
		symKey, err = unwrapUnderKEK(env, keys)
		if err != nil {
			return nil, err
		}

		classicalHalf, err := UnwrapClassical(keys.Classical.Private, env.ClassicalWrapped)
		if err != nil {
			return nil, err
		}

		// The cross-check is the point of hybrid mode: a mismatch means
		// one of the two paths was corrupted or substituted, and the
		// envelope is rejected outright.
		if len(classicalHalf) != HybridCheckSize ||
			subtle.ConstantTimeCompare(classicalHalf, symKey[:HybridCheckSize]) != 1 {
			return nil, ErrHybridMismatch
		}
	}

	plaintext, err := DecryptAEAD(symKey, env.PayloadNonce, env.PayloadTag, env.Ciphertext)
	if err != nil {
		return nil, err
	}

	return plaintext, nil
}

// unwrapUnderKEK decapsulates the KEM ciphertext, derives the KEK, and
// unwraps the symmetric key.
func unwrapUnderKEK(env *Envelope, keys *SessionKeys) ([]byte, error) {
	sharedSecret, err := Decapsulate(keys.KEM.Secret, env.KEMCiphertext)
	if err != nil {
		return nil, err
	}

	kek, err := DeriveKEK(sharedSecret, env.Mode.Label(), AESKeySize)
	if err != nil {
		return nil, fmt.Errorf("derive KEK: %w", err)
	}

	symKey, err := DecryptAEAD(kek, env.KeyNonce, env.KeyTag, env.WrappedKey)
	if err != nil {
		return nil, err
	}
	if len(symKey) != AESKeySize {
		return nil, ErrIntegrityFailure
	}

	return symKey, nil
}
