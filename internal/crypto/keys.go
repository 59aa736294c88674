package crypto

import "fmt"

// KEMKeyPair holds raw ML-KEM-768 key material.
type KEMKeyPair struct {
	// Public is the raw ML-KEM-768 public key bytes.
	Public []byte
	// Secret is the raw ML-KEM-768 secret key bytes. Never export.
	Secret []byte
}

// ClassicalKeyPair holds DER-encoded RSA key material.
type ClassicalKeyPair struct {
	// Public is the PKIX (DER) encoding of the RSA public key.
	Public []byte
	// Private is the PKCS#1 (DER) encoding of the RSA private key. Never export.
	Private []byte
}

// SessionKeys is the full key material for one session. It is immutable
// after generation; concurrent reads require no locking.
//
// Invariant: KEM is non-nil iff the mode uses the KEM, Classical is
// non-nil iff the mode uses classical wrapping. Validate re-checks this
// for material that crossed a trust boundary (import, disk).
type SessionKeys struct {
	Mode      Mode
	KEM       *KEMKeyPair
	Classical *ClassicalKeyPair
}

// GenerateSessionKeys creates fresh key material for the given mode.
func GenerateSessionKeys(mode Mode) (*SessionKeys, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAlgorithm, mode)
	}

	keys := &SessionKeys{Mode: mode}

	if mode.UsesKEM() {
		kem, err := GenerateKEMKeyPair()
		if err != nil {
			return nil, fmt.Errorf("generate KEM keypair: %w", err)
		}
		keys.KEM = kem
	}

	if mode.UsesClassical() {
		classical, err := GenerateClassicalKeyPair()
		if err != nil {
			return nil, fmt.Errorf("generate classical keypair: %w", err)
		}
		keys.Classical = classical
	}

	return keys, nil
}

// Validate checks the mode/field-presence invariant and key sizes.
func (k *SessionKeys) Validate() error {
	if !k.Mode.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAlgorithm, k.Mode)
	}

	if k.Mode.UsesKEM() != (k.KEM != nil) {
		return fmt.Errorf("%w: KEM material present=%t for mode %s", ErrKeysIncomplete, k.KEM != nil, k.Mode)
	}
	if k.Mode.UsesClassical() != (k.Classical != nil) {
		return fmt.Errorf("%w: classical material present=%t for mode %s", ErrKeysIncomplete, k.Classical != nil, k.Mode)
	}

	if k.KEM != nil {
		if len(k.KEM.Public) != MLKEMPublicKeySize {
			return fmt.Errorf("%w: size %d, want %d", ErrInvalidPublicKey, len(k.KEM.Public), MLKEMPublicKeySize)
		}
		if len(k.KEM.Secret) != 0 && len(k.KEM.Secret) != MLKEMSecretKeySize {
			return fmt.Errorf("%w: size %d, want %d", ErrInvalidSecretKey, len(k.KEM.Secret), MLKEMSecretKeySize)
		}
	}
	if k.Classical != nil && len(k.Classical.Public) == 0 {
		return fmt.Errorf("%w: empty classical public key", ErrInvalidPublicKey)
	}

	return nil
}

// Public returns a copy of the key material with all secret fields
// removed. The result is safe to share or export.
func (k *SessionKeys) Public() *SessionKeys {
	pub := &SessionKeys{Mode: k.Mode}
	if k.KEM != nil {
		pub.KEM = &KEMKeyPair{Public: append([]byte(nil), k.KEM.Public...)}
	}
	if k.Classical != nil {
		pub.Classical = &ClassicalKeyPair{Public: append([]byte(nil), k.Classical.Public...)}
	}
	return pub
}

// CanDecrypt reports whether secret material for every path of the mode
// is present.
func (k *SessionKeys) CanDecrypt() bool {
	if k.Mode.UsesKEM() && (k.KEM == nil || len(k.KEM.Secret) == 0) {
		return false
	}
	if k.Mode.UsesClassical() && (k.Classical == nil || len(k.Classical.Private) == 0) {
		return false
	}
	return true
}
