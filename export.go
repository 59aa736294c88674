package quantumsafe

import (
	"fmt"
	"time"

	"github.com/quantumsafe/envelope-go/internal/crypto"
)

// KeyRecordVersion is the current key record format version.
const KeyRecordVersion = 1

// PublicKeyRecord is the shareable half of a session's key material.
// It contains nothing secret and is safe to publish.
type PublicKeyRecord struct {
	// Version is the record format version. MUST be 1.
	Version int `json:"version"`
	// Algorithm is the session's mode tag: "kem", "classical" or "hybrid".
	Algorithm string `json:"algorithm"`
	// KEMPublic is the ML-KEM-768 public key (base64url). Present iff the
	// mode uses the KEM.
	KEMPublic string `json:"kem_public,omitempty"`
	// ClassicalPublic is the RSA public key, PKIX DER (base64url).
	// Present iff the mode uses classical wrapping.
	ClassicalPublic string `json:"classical_public,omitempty"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// PrivateKeyRecord is the secret half of a session's key material.
// WARNING: handle securely; never log or transmit in plaintext.
type PrivateKeyRecord struct {
	// Version is the record format version. MUST be 1.
	Version int `json:"version"`
	// Algorithm is the session's mode tag, repeated so the private file
	// is self-describing on its own.
	Algorithm string `json:"algorithm"`
	// KEMSecret is the ML-KEM-768 secret key (base64url, 2400 bytes
	// decoded). Present iff the mode uses the KEM.
	KEMSecret string `json:"kem_secret,omitempty"`
	// ClassicalPrivate is the RSA private key, PKCS#1 DER (base64url).
	// Present iff the mode uses classical wrapping.
	ClassicalPrivate string `json:"classical_private,omitempty"`
	// ExportedAt is the export timestamp. Informational only.
	ExportedAt time.Time `json:"exportedAt"`
}

// KeyRecord is the full export of one session: the public half and the
// private half, as persisted by [KeyStore] into two separate files.
type KeyRecord struct {
	Public  PublicKeyRecord  `json:"public"`
	Private PrivateKeyRecord `json:"private"`
}

// Validate checks the record against the mode/field-presence invariant.
// The mode is reconstructed from the tags and re-validated against the
// fields actually present, never trusted.
func (r *KeyRecord) Validate() error {
	if r.Public.Version != KeyRecordVersion {
		return fmt.Errorf("%w: unsupported version %d, expected %d", ErrInvalidImportData, r.Public.Version, KeyRecordVersion)
	}

	mode, err := crypto.ParseMode(r.Public.Algorithm)
	if err != nil {
		return fmt.Errorf("%w: unknown algorithm %q", ErrInvalidImportData, r.Public.Algorithm)
	}
	if r.Private.Algorithm != "" && r.Private.Algorithm != r.Public.Algorithm {
		return fmt.Errorf("%w: algorithm tags disagree (%q vs %q)", ErrInvalidImportData, r.Public.Algorithm, r.Private.Algorithm)
	}

	if mode.UsesKEM() != (r.Public.KEMPublic != "") {
		return fmt.Errorf("%w: kem_public presence contradicts mode %s", ErrInvalidImportData, mode)
	}
	if mode.UsesClassical() != (r.Public.ClassicalPublic != "") {
		return fmt.Errorf("%w: classical_public presence contradicts mode %s", ErrInvalidImportData, mode)
	}

	if r.Public.KEMPublic != "" {
		pub, err := crypto.FromBase64URL(r.Public.KEMPublic)
		if err != nil {
			return fmt.Errorf("%w: invalid kem_public encoding", ErrInvalidImportData)
		}
		if len(pub) != crypto.MLKEMPublicKeySize {
			return fmt.Errorf("%w: kem_public size %d, expected %d", ErrInvalidImportData, len(pub), crypto.MLKEMPublicKeySize)
		}
	}
	if r.Private.KEMSecret != "" {
		sec, err := crypto.FromBase64URL(r.Private.KEMSecret)
		if err != nil {
			return fmt.Errorf("%w: invalid kem_secret encoding", ErrInvalidImportData)
		}
		if len(sec) != crypto.MLKEMSecretKeySize {
			return fmt.Errorf("%w: kem_secret size %d, expected %d", ErrInvalidImportData, len(sec), crypto.MLKEMSecretKeySize)
		}
	}

	// Private fields may be absent entirely (public-only record), but
	// when present they must match the mode.
	if r.Private.KEMSecret != "" && !mode.UsesKEM() {
		return fmt.Errorf("%w: kem_secret present for mode %s", ErrInvalidImportData, mode)
	}
	if r.Private.ClassicalPrivate != "" && !mode.UsesClassical() {
		return fmt.Errorf("%w: classical_private present for mode %s", ErrInvalidImportData, mode)
	}

	return nil
}

// sessionKeys reconstructs key material from a validated record.
func (r *KeyRecord) sessionKeys() (*crypto.SessionKeys, error) {
	mode, err := crypto.ParseMode(r.Public.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrInvalidImportData, r.Public.Algorithm)
	}

	keys := &crypto.SessionKeys{Mode: mode}

	if mode.UsesKEM() {
		pub, err := crypto.FromBase64URL(r.Public.KEMPublic)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid kem_public encoding", ErrInvalidImportData)
		}
		keys.KEM = &crypto.KEMKeyPair{Public: pub}
		if r.Private.KEMSecret != "" {
			sec, err := crypto.FromBase64URL(r.Private.KEMSecret)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid kem_secret encoding", ErrInvalidImportData)
			}
			keys.KEM.Secret = sec
		}
	}

	if mode.UsesClassical() {
		pub, err := crypto.FromBase64URL(r.Public.ClassicalPublic)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid classical_public encoding", ErrInvalidImportData)
		}
		keys.Classical = &crypto.ClassicalKeyPair{Public: pub}
		if r.Private.ClassicalPrivate != "" {
			priv, err := crypto.FromBase64URL(r.Private.ClassicalPrivate)
			if err != nil {
				return nil, fmt.Errorf("%w: invalid classical_private encoding", ErrInvalidImportData)
			}
			keys.Classical.Private = priv
		}
	}

	if err := keys.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportData, err)
	}
	return keys, nil
}

// newKeyRecord builds a record from key material.
func newKeyRecord(keys *crypto.SessionKeys) *KeyRecord {
	now := time.Now().UTC()
	record := &KeyRecord{
		Public: PublicKeyRecord{
			Version:    KeyRecordVersion,
			Algorithm:  keys.Mode.String(),
			ExportedAt: now,
		},
		Private: PrivateKeyRecord{
			Version:    KeyRecordVersion,
			Algorithm:  keys.Mode.String(),
			ExportedAt: now,
		},
	}

	if keys.KEM != nil {
		record.Public.KEMPublic = crypto.ToBase64URL(keys.KEM.Public)
		if len(keys.KEM.Secret) > 0 {
			record.Private.KEMSecret = crypto.ToBase64URL(keys.KEM.Secret)
		}
	}
	if keys.Classical != nil {
		record.Public.ClassicalPublic = crypto.ToBase64URL(keys.Classical.Public)
		if len(keys.Classical.Private) > 0 {
			record.Private.ClassicalPrivate = crypto.ToBase64URL(keys.Classical.Private)
		}
	}

	return record
}

// Export returns the full key record for a session, private half
// included. Handle the result securely.
func (st *SessionStore) Export(id string) (*KeyRecord, error) {
	session, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return newKeyRecord(session.keys), nil
}

// Import validates a key record and registers its key material under a
// new session id.
func (st *SessionStore) Import(record *KeyRecord) (*Session, error) {
	if err := record.Validate(); err != nil {
		return nil, err
	}
	keys, err := record.sessionKeys()
	if err != nil {
		return nil, err
	}
	return st.add(keys)
}
