package crypto

import "fmt"

// Mode selects which asymmetric mechanisms protect the symmetric key.
type Mode string

const (
	// ModeKEM protects the symmetric key with ML-KEM-768 only.
	ModeKEM Mode = "kem"
	// ModeClassical protects the symmetric key with RSA-OAEP only.
	ModeClassical Mode = "classical"
	// ModeHybrid protects the symmetric key with both mechanisms.
	ModeHybrid Mode = "hybrid"
)

// ParseMode validates a mode string from external input.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeKEM, ModeClassical, ModeHybrid:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAlgorithm, s)
}

// Valid reports whether m is one of the three defined modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeKEM, ModeClassical, ModeHybrid:
		return true
	}
	return false
}

// UsesKEM reports whether the mode requires ML-KEM key material.
func (m Mode) UsesKEM() bool {
	return m == ModeKEM || m == ModeHybrid
}

// UsesClassical reports whether the mode requires RSA key material.
func (m Mode) UsesClassical() bool {
	return m == ModeClassical || m == ModeHybrid
}

// WrapsKey reports whether the mode wraps the symmetric key under a
// derived key-encryption key.
func (m Mode) WrapsKey() bool {
	return m.UsesKEM()
}

// Label returns the key derivation label for modes that derive a KEK.
func (m Mode) Label() string {
	if m == ModeHybrid {
		return LabelHybrid
	}
	return LabelKEM
}

func (m Mode) String() string { return string(m) }
