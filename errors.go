package quantumsafe

import (
	"errors"

	"github.com/quantumsafe/envelope-go/internal/crypto"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrSessionNotFound is returned when a session id is unknown.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when a session exists but its TTL has
	// elapsed.
	ErrSessionExpired = errors.New("session has expired")

	// ErrStoreClosed is returned when operations are attempted on a
	// closed session store.
	ErrStoreClosed = errors.New("session store has been closed")

	// ErrKeyNotFound is returned when neither key file exists in a
	// keystore directory.
	ErrKeyNotFound = errors.New("key files not found")

	// ErrInvalidImportData is returned when an imported key record is
	// invalid.
	ErrInvalidImportData = errors.New("invalid key import data")

	// ErrPassphraseRequired is returned when loading a passphrase-protected
	// private key file without a passphrase.
	ErrPassphraseRequired = errors.New("passphrase required")

	// ErrWrongPassphrase is returned when a passphrase fails to unwrap a
	// protected private key file.
	ErrWrongPassphrase = errors.New("wrong passphrase")
)

// Cryptographic sentinels re-exported from the engine so callers can
// match them at the API surface without importing internal packages.
var (
	// ErrInvalidAlgorithm is returned for an unrecognized algorithm mode.
	ErrInvalidAlgorithm = crypto.ErrInvalidAlgorithm

	// ErrIntegrityFailure is returned when an AEAD tag does not verify.
	ErrIntegrityFailure = crypto.ErrIntegrityFailure

	// ErrHybridMismatch is returned when the two key-protection paths of
	// a hybrid envelope disagree.
	ErrHybridMismatch = crypto.ErrHybridMismatch

	// ErrUnwrapFailed is returned when classical key unwrapping fails.
	ErrUnwrapFailed = crypto.ErrUnwrapFailed

	// ErrFormat is returned when a container is malformed or its fields
	// contradict its mode.
	ErrFormat = crypto.ErrFormat
)
