package crypto

import "errors"

var (
	// ErrInvalidAlgorithm is returned when an unrecognized algorithm mode
	// is requested or found in a container.
	ErrInvalidAlgorithm = errors.New("invalid algorithm mode")

	// ErrInvalidPublicKey is returned when asymmetric public key material
	// is malformed or has the wrong size.
	ErrInvalidPublicKey = errors.New("invalid public key")

	// ErrInvalidSecretKey is returned when the KEM secret key is malformed
	// or has the wrong size.
	ErrInvalidSecretKey = errors.New("invalid secret key")

	// ErrInvalidPrivateKey is returned when the classical private key is
	// malformed.
	ErrInvalidPrivateKey = errors.New("invalid private key")

	// ErrInvalidCiphertext is returned when the KEM ciphertext is malformed
	// or has the wrong size.
	ErrInvalidCiphertext = errors.New("invalid KEM ciphertext")

	// ErrPayloadTooLarge is returned when a classical wrap payload exceeds
	// the OAEP block limit.
	ErrPayloadTooLarge = errors.New("payload too large for classical wrap")

	// ErrUnwrapFailed is returned when classical unwrapping fails. The error
	// carries no detail about why, so padding failures are indistinguishable
	// from other failures.
	ErrUnwrapFailed = errors.New("classical unwrap failed")

	// ErrIntegrityFailure is returned when an AEAD authentication tag does
	// not verify, for both the payload and the key-wrap layer.
	ErrIntegrityFailure = errors.New("integrity check failed")

	// ErrHybridMismatch is returned when the classically wrapped key half
	// disagrees with the KEM-recovered key in hybrid mode.
	ErrHybridMismatch = errors.New("hybrid consistency check failed")

	// ErrInvalidKeySize is returned when the AES key size is invalid.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidNonceSize is returned when the nonce size is invalid.
	ErrInvalidNonceSize = errors.New("invalid nonce size")

	// ErrFormat is returned when a container is malformed: unknown mode,
	// missing or unexpected fields, bad encoding, or wrong version.
	ErrFormat = errors.New("invalid container format")

	// ErrKeysIncomplete is returned when session key material does not
	// satisfy the mode's field-presence invariant.
	ErrKeysIncomplete = errors.New("key material inconsistent with mode")
)
