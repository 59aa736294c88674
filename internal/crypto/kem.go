package crypto

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

// randReader is the random source used for key generation and
// encapsulation seeds. It defaults to nil (which uses crypto/rand) but
// can be overridden for testing.
var randReader io.Reader

// GenerateKEMKeyPair creates a new ML-KEM-768 keypair.
func GenerateKEMKeyPair() (*KEMKeyPair, error) {
	pub, priv, err := mlkem768.GenerateKeyPair(randReader)
	if err != nil {
		return nil, err
	}

	// MarshalBinary never fails for valid keys from GenerateKeyPair
	pubBytes, _ := pub.MarshalBinary()
	privBytes, _ := priv.MarshalBinary()

	return &KEMKeyPair{
		Public: pubBytes,
		Secret: privBytes,
	}, nil
}

// KEMPublicFromSecret extracts the public key from a secret key.
// In ML-KEM-768 the public key is embedded in the secret key.
func KEMPublicFromSecret(secret []byte) ([]byte, error) {
	if len(secret) != MLKEMSecretKeySize {
		return nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidSecretKey, len(secret), MLKEMSecretKeySize)
	}

	// Public key is embedded at offset 1152 in circl's ML-KEM-768 secret key format
	public := make([]byte, MLKEMPublicKeySize)
	copy(public, secret[PublicKeyOffset:PublicKeyOffset+MLKEMPublicKeySize])
	return public, nil
}

// Encapsulate performs producer-side key encapsulation against an
// ML-KEM-768 public key. It returns the KEM ciphertext to send along
// with the envelope and the shared secret to derive a KEK from.
func Encapsulate(public []byte) (kemCiphertext, sharedSecret []byte, err error) {
	if len(public) != MLKEMPublicKeySize {
		return nil, nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidPublicKey, len(public), MLKEMPublicKeySize)
	}

	// Unpack never fails for correctly-sized bytes
	var pubKey mlkem768.PublicKey
	pubKey.Unpack(public)

	kemCiphertext = make([]byte, MLKEMCiphertextSize)
	sharedSecret = make([]byte, MLKEMSharedKeySize)
	pubKey.EncapsulateTo(kemCiphertext, sharedSecret, nil)

	return kemCiphertext, sharedSecret, nil
}

// Decapsulate performs consumer-side decapsulation. The underlying
// primitive runs in constant time with respect to the secret key;
// implicit rejection means a corrupted ciphertext of the right size
// yields a wrong secret rather than an error here, and the failure
// surfaces later as an AEAD integrity failure.
func Decapsulate(secret, kemCiphertext []byte) ([]byte, error) {
	if len(secret) != MLKEMSecretKeySize {
		return nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidSecretKey, len(secret), MLKEMSecretKeySize)
	}
	if len(kemCiphertext) != MLKEMCiphertextSize {
		return nil, fmt.Errorf("%w: size %d, want %d", ErrInvalidCiphertext, len(kemCiphertext), MLKEMCiphertextSize)
	}

	var privKey mlkem768.PrivateKey
	if err := privKey.Unpack(secret); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSecretKey, err)
	}

	sharedSecret := make([]byte, MLKEMSharedKeySize)
	privKey.DecapsulateTo(sharedSecret, kemCiphertext)

	return sharedSecret, nil
}
