package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// minRSAKeyBits is the minimum accepted RSA modulus size in bits; a sane
// floor to ensure a weak key can't accidentally be used.
const minRSAKeyBits = 2048

// GenerateClassicalKeyPair creates a new RSA-2048 keypair, returned as
// DER bytes (PKIX public, PKCS#1 private).
func GenerateClassicalKeyPair() (*ClassicalKeyPair, error) {
	key, err := rsa.GenerateKey(rand.Reader, RSAKeyBits)
	if err != nil {
		return nil, fmt.Errorf("generate RSA key: %w", err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal RSA public key: %w", err)
	}

	return &ClassicalKeyPair{
		Public:  publicDER,
		Private: x509.MarshalPKCS1PrivateKey(key),
	}, nil
}

// parseClassicalPublic parses a PKIX DER RSA public key and enforces the
// minimum modulus size.
func parseClassicalPublic(publicDER []byte) (*rsa.PublicKey, error) {
	pub, err := x509.ParsePKIXPublicKey(publicDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}

	rsaKey, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an RSA key, got %T", ErrInvalidPublicKey, pub)
	}

	if bits := rsaKey.N.BitLen(); bits < minRSAKeyBits {
		return nil, fmt.Errorf("%w: %d-bit RSA key, want at least %d", ErrInvalidPublicKey, bits, minRSAKeyBits)
	}

	return rsaKey, nil
}

// ClassicalPublicFromPrivate derives the PKIX public key encoding from a
// PKCS#1 private key. RSA embeds the public key in the private key.
func ClassicalPublicFromPrivate(privateDER []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PrivateKey(privateDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	publicDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("marshal RSA public key: %w", err)
	}
	return publicDER, nil
}

// WrapClassical encrypts a small payload (a symmetric key or half of one)
// with RSA-OAEP-SHA256. It never wraps bulk data: payloads above the OAEP
// block limit are rejected with ErrPayloadTooLarge.
func WrapClassical(publicDER, payload []byte) ([]byte, error) {
	rsaKey, err := parseClassicalPublic(publicDER)
	if err != nil {
		return nil, err
	}

	maxPayload := rsaKey.Size() - 2*sha256.Size - 2
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d bytes, limit %d", ErrPayloadTooLarge, len(payload), maxPayload)
	}

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, rsaKey, payload, nil)
	if err != nil {
		return nil, fmt.Errorf("RSA-OAEP encrypt: %w", err)
	}

	return wrapped, nil
}

// UnwrapClassical decrypts an RSA-OAEP-SHA256 wrapped payload. All
// failures collapse into ErrUnwrapFailed with no distinguishing detail;
// combined with OAEP's constant-time padding check this keeps padding
// failures indistinguishable from any other malformed input.
func UnwrapClassical(privateDER, wrapped []byte) ([]byte, error) {
	key, err := x509.ParsePKCS1PrivateKey(privateDER)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}

	payload, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, key, wrapped, nil)
	if err != nil {
		return nil, ErrUnwrapFailed
	}

	return payload, nil
}
