package crypto

const (
	// HKDFContext is the context string used in HKDF key derivation
	// for domain separation.
	HKDFContext = "quantumsafe:envelope:v1"

	// MLKEMPublicKeySize is the size of an ML-KEM-768 public key in bytes.
	MLKEMPublicKeySize = 1184
	// MLKEMSecretKeySize is the size of an ML-KEM-768 secret key in bytes.
	MLKEMSecretKeySize = 2400
	// MLKEMCiphertextSize is the size of an ML-KEM-768 ciphertext in bytes.
	MLKEMCiphertextSize = 1088
	// MLKEMSharedKeySize is the size of the shared secret from ML-KEM-768 in bytes.
	MLKEMSharedKeySize = 32

	// RSAKeyBits is the modulus size of generated RSA keypairs.
	RSAKeyBits = 2048
	// RSAWrappedSize is the size of an RSA-2048 OAEP ciphertext in bytes.
	RSAWrappedSize = RSAKeyBits / 8

	// AESKeySize is the size of an AES-256 key in bytes.
	AESKeySize = 32
	// AESNonceSize is the size of an AES-GCM nonce in bytes.
	AESNonceSize = 12
	// AESTagSize is the size of an AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// HybridCheckSize is the number of leading symmetric-key bytes wrapped
	// by the classical path in hybrid mode and cross-checked on decryption.
	HybridCheckSize = 16

	// PublicKeyOffset is the byte offset where the public key is embedded
	// within an ML-KEM-768 secret key.
	PublicKeyOffset = 1152
)

// Key derivation labels, one per mode that derives a KEK. Distinct labels
// keep a shared secret from ever producing the same KEK across modes.
const (
	LabelKEM    = "kem"
	LabelHybrid = "hybrid"
)

// AlgsCiphersuite is the canonical string representation of the algorithm suite.
var AlgsCiphersuite = "ML-KEM-768:RSA-2048-OAEP:AES-256-GCM:HKDF-SHA-512"
