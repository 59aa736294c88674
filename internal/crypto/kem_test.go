package crypto

import (
	"bytes"
	"errors"
	"testing"
)

func TestGenerateKEMKeyPair(t *testing.T) {
	kp, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}

	if len(kp.Public) != MLKEMPublicKeySize {
		t.Errorf("Public size = %d, want %d", len(kp.Public), MLKEMPublicKeySize)
	}
	if len(kp.Secret) != MLKEMSecretKeySize {
		t.Errorf("Secret size = %d, want %d", len(kp.Secret), MLKEMSecretKeySize)
	}
}

func TestGenerateKEMKeyPair_Uniqueness(t *testing.T) {
	kp1, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}
	kp2, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}

	if bytes.Equal(kp1.Public, kp2.Public) {
		t.Error("generated keypairs have identical public keys")
	}
	if bytes.Equal(kp1.Secret, kp2.Secret) {
		t.Error("generated keypairs have identical secret keys")
	}
}

func TestEncapsulateDecapsulate(t *testing.T) {
	kp, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}

	ct, ssProducer, err := Encapsulate(kp.Public)
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}

	if len(ct) != MLKEMCiphertextSize {
		t.Errorf("ciphertext size = %d, want %d", len(ct), MLKEMCiphertextSize)
	}
	if len(ssProducer) != MLKEMSharedKeySize {
		t.Errorf("shared secret size = %d, want %d", len(ssProducer), MLKEMSharedKeySize)
	}

	ssConsumer, err := Decapsulate(kp.Secret, ct)
	if err != nil {
		t.Fatalf("Decapsulate() error = %v", err)
	}

	if !bytes.Equal(ssProducer, ssConsumer) {
		t.Error("producer and consumer shared secrets differ")
	}
}

func TestEncapsulate_InvalidPublicKey(t *testing.T) {
	for _, size := range []int{0, 1, MLKEMPublicKeySize - 1, MLKEMPublicKeySize + 1} {
		_, _, err := Encapsulate(make([]byte, size))
		if !errors.Is(err, ErrInvalidPublicKey) {
			t.Errorf("Encapsulate(%d bytes) error = %v, want ErrInvalidPublicKey", size, err)
		}
	}
}

func TestDecapsulate_InvalidInputs(t *testing.T) {
	kp, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}
	ct, _, err := Encapsulate(kp.Public)
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}

	if _, err := Decapsulate(make([]byte, MLKEMSecretKeySize-1), ct); !errors.Is(err, ErrInvalidSecretKey) {
		t.Errorf("short secret key error = %v, want ErrInvalidSecretKey", err)
	}
	if _, err := Decapsulate(kp.Secret, ct[:MLKEMCiphertextSize-1]); !errors.Is(err, ErrInvalidCiphertext) {
		t.Errorf("short ciphertext error = %v, want ErrInvalidCiphertext", err)
	}
}

func TestDecapsulate_ImplicitRejection(t *testing.T) {
	kp, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}

	ct, ss, err := Encapsulate(kp.Public)
	if err != nil {
		t.Fatalf("Encapsulate() error = %v", err)
	}

	// Corrupting a right-sized ciphertext yields a different secret, not
	// an error: ML-KEM rejects implicitly.
	corrupted := append([]byte(nil), ct...)
	corrupted[0] ^= 0x01
	got, err := Decapsulate(kp.Secret, corrupted)
	if err != nil {
		t.Fatalf("Decapsulate(corrupted) error = %v", err)
	}
	if bytes.Equal(got, ss) {
		t.Error("corrupted ciphertext decapsulated to the original secret")
	}
}

func TestKEMPublicFromSecret(t *testing.T) {
	kp, err := GenerateKEMKeyPair()
	if err != nil {
		t.Fatalf("GenerateKEMKeyPair() error = %v", err)
	}

	pub, err := KEMPublicFromSecret(kp.Secret)
	if err != nil {
		t.Fatalf("KEMPublicFromSecret() error = %v", err)
	}
	if !bytes.Equal(pub, kp.Public) {
		t.Error("extracted public key does not match generated public key")
	}

	if _, err := KEMPublicFromSecret(kp.Secret[:100]); !errors.Is(err, ErrInvalidSecretKey) {
		t.Errorf("short secret error = %v, want ErrInvalidSecretKey", err)
	}
}
