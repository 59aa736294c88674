package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"testing"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key, err := GenerateSymmetricKey()
	if err != nil {
		t.Fatalf("GenerateSymmetricKey() error = %v", err)
	}
	return key
}

func TestEncryptDecryptAEAD(t *testing.T) {
	key := testKey(t)

	for _, size := range []int{0, 1, 16, 4096} {
		plaintext := make([]byte, size)
		if _, err := rand.Read(plaintext); err != nil {
			t.Fatal(err)
		}

		nonce, tag, ciphertext, err := EncryptAEAD(key, plaintext)
		if err != nil {
			t.Fatalf("EncryptAEAD(%d bytes) error = %v", size, err)
		}

		if len(nonce) != AESNonceSize {
			t.Errorf("nonce size = %d, want %d", len(nonce), AESNonceSize)
		}
		if len(tag) != AESTagSize {
			t.Errorf("tag size = %d, want %d", len(tag), AESTagSize)
		}
		if len(ciphertext) != size {
			t.Errorf("ciphertext size = %d, want %d", len(ciphertext), size)
		}

		got, err := DecryptAEAD(key, nonce, tag, ciphertext)
		if err != nil {
			t.Fatalf("DecryptAEAD(%d bytes) error = %v", size, err)
		}
		if !bytes.Equal(got, plaintext) {
			t.Errorf("round trip mismatch for %d-byte plaintext", size)
		}
	}
}

func TestEncryptAEAD_NonceUniqueness(t *testing.T) {
	key := testKey(t)
	plaintext := []byte("same plaintext every time")

	n1, _, c1, err := EncryptAEAD(key, plaintext)
	if err != nil {
		t.Fatal(err)
	}
	n2, _, c2, err := EncryptAEAD(key, plaintext)
	if err != nil {
		t.Fatal(err)
	}

	if bytes.Equal(n1, n2) {
		t.Error("two encryptions produced the same nonce")
	}
	if bytes.Equal(c1, c2) {
		t.Error("two encryptions produced the same ciphertext")
	}
}

func TestDecryptAEAD_IntegrityFailure(t *testing.T) {
	key := testKey(t)
	nonce, tag, ciphertext, err := EncryptAEAD(key, []byte("authenticated data"))
	if err != nil {
		t.Fatal(err)
	}

	flip := func(b []byte, i int) []byte {
		out := append([]byte(nil), b...)
		out[i] ^= 0x01
		return out
	}

	t.Run("ciphertext", func(t *testing.T) {
		for i := range ciphertext {
			if _, err := DecryptAEAD(key, nonce, tag, flip(ciphertext, i)); !errors.Is(err, ErrIntegrityFailure) {
				t.Fatalf("byte %d: error = %v, want ErrIntegrityFailure", i, err)
			}
		}
	})

	t.Run("tag", func(t *testing.T) {
		for i := range tag {
			if _, err := DecryptAEAD(key, nonce, flip(tag, i), ciphertext); !errors.Is(err, ErrIntegrityFailure) {
				t.Fatalf("byte %d: error = %v, want ErrIntegrityFailure", i, err)
			}
		}
	})

	t.Run("nonce", func(t *testing.T) {
		if _, err := DecryptAEAD(key, flip(nonce, 0), tag, ciphertext); !errors.Is(err, ErrIntegrityFailure) {
			t.Errorf("error = %v, want ErrIntegrityFailure", err)
		}
	})

	t.Run("wrong key", func(t *testing.T) {
		if _, err := DecryptAEAD(testKey(t), nonce, tag, ciphertext); !errors.Is(err, ErrIntegrityFailure) {
			t.Errorf("error = %v, want ErrIntegrityFailure", err)
		}
	})
}

func TestAEAD_InvalidSizes(t *testing.T) {
	if _, _, _, err := EncryptAEAD(make([]byte, 16), []byte("x")); !errors.Is(err, ErrInvalidKeySize) {
		t.Errorf("short key error = %v, want ErrInvalidKeySize", err)
	}

	key := testKey(t)
	if _, err := DecryptAEAD(key, make([]byte, 8), make([]byte, AESTagSize), nil); !errors.Is(err, ErrInvalidNonceSize) {
		t.Errorf("short nonce error = %v, want ErrInvalidNonceSize", err)
	}
	if _, err := DecryptAEAD(key, make([]byte, AESNonceSize), make([]byte, 4), nil); !errors.Is(err, ErrIntegrityFailure) {
		t.Errorf("short tag error = %v, want ErrIntegrityFailure", err)
	}
}
