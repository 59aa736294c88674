package crypto

import (
	"errors"
	"testing"
)

func TestGenerateSessionKeys(t *testing.T) {
	tests := []struct {
		mode          Mode
		wantKEM       bool
		wantClassical bool
	}{
		{ModeKEM, true, false},
		{ModeClassical, false, true},
		{ModeHybrid, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			keys, err := GenerateSessionKeys(tt.mode)
			if err != nil {
				t.Fatalf("GenerateSessionKeys(%s) error = %v", tt.mode, err)
			}

			if (keys.KEM != nil) != tt.wantKEM {
				t.Errorf("KEM present = %t, want %t", keys.KEM != nil, tt.wantKEM)
			}
			if (keys.Classical != nil) != tt.wantClassical {
				t.Errorf("Classical present = %t, want %t", keys.Classical != nil, tt.wantClassical)
			}
			if err := keys.Validate(); err != nil {
				t.Errorf("Validate() error = %v", err)
			}
			if !keys.CanDecrypt() {
				t.Error("CanDecrypt() = false for freshly generated keys")
			}
		})
	}
}

func TestGenerateSessionKeys_InvalidMode(t *testing.T) {
	if _, err := GenerateSessionKeys(Mode("rot13")); !errors.Is(err, ErrInvalidAlgorithm) {
		t.Errorf("error = %v, want ErrInvalidAlgorithm", err)
	}
}

func TestSessionKeys_Validate_Mismatch(t *testing.T) {
	keys, err := GenerateSessionKeys(ModeHybrid)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("missing KEM for hybrid", func(t *testing.T) {
		bad := &SessionKeys{Mode: ModeHybrid, Classical: keys.Classical}
		if err := bad.Validate(); !errors.Is(err, ErrKeysIncomplete) {
			t.Errorf("error = %v, want ErrKeysIncomplete", err)
		}
	})

	t.Run("unexpected classical for kem", func(t *testing.T) {
		bad := &SessionKeys{Mode: ModeKEM, KEM: keys.KEM, Classical: keys.Classical}
		if err := bad.Validate(); !errors.Is(err, ErrKeysIncomplete) {
			t.Errorf("error = %v, want ErrKeysIncomplete", err)
		}
	})

	t.Run("wrong KEM public size", func(t *testing.T) {
		bad := &SessionKeys{Mode: ModeKEM, KEM: &KEMKeyPair{Public: make([]byte, 10)}}
		if err := bad.Validate(); !errors.Is(err, ErrInvalidPublicKey) {
			t.Errorf("error = %v, want ErrInvalidPublicKey", err)
		}
	})
}

func TestSessionKeys_Public(t *testing.T) {
	for _, mode := range []Mode{ModeKEM, ModeClassical, ModeHybrid} {
		t.Run(mode.String(), func(t *testing.T) {
			keys, err := GenerateSessionKeys(mode)
			if err != nil {
				t.Fatal(err)
			}

			pub := keys.Public()
			if pub.Mode != mode {
				t.Errorf("Public() mode = %s, want %s", pub.Mode, mode)
			}
			if err := pub.Validate(); err != nil {
				t.Errorf("Public().Validate() error = %v", err)
			}
			if pub.KEM != nil && len(pub.KEM.Secret) != 0 {
				t.Error("Public() leaked KEM secret key")
			}
			if pub.Classical != nil && len(pub.Classical.Private) != 0 {
				t.Error("Public() leaked classical private key")
			}
			if pub.CanDecrypt() {
				t.Error("Public() key material claims to be able to decrypt")
			}
		})
	}
}
