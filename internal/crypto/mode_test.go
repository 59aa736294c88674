package crypto

import (
	"errors"
	"testing"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		input string
		want  Mode
	}{
		{"kem", ModeKEM},
		{"classical", ModeClassical},
		{"hybrid", ModeHybrid},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if err != nil {
				t.Fatalf("ParseMode(%q) error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMode(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMode_Invalid(t *testing.T) {
	for _, input := range []string{"", "rsa", "kyber768", "KEM", "Hybrid"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseMode(input)
			if !errors.Is(err, ErrInvalidAlgorithm) {
				t.Errorf("ParseMode(%q) error = %v, want ErrInvalidAlgorithm", input, err)
			}
		})
	}
}

func TestMode_Predicates(t *testing.T) {
	tests := []struct {
		mode          Mode
		usesKEM       bool
		usesClassical bool
		wrapsKey      bool
		label         string
	}{
		{ModeKEM, true, false, true, LabelKEM},
		{ModeClassical, false, true, false, LabelKEM},
		{ModeHybrid, true, true, true, LabelHybrid},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := tt.mode.UsesKEM(); got != tt.usesKEM {
				t.Errorf("UsesKEM() = %t, want %t", got, tt.usesKEM)
			}
			if got := tt.mode.UsesClassical(); got != tt.usesClassical {
				t.Errorf("UsesClassical() = %t, want %t", got, tt.usesClassical)
			}
			if got := tt.mode.WrapsKey(); got != tt.wrapsKey {
				t.Errorf("WrapsKey() = %t, want %t", got, tt.wrapsKey)
			}
			if got := tt.mode.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}
}
