package crypto

import (
	"encoding/json"
	"fmt"
	"time"
)

// ContainerVersion is the current container format version.
const ContainerVersion = 1

// container is the wire form of an Envelope: a versioned JSON record with
// standard-base64 byte fields. Optional fields are present exactly when
// the mode requires them.
type container struct {
	V    int    `json:"v"`
	Mode string `json:"mode"`

	PayloadNonce string `json:"payload_nonce"`
	PayloadTag   string `json:"payload_tag"`
	Ciphertext   string `json:"ciphertext"`

	KEMCiphertext    string `json:"kem_ciphertext,omitempty"`
	ClassicalWrapped string `json:"classical_wrapped,omitempty"`

	KeyNonce   string `json:"key_nonce,omitempty"`
	KeyTag     string `json:"key_tag,omitempty"`
	WrappedKey string `json:"wrapped_symmetric_key,omitempty"`

	OriginalName string    `json:"original_name"`
	OriginalSize int64     `json:"original_size"`
	CreatedAt    time.Time `json:"created_at"`
}

// MarshalContainer serializes an Envelope into the versioned container
// format. The envelope's shape is validated first so a malformed value
// can never produce a syntactically valid container.
func MarshalContainer(env *Envelope) ([]byte, error) {
	if err := env.validateShape(); err != nil {
		return nil, err
	}

	c := container{
		V:    ContainerVersion,
		Mode: env.Mode.String(),

		PayloadNonce: ToBase64(env.PayloadNonce),
		PayloadTag:   ToBase64(env.PayloadTag),
		Ciphertext:   ToBase64(env.Ciphertext),

		OriginalName: env.Metadata.OriginalName,
		OriginalSize: env.Metadata.OriginalSize,
		CreatedAt:    env.Metadata.CreatedAt,
	}

	if env.Mode.UsesKEM() {
		c.KEMCiphertext = ToBase64(env.KEMCiphertext)
	}
	if env.Mode.UsesClassical() {
		c.ClassicalWrapped = ToBase64(env.ClassicalWrapped)
	}
	if env.Mode.WrapsKey() {
		c.KeyNonce = ToBase64(env.KeyNonce)
		c.KeyTag = ToBase64(env.KeyTag)
		c.WrappedKey = ToBase64(env.WrappedKey)
	}

	return json.Marshal(c)
}

// UnmarshalContainer parses and validates a serialized container. It
// rejects unknown versions and modes, bad base64, missing required
// fields, and any optional field whose presence contradicts the mode,
// so a hand-edited container cannot masquerade as a different mode.
func UnmarshalContainer(data []byte) (*Envelope, error) {
	var c container
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	if c.V != ContainerVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrFormat, c.V)
	}

	mode, err := ParseMode(c.Mode)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown mode %q", ErrFormat, c.Mode)
	}

	env := &Envelope{
		Mode: mode,
		Metadata: Metadata{
			OriginalName: c.OriginalName,
			OriginalSize: c.OriginalSize,
			CreatedAt:    c.CreatedAt,
		},
	}

	if env.PayloadNonce, err = requiredField("payload_nonce", c.PayloadNonce); err != nil {
		return nil, err
	}
	if env.PayloadTag, err = requiredField("payload_tag", c.PayloadTag); err != nil {
		return nil, err
	}
	// A zero-length plaintext produces a zero-length ciphertext, so the
	// ciphertext field may be an empty string.
	if env.Ciphertext, err = decodeField("ciphertext", c.Ciphertext); err != nil {
		return nil, err
	}

	if env.KEMCiphertext, err = modalField("kem_ciphertext", c.KEMCiphertext, mode.UsesKEM()); err != nil {
		return nil, err
	}
	if env.ClassicalWrapped, err = modalField("classical_wrapped", c.ClassicalWrapped, mode.UsesClassical()); err != nil {
		return nil, err
	}
	if env.KeyNonce, err = modalField("key_nonce", c.KeyNonce, mode.WrapsKey()); err != nil {
		return nil, err
	}
	if env.KeyTag, err = modalField("key_tag", c.KeyTag, mode.WrapsKey()); err != nil {
		return nil, err
	}
	if env.WrappedKey, err = modalField("wrapped_symmetric_key", c.WrappedKey, mode.WrapsKey()); err != nil {
		return nil, err
	}

	if err := env.validateShape(); err != nil {
		return nil, err
	}

	return env, nil
}

func decodeField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, nil
	}
	decoded, err := FromBase64(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not valid base64", ErrFormat, name)
	}
	return decoded, nil
}

func requiredField(name, value string) ([]byte, error) {
	if value == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrFormat, name)
	}
	return decodeField(name, value)
}

// modalField decodes a field that must be present iff the mode requires it.
func modalField(name, value string, required bool) ([]byte, error) {
	if required && value == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrFormat, name)
	}
	if !required && value != "" {
		return nil, fmt.Errorf("%w: unexpected %s", ErrFormat, name)
	}
	return decodeField(name, value)
}
