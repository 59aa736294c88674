package quantumsafe

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/quantumsafe/envelope-go/internal/crypto"
)

// Key file names within a keystore directory.
const (
	PublicKeyFile  = "public_key.json"
	PrivateKeyFile = "private_key.json"
)

// Argon2id parameters for passphrase-protected private key files.
const (
	argonTime    = 3
	argonMemory  = 64 * 1024 // KiB
	argonThreads = 4
	argonSalt    = 16
)

// KeyStore persists session key material as a public/private file pair
// in a directory. The public file is world-readable; the private file is
// created with owner-only permissions and can additionally be protected
// with a passphrase.
type KeyStore struct {
	dir        string
	passphrase []byte
}

// NewKeyStore creates a key store rooted at dir.
func NewKeyStore(dir string, opts ...KeyStoreOption) *KeyStore {
	cfg := keyStoreConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &KeyStore{dir: dir, passphrase: cfg.passphrase}
}

// protectedKeyFile is the on-disk form of a passphrase-wrapped private
// key record.
type protectedKeyFile struct {
	Version   int    `json:"version"`
	Protected bool   `json:"protected"`
	KDF       string `json:"kdf"`
	Time      uint32 `json:"time"`
	Memory    uint32 `json:"memory"`
	Threads   uint8  `json:"threads"`
	Salt      string `json:"salt"`

	Nonce      string `json:"nonce"`
	Tag        string `json:"tag"`
	Ciphertext string `json:"ciphertext"`
}

// Save writes the record's public half to public_key.json and its
// private half to private_key.json. The private file is created with
// 0600 permissions; with a passphrase configured its contents are
// additionally wrapped under an Argon2id-derived key.
func (k *KeyStore) Save(record *KeyRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(k.dir, 0o755); err != nil {
		return fmt.Errorf("create keystore dir: %w", err)
	}

	publicJSON, err := json.MarshalIndent(record.Public, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal public keys: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(k.dir, PublicKeyFile), publicJSON, 0o644); err != nil {
		return fmt.Errorf("write public key file: %w", err)
	}

	privateJSON, err := json.MarshalIndent(record.Private, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal private keys: %w", err)
	}
	if len(k.passphrase) > 0 {
		if privateJSON, err = k.wrapPrivate(privateJSON); err != nil {
			return err
		}
	}
	if err := writeFileAtomic(filepath.Join(k.dir, PrivateKeyFile), privateJSON, 0o600); err != nil {
		return fmt.Errorf("write private key file: %w", err)
	}

	return nil
}

func (k *KeyStore) wrapPrivate(plaintext []byte) ([]byte, error) {
	salt := make([]byte, argonSalt)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key := argon2.IDKey(k.passphrase, salt, argonTime, argonMemory, argonThreads, crypto.AESKeySize)
	nonce, tag, ciphertext, err := crypto.EncryptAEAD(key, plaintext)
	if err != nil {
		return nil, fmt.Errorf("wrap private keys: %w", err)
	}

	return json.MarshalIndent(protectedKeyFile{
		Version:    KeyRecordVersion,
		Protected:  true,
		KDF:        "argon2id",
		Time:       argonTime,
		Memory:     argonMemory,
		Threads:    argonThreads,
		Salt:       crypto.ToBase64URL(salt),
		Nonce:      crypto.ToBase64URL(nonce),
		Tag:        crypto.ToBase64URL(tag),
		Ciphertext: crypto.ToBase64URL(ciphertext),
	}, "", "  ")
}

func (k *KeyStore) unwrapPrivate(pf *protectedKeyFile) ([]byte, error) {
	if len(k.passphrase) == 0 {
		return nil, ErrPassphraseRequired
	}
	if pf.KDF != "argon2id" {
		return nil, fmt.Errorf("%w: unknown kdf %q", ErrInvalidImportData, pf.KDF)
	}

	salt, err := crypto.FromBase64URL(pf.Salt)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid salt encoding", ErrInvalidImportData)
	}
	nonce, err := crypto.FromBase64URL(pf.Nonce)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid nonce encoding", ErrInvalidImportData)
	}
	tag, err := crypto.FromBase64URL(pf.Tag)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid tag encoding", ErrInvalidImportData)
	}
	ciphertext, err := crypto.FromBase64URL(pf.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid ciphertext encoding", ErrInvalidImportData)
	}

	key := argon2.IDKey(k.passphrase, salt, pf.Time, pf.Memory, pf.Threads, crypto.AESKeySize)
	plaintext, err := crypto.DecryptAEAD(key, nonce, tag, ciphertext)
	if err != nil {
		return nil, ErrWrongPassphrase
	}
	return plaintext, nil
}

// Load reads and merges the key file pair. Either file may be absent:
// a public-only load yields encrypt-only material, and a private-only
// load reconstructs the public half from the secrets. When neither file
// exists, Load returns ErrKeyNotFound. The mode/field invariant is
// re-validated, never trusted.
func (k *KeyStore) Load() (*KeyRecord, error) {
	record := &KeyRecord{}

	publicJSON, publicErr := os.ReadFile(filepath.Join(k.dir, PublicKeyFile))
	privateJSON, privateErr := os.ReadFile(filepath.Join(k.dir, PrivateKeyFile))

	if errors.Is(publicErr, fs.ErrNotExist) && errors.Is(privateErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: no key files in %s", ErrKeyNotFound, k.dir)
	}
	if publicErr != nil && !errors.Is(publicErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("read public key file: %w", publicErr)
	}
	if privateErr != nil && !errors.Is(privateErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("read private key file: %w", privateErr)
	}

	if publicErr == nil {
		if err := json.Unmarshal(publicJSON, &record.Public); err != nil {
			return nil, fmt.Errorf("%w: malformed public key file", ErrInvalidImportData)
		}
	}

	if privateErr == nil {
		var probe protectedKeyFile
		if err := json.Unmarshal(privateJSON, &probe); err != nil {
			return nil, fmt.Errorf("%w: malformed private key file", ErrInvalidImportData)
		}
		if probe.Protected {
			unwrapped, err := k.unwrapPrivate(&probe)
			if err != nil {
				return nil, err
			}
			privateJSON = unwrapped
		}
		if err := json.Unmarshal(privateJSON, &record.Private); err != nil {
			return nil, fmt.Errorf("%w: malformed private key record", ErrInvalidImportData)
		}
	}

	if publicErr != nil {
		if err := reconstructPublic(record); err != nil {
			return nil, err
		}
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}
	return record, nil
}

// reconstructPublic fills the public half of a record from its private
// half. Both ML-KEM-768 and RSA embed the public key in the secret key.
func reconstructPublic(record *KeyRecord) error {
	record.Public = PublicKeyRecord{
		Version:    KeyRecordVersion,
		Algorithm:  record.Private.Algorithm,
		ExportedAt: record.Private.ExportedAt,
	}

	if record.Private.KEMSecret != "" {
		secret, err := crypto.FromBase64URL(record.Private.KEMSecret)
		if err != nil {
			return fmt.Errorf("%w: invalid kem_secret encoding", ErrInvalidImportData)
		}
		pub, err := crypto.KEMPublicFromSecret(secret)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImportData, err)
		}
		record.Public.KEMPublic = crypto.ToBase64URL(pub)
	}

	if record.Private.ClassicalPrivate != "" {
		private, err := crypto.FromBase64URL(record.Private.ClassicalPrivate)
		if err != nil {
			return fmt.Errorf("%w: invalid classical_private encoding", ErrInvalidImportData)
		}
		pub, err := crypto.ClassicalPublicFromPrivate(private)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidImportData, err)
		}
		record.Public.ClassicalPublic = crypto.ToBase64URL(pub)
	}

	return nil
}
