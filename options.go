package quantumsafe

import (
	"time"

	"github.com/sirupsen/logrus"
)

// storeConfig holds configuration for a session store.
type storeConfig struct {
	ttl time.Duration
}

// StoreOption configures a [SessionStore].
type StoreOption func(*storeConfig)

// WithSessionTTL sets a time-to-live for sessions. Sessions past their
// TTL behave as deleted. Zero (the default) means sessions never expire.
func WithSessionTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.ttl = ttl
	}
}

// fileConfig holds configuration for a file encryptor.
type fileConfig struct {
	logger logrus.FieldLogger
}

// FileOption configures a [FileEncryptor].
type FileOption func(*fileConfig)

// WithLogger sets the logger used for per-file progress and batch
// summaries. The default logger discards nothing and writes to stderr.
func WithLogger(logger logrus.FieldLogger) FileOption {
	return func(c *fileConfig) {
		c.logger = logger
	}
}

// keyStoreConfig holds configuration for a key store.
type keyStoreConfig struct {
	passphrase []byte
}

// KeyStoreOption configures a [KeyStore].
type KeyStoreOption func(*keyStoreConfig)

// WithPassphrase protects the private key file with a passphrase-derived
// key (Argon2id + AES-256-GCM) instead of relying on file permissions
// alone. The same passphrase is required to load.
func WithPassphrase(passphrase []byte) KeyStoreOption {
	return func(c *keyStoreConfig) {
		c.passphrase = passphrase
	}
}
