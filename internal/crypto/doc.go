// Package crypto implements the hybrid envelope encryption engine.
// It combines post-quantum key encapsulation, classical public-key
// wrapping, and authenticated symmetric encryption into a single
// self-describing container format.
//
// # Algorithm Suite
//
// The package uses the following cryptographic algorithms:
//
//   - ML-KEM-768 (NIST FIPS 203): Post-quantum key encapsulation mechanism
//     for establishing shared secrets. Provides 192-bit classical and quantum
//     security levels.
//
//   - RSA-2048 with OAEP-SHA-256: Classical public-key wrapping for the
//     symmetric key (or the first half of it in hybrid mode). Never used
//     for bulk data.
//
//   - AES-256-GCM: Authenticated encryption with associated data (AEAD)
//     for encrypting payloads and for wrapping the symmetric key under a
//     derived key-encryption key.
//
//   - HKDF-SHA-512 (RFC 5869): Key derivation function for deriving
//     key-encryption keys from KEM shared secrets with domain separation.
//
// # Algorithm Modes
//
// Every envelope is produced under one of three modes:
//
//   - ModeKEM: the symmetric key is wrapped under a KEK derived from an
//     ML-KEM-768 shared secret.
//
//   - ModeClassical: the symmetric key is wrapped directly with RSA-OAEP.
//
//   - ModeHybrid: both mechanisms protect the key. RSA-OAEP wraps the
//     first 16 bytes of the symmetric key while the KEM-derived KEK wraps
//     the full key. On decryption the halves are cross-checked; a mismatch
//     rejects the envelope.
//
// # Critical Security Notes
//
// AES-GCM nonces MUST be unique for each encryption with the same key. Nonce
// reuse completely breaks the security of AES-GCM, allowing attackers to
// recover the authentication key and forge messages. [EncryptAEAD] draws a
// fresh random nonce on every call; the symmetric key itself is fresh per
// envelope, so nonce collisions are not a practical concern.
//
// Decryption fails closed: no plaintext is released before the GCM tag
// verifies, the key-wrap layer unwraps, and (in hybrid mode) the
// cross-check passes.
//
// # Key Management
//
// Use [GenerateSessionKeys] to create key material for a mode. Secret and
// private keys should never be logged, transmitted in plaintext, or stored
// in version control.
package crypto
