// Package quantumsafe provides hybrid envelope encryption with
// post-quantum key establishment.
//
// Data is encrypted with a fresh AES-256-GCM key per message; that key is
// protected by ML-KEM-768, RSA-2048-OAEP, or both combined, depending on
// the selected algorithm mode. The result is serialized into a versioned,
// self-describing container.
//
// Basic usage:
//
//	store := quantumsafe.NewSessionStore()
//	defer store.Close()
//
//	session, err := store.Create(quantumsafe.ModeHybrid)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	envelope, err := session.Encrypt([]byte("secret payload"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	plaintext, err := session.Decrypt(envelope)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For file workloads, [FileEncryptor] reads, encrypts, and writes
// container files, including batch directory processing. [KeyStore]
// persists key material as a public/private file pair.
package quantumsafe
