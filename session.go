package quantumsafe

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/quantumsafe/envelope-go/internal/crypto"
)

// Mode selects which asymmetric mechanisms protect the symmetric key.
type Mode = crypto.Mode

// Algorithm mode constants.
const (
	// ModeKEM protects the symmetric key with ML-KEM-768 only.
	ModeKEM = crypto.ModeKEM
	// ModeClassical protects the symmetric key with RSA-OAEP only.
	ModeClassical = crypto.ModeClassical
	// ModeHybrid protects the symmetric key with both mechanisms.
	ModeHybrid = crypto.ModeHybrid
)

// ParseMode validates a mode string from external input.
func ParseMode(s string) (Mode, error) { return crypto.ParseMode(s) }

// Envelope is one encrypted payload with everything needed to recover it.
type Envelope = crypto.Envelope

// Metadata describes the plaintext an envelope was produced from.
type Metadata = crypto.Metadata

// MarshalContainer serializes an envelope into the versioned JSON
// container format.
func MarshalContainer(env *Envelope) ([]byte, error) {
	return crypto.MarshalContainer(env)
}

// UnmarshalContainer parses and validates a JSON container. Containers
// with an unknown version, a malformed field, or key material that does
// not match the declared mode are rejected with [ErrFormat].
func UnmarshalContainer(data []byte) (*Envelope, error) {
	return crypto.UnmarshalContainer(data)
}

// SessionKeys is the full key material for one session.
type SessionKeys = crypto.SessionKeys

// Session holds immutable key material for one encryption session.
// Sessions are created by a [SessionStore] and are safe for concurrent
// use: the key material never changes after creation.
type Session struct {
	id        string
	keys      *crypto.SessionKeys
	createdAt time.Time
	expiresAt time.Time // zero means no expiry
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Mode returns the session's algorithm mode.
func (s *Session) Mode() Mode { return s.keys.Mode }

// CreatedAt returns when the session was created.
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// PublicKeys returns the session's key material with all secret fields
// stripped. The result is safe to hand to an encrypting peer.
func (s *Session) PublicKeys() *SessionKeys { return s.keys.Public() }

// Encrypt produces an envelope for plaintext under this session's keys.
func (s *Session) Encrypt(plaintext []byte) (*Envelope, error) {
	return crypto.Encrypt(plaintext, s.keys)
}

// Decrypt recovers the plaintext of an envelope produced under this
// session's keys.
func (s *Session) Decrypt(env *Envelope) ([]byte, error) {
	return crypto.Decrypt(env, s.keys)
}

func (s *Session) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}

// SessionStore maps session identifiers to key material. Writes (session
// creation and deletion) are serialized; reads run concurrently.
//
// A store owns its sessions' lifecycle: key material exists only in
// memory and is dropped when the session is deleted, expires, or the
// store is closed. Use [SessionStore.Export] to persist a session.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	closed   bool

	// now is the clock, overridable in tests.
	now func() time.Time
}

// NewSessionStore creates an empty session store.
func NewSessionStore(opts ...StoreOption) *SessionStore {
	cfg := storeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &SessionStore{
		sessions: make(map[string]*Session),
		ttl:      cfg.ttl,
		now:      time.Now,
	}
}

// Create generates fresh key material for the given mode and registers
// it under a new session id.
func (st *SessionStore) Create(mode Mode) (*Session, error) {
	keys, err := crypto.GenerateSessionKeys(mode)
	if err != nil {
		return nil, err
	}
	return st.add(keys)
}

func (st *SessionStore) add(keys *crypto.SessionKeys) (*Session, error) {
	now := st.now()
	session := &Session{
		id:        uuid.NewString(),
		keys:      keys,
		createdAt: now,
	}
	if st.ttl > 0 {
		session.expiresAt = now.Add(st.ttl)
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if st.closed {
		return nil, ErrStoreClosed
	}
	st.sessions[session.id] = session
	return session, nil
}

// Get looks up a session by id. Expired sessions are treated as deleted.
func (st *SessionStore) Get(id string) (*Session, error) {
	st.mu.RLock()
	session, ok := st.sessions[id]
	closed := st.closed
	st.mu.RUnlock()

	if closed {
		return nil, ErrStoreClosed
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if session.expired(st.now()) {
		st.mu.Lock()
		delete(st.sessions, id)
		st.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionExpired, id)
	}
	return session, nil
}

// Encrypt encrypts plaintext under the session with the given id.
func (st *SessionStore) Encrypt(id string, plaintext []byte) (*Envelope, error) {
	session, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return session.Encrypt(plaintext)
}

// Decrypt decrypts an envelope under the session with the given id.
func (st *SessionStore) Decrypt(id string, env *Envelope) ([]byte, error) {
	session, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return session.Decrypt(env)
}

// Delete removes a session. Deleting an unknown id is not an error.
func (st *SessionStore) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len reports the number of live (non-expired) sessions.
func (st *SessionStore) Len() int {
	now := st.now()
	st.mu.RLock()
	defer st.mu.RUnlock()

	n := 0
	for _, s := range st.sessions {
		if !s.expired(now) {
			n++
		}
	}
	return n
}

// Close drops all sessions and rejects further operations.
func (st *SessionStore) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions = make(map[string]*Session)
	st.closed = true
}
