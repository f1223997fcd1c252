package utils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"laundromat-backend/models"
)

// Session is one authenticated login.
type Session struct {
	ID        string
	User      string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// SessionStore keeps live sessions in memory. A session exists from login
// until logout or expiry.
type SessionStore struct {
	mu       sync.RWMutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      time.Now,
	}
}

// Create starts a session for user.
func (s *SessionStore) Create(user string) Session {
	now := s.now()
	session := Session{
		ID:        uuid.NewString(),
		User:      user,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()
	return session
}

// Get returns a live session or models.ErrSessionNotFound.
func (s *SessionStore) Get(id string) (Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || !s.now().Before(session.ExpiresAt) {
		return Session{}, models.ErrSessionNotFound
	}
	return session, nil
}

// Delete ends a session. Unknown ids are ignored.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *SessionStore) PurgeExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if !now.Before(session.ExpiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SessionManager ties the credential check, the session store and the signed cookie together.
type SessionManager struct {
	credentials CredentialStore
	store       *SessionStore
	secret      []byte
	cookieName  string
	secure      bool
	ttl         time.Duration
}

// SessionOptions configures a SessionManager.
type SessionOptions struct {
	Secret     string
	CookieName string
	TTL        time.Duration
	// Secure marks the cookie HTTPS-only.
	Secure bool
}

func NewSessionManager(credentials CredentialStore, store *SessionStore, opts SessionOptions) *SessionManager {
	cookieName := opts.CookieName
	if cookieName == "" {
		cookieName = "session"
	}
	return &SessionManager{
		credentials: credentials,
		store:       store,
		secret:      []byte(opts.Secret),
		cookieName:  cookieName,
		secure:      opts.Secure,
		ttl:         opts.TTL,
	}
}

func (m *SessionManager) CookieName() string { return m.cookieName }

func (m *SessionManager) Secure() bool { return m.secure }

func (m *SessionManager) TTL() time.Duration { return m.ttl }

// Login checks the credentials and issues a signed session token.
func (m *SessionManager) Login(ctx context.Context, username, password string) (string, Session, error) {
	if err := m.credentials.Authenticate(ctx, username, password); err != nil {
		return "", Session{}, err
	}
	session := m.store.Create(username)
	token, err := GenerateToken(session, m.secret)
	if err != nil {
		m.store.Delete(session.ID)
		return "", Session{}, err
	}
	return token, session, nil
}

// Resolve returns the live session a token refers to.
func (m *SessionManager) Resolve(token string) (Session, error) {
	if token == "" {
		return Session{}, models.ErrSessionNotFound
	}
	id, err := ParseToken(token, m.secret)
	if err != nil {
		return Session{}, err
	}
	return m.store.Get(id)
}

// Logout destroys the session behind token, if any.
func (m *SessionManager) Logout(token string) {
	if token == "" {
		return
	}
	if id, err := ParseToken(token, m.secret); err == nil {
		m.store.Delete(id)
	}
}

// PurgeExpired is run by the scheduler.
func (m *SessionManager) PurgeExpired() int {
	return m.store.PurgeExpired()
}
