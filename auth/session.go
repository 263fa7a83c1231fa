package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

const tokenBytes = 32

// Session is the per-request session context. A zero UserID means the
// session is anonymous. Handlers receive it through the request context and
// hand it to AuthService; nothing else mutates it.
type Session struct {
	ID        uuid.UUID
	Token     string
	UserID    int
	CreatedAt time.Time
	ExpiresAt time.Time
}

// IsAuthenticated reports whether the session belongs to a principal.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID > 0
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore is an in-process, expiring token -> session map.
// It is owned by AuthService and safe for concurrent use.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]Session)}
}

// Get returns a copy of the stored session for token. Expired entries are
// treated as absent; removal is left to DeleteExpired.
func (s *SessionStore) Get(token string, now time.Time) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || sess.Expired(now) {
		return nil, false
	}
	return &sess, true
}

// Touch extends the expiry of a stored, unexpired session to now+ttl and
// returns a copy. The check and the write happen under one lock, so a token
// deleted by a concurrent Delete is never written back.
func (s *SessionStore) Touch(token string, now time.Time, ttl time.Duration) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.Expired(now) {
		return nil, false
	}
	sess.ExpiresAt = now.Add(ttl)
	s.sessions[token] = sess
	return &sess, true
}

// Save stores a copy of sess under its token, replacing any previous entry.
func (s *SessionStore) Save(sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.Token] = *sess
}

// Delete removes the session for token. Missing tokens are ignored.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
}

// DeleteExpired removes every session that has expired at now and returns
// how many were removed.
func (s *SessionStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, token)
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

// newToken returns 32 random bytes encoded as unpadded base64url.
func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
