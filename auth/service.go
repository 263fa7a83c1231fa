// Package auth is responsible for handling authentication and authorization logic.
// This includes registration, login, logout, password hashing and the server-side
// session that remembers who is logged in.
// In a Nest.js analogy, this directory would correspond to an "AuthModule",
// containing services, controllers (handlers in Go), DTOs and guards (middleware).
package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/config"
	"github.com/user/campus-portal-go/users"
	"github.com/user/campus-portal-go/validate"
)

// errInvalidCredentials is the single outward signal for every failed login.
// Callers cannot tell an unknown email from a wrong password.
const errInvalidCredentials = "invalid credentials"

// AuthService is the session authentication gate. It owns the session store,
// delegates persistence to a users.Store and never stores secrets itself.
type AuthService struct {
	users    users.Store
	hasher   PasswordHasher
	sessions *SessionStore
	ttl      time.Duration
	logger   *slog.Logger
	now      func() time.Time

	// dummySecret is verified against when the email is unknown, so a miss
	// costs the same key derivation as a wrong password.
	dummyOnce   sync.Once
	dummySecret string
}

// NewAuthService creates a new AuthService.
// Dependencies are injected explicitly, which is the Go counterpart of
// constructor injection in a Nest.js service.
func NewAuthService(store users.Store, hasher PasswordHasher, sessions *SessionStore, cfg *config.SessionConfig, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		users:    store,
		hasher:   hasher,
		sessions: sessions,
		ttl:      cfg.TTL,
		logger:   logger,
		now:      time.Now,
	}
}

// LoadSession resolves a verified cookie token to its session. A stored,
// unexpired session has its expiry pushed out by the TTL; anything else yields
// a fresh anonymous session that is not stored until it authenticates.
func (s *AuthService) LoadSession(token string) *Session {
	now := s.now()
	if token != "" {
		if sess, ok := s.sessions.Touch(token, now, s.ttl); ok {
			return sess
		}
	}
	return &Session{ID: uuid.New(), CreatedAt: now, ExpiresAt: now.Add(s.ttl)}
}

// Register creates a principal and authenticates sess as that principal.
// Uniqueness is decided by the store: a duplicate email surfaces as a
// ConflictError from users.Store.Create, with no separate existence check.
func (s *AuthService) Register(ctx context.Context, sess *Session, req RegisterRequest) (*users.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	secret, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}

	user, err := s.users.Create(ctx, users.NewUser{
		Email:        req.Email,
		PasswordHash: secret,
		FullName:     req.FullName,
	})
	if err != nil {
		return nil, err
	}

	if err := s.authenticate(sess, user.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and authenticates sess on success.
func (s *AuthService) Login(ctx context.Context, sess *Session, req LoginRequest) (*users.User, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !apperror.IsNotFound(err) {
			return nil, err
		}
		// Burn one derivation so unknown emails are not faster than wrong passwords.
		if dummy := s.dummy(); dummy != "" {
			_, _ = s.hasher.Verify(req.Password, dummy)
		}
		return nil, apperror.NewAuthError(errInvalidCredentials, nil)
	}

	ok, err := s.hasher.Verify(req.Password, user.PasswordHash)
	if err != nil {
		// A stored secret we cannot decode is corrupted data, not a bad password.
		s.logger.ErrorContext(ctx, "stored password secret is unreadable", "user_id", user.ID, "error", err)
		return nil, apperror.NewInternalError("failed to verify password", err)
	}
	if !ok {
		return nil, apperror.NewAuthError(errInvalidCredentials, nil)
	}

	if err := s.authenticate(sess, user.ID); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, nil
}

// Logout drops the stored session and returns sess to the anonymous state.
// It is idempotent.
func (s *AuthService) Logout(ctx context.Context, sess *Session) {
	if sess == nil {
		return
	}
	if sess.UserID > 0 {
		s.logger.InfoContext(ctx, "user logged out", "user_id", sess.UserID)
	}
	s.reset(sess)
}

// CurrentPrincipal returns the user sess is authenticated as. If that user no
// longer exists the session is dropped and the caller is treated as anonymous.
func (s *AuthService) CurrentPrincipal(ctx context.Context, sess *Session) (*users.User, error) {
	if !sess.IsAuthenticated() {
		return nil, apperror.NewAuthError("not authenticated", nil)
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if apperror.IsNotFound(err) {
			s.logger.WarnContext(ctx, "session refers to a missing user; dropping it", "user_id", sess.UserID)
			s.reset(sess)
			return nil, apperror.NewAuthError("not authenticated", nil)
		}
		return nil, err
	}
	return user, nil
}

// RequireAuthenticated returns the principal id of sess, or an AuthError when
// sess is anonymous. Every protected endpoint goes through this check.
func (s *AuthService) RequireAuthenticated(sess *Session) (int, error) {
	if !sess.IsAuthenticated() {
		return 0, apperror.NewAuthError("authentication required", nil)
	}
	return sess.UserID, nil
}

// SweepExpiredSessions purges expired sessions and returns how many were removed.
func (s *AuthService) SweepExpiredSessions(now time.Time) int {
	return s.sessions.DeleteExpired(now)
}

// authenticate moves sess to the authenticated state under a brand new token.
// The previous token, if any, stops working immediately.
func (s *AuthService) authenticate(sess *Session, userID int) error {
	token, err := newToken()
	if err != nil {
		return apperror.NewInternalError("failed to start session", err)
	}
	if sess.Token != "" {
		s.sessions.Delete(sess.Token)
	}

	now := s.now()
	if sess.ID == uuid.Nil {
		sess.ID = uuid.New()
	}
	sess.Token = token
	sess.UserID = userID
	sess.CreatedAt = now
	sess.ExpiresAt = now.Add(s.ttl)
	s.sessions.Save(sess)
	return nil
}

func (s *AuthService) reset(sess *Session) {
	if sess.Token != "" {
		s.sessions.Delete(sess.Token)
	}
	sess.Token = ""
	sess.UserID = 0
}

// dummy returns a valid secret for a throwaway password, derived once.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		secret, err := s.hasher.Hash("dummy-password-for-timing")
		if err != nil {
			s.logger.Error("failed to derive dummy password secret", "error", err)
			return
		}
		s.dummySecret = secret
	})
	return s.dummySecret
}

