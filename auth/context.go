// Package auth, as part of the authentication module.
// This file, `context.go`, deals with carrying the session and the authenticated
// principal id inside the request's `context.Context`. The context is Go's
// standard way to pass request-scoped values between middleware and handlers,
// much like attaching `req.user` in an Express middleware.
package auth

import (
	"context"
)

// `contextKey` is a custom type for context keys. Using a custom type prevents collisions
// with context keys defined in other packages.
type contextKey string

const (
	sessionContextKey contextKey = "auth_session"
	userIDContextKey  contextKey = "auth_user_id"
)

// NewContextWithSession returns a child context carrying sess.
func NewContextWithSession(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, sess)
}

// SessionFromContext extracts the session stored by SessionMiddleware.
func SessionFromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(sessionContextKey).(*Session)
	return sess, ok && sess != nil
}

// NewContextWithUserID returns a child context carrying the authenticated principal id.
func NewContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDContextKey, userID)
}

// GetUserIDFromContext retrieves the principal id set by RequireAuth.
// Returns 0 and false when the request did not pass through RequireAuth.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDContextKey).(int)
	return userID, ok && userID > 0
}
