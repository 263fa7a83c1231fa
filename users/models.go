// Package users owns persisted principals: the User model and the credential
// store adapter that reads and writes the `users` table.
// Nothing outside this package writes user rows; the auth package asks it to.
package users

import (
	"context"
	"time"
)

// User represents a registered principal.
// `PasswordHash` is tagged `json:"-"`, so it can never be serialized into an API
// response, regardless of which handler returns the struct.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUser is the input for Store.Create. PasswordHash must already be the
// derived secret, never the plaintext.
type NewUser struct {
	Email        string
	PasswordHash string
	FullName     string
	IsAdmin      bool
}

// Store is the credential store adapter.
//
// GetByID and GetByEmail return an apperror NotFound error when no row matches.
// Email lookup is an exact, case-sensitive match.
// Create returns an apperror Conflict error when the email is already taken;
// the uniqueness constraint is the only duplicate check, so concurrent
// registrations of one email yield exactly one success.
type Store interface {
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u NewUser) (*User, error)
}
