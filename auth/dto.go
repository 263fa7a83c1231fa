// Package auth provides authentication and authorization functionality
// This file, `dto.go` (Data Transfer Object), defines the request payloads
// accepted by the auth endpoints. Validation rules live in the `validate` struct
// tags and are checked by the `validate` package, much like class-validator
// decorators on a Nest.js DTO.
package auth

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=1024"`
	FullName string `json:"fullName" validate:"required,max=255"`
}

// LoginRequest represents the login request payload.
// Email is matched exactly against the stored address; no format check is
// applied so a malformed address fails like any other unknown identity.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}
