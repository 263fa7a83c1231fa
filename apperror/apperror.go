// Package apperror defines a centralized system for application-specific errors.
// Every handler funnels its failures through an *AppError so that clients always
// receive the same JSON shape, and so that internal details (SQL errors, KDF
// failures) never leak past the HTTP boundary.
// Conceptually this plays the role an exception filter plays in Express/Nest.js
// apps: map an error category to a status code and a client-safe payload.
package apperror

import (
	"errors"
	"fmt"
	// `net/http` is used for HTTP status codes.
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// AuthError represents an authentication failure: no session, expired session,
	// or credentials that did not verify. Always surfaces as 401.
	AuthError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ValidationError represents an input validation error on a specific field
	ValidationError
	// BadRequestError represents a generic bad request (e.g. unparsable JSON)
	BadRequestError
	// InternalError represents a generic internal server error
	InternalError
	// MigrationError represents an error during database migrations
	MigrationError
	// ConflictError represents a conflict, e.g. an identity that is already registered
	ConflictError
)

// genericInternalMessage is the only message a client ever sees for 5xx responses.
const genericInternalMessage = "internal server error"

// AppError is a custom error type for the application.
// It allows wrapping an underlying error (`Err`) for server-side debugging while
// keeping `Message` (and `Field` for validation failures) as the client-facing part.
type AppError struct {
	Type    ErrorType
	Message string
	// Field names the first request field that failed validation. Empty otherwise.
	Field string
	Err   error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		// Duplicate registrations are reported as a plain 400, which is what the
		// browser client already handles.
		return http.StatusBadRequest
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// IsServerError reports whether the error maps to a 5xx status.
func (e *AppError) IsServerError() bool {
	return e.StatusCode() >= http.StatusInternalServerError
}

// NewAppError creates a new AppError. This is the generic constructor; the typed
// constructors below are preferred at call sites.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewAuthError creates a new AuthError (401).
func NewAuthError(message string, underlyingError error) *AppError {
	return NewAppError(AuthError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewValidationError creates a new ValidationError pinned to the given request field.
func NewValidationError(field, message string) *AppError {
	return &AppError{
		Type:    ValidationError,
		Message: message,
		Field:   field,
	}
}

// NewBadRequestError creates a new BadRequestError
func NewBadRequestError(message string, underlyingError error) *AppError {
	return NewAppError(BadRequestError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewMigrationError creates a new MigrationError
func NewMigrationError(message string, underlyingError error) *AppError {
	return NewAppError(MigrationError, message, underlyingError)
}

// NewConflictError creates a new ConflictError
func NewConflictError(message string, underlyingError error) *AppError {
	return NewAppError(ConflictError, message, underlyingError)
}

// ErrorResponse represents the error payload returned to API clients.
type ErrorResponse struct {
	Message string `json:"message" example:"A description of the error"`
	// Field is only present for validation failures.
	Field string `json:"field,omitempty" example:"location"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Server errors are reduced to a generic message; neither `Err` nor the original
// message of a 5xx error is exposed.
func (e *AppError) ToResponse() ErrorResponse {
	if e.IsServerError() {
		return ErrorResponse{Message: genericInternalMessage}
	}
	return ErrorResponse{Message: e.Message, Field: e.Field}
}

// FromError converts any error to an *AppError. Errors that are not (and do not
// wrap) an *AppError become an InternalError. The bool reports whether an
// *AppError was found in the chain.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return NewInternalError("unexpected error", err), false
}

// Helper functions to check error types. They use `errors.As` so wrapped
// errors are recognised too.

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return isType(err, NotFoundError)
}

// IsAuthError checks if an error is an AuthError (authentication problem)
func IsAuthError(err error) bool {
	return isType(err, AuthError)
}

// IsValidationError checks if an error is a Validation error
func IsValidationError(err error) bool {
	return isType(err, ValidationError)
}

// IsConflictError checks if an error is a Conflict error
func IsConflictError(err error) bool {
	return isType(err, ConflictError)
}

func isType(err error, t ErrorType) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == t
}
