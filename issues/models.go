// Package issues is responsible for facility complaints (electricity, water,
// internet, ...) raised by logged-in students.
// It follows the same modular structure as `auth` and `users`, akin to an
// "IssuesModule" in Nest.js: models, DTOs, a store, a service and a handler.
package issues

import (
	"context"
	"time"
)

// Type is the category of a complaint.
// Using a custom string type with constants provides type safety for the
// fixed set of values the `issue_type` enum column accepts.
type Type string

const (
	TypeElectricity Type = "Electricity"
	TypeWater       Type = "Water"
	TypeInternet    Type = "Internet"
	TypeCleanliness Type = "Cleanliness"
	TypeOther       Type = "Other"
)

// Status tracks whether a complaint has been handled.
type Status string

const (
	StatusPending Status = "Pending"
	StatusSolved  Status = "Solved"
)

// Issue is a stored complaint.
// `ImageURL` is a pointer because the column is nullable; it is serialized as
// `null` when no image was attached.
type Issue struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	Type        Type      `json:"type"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewIssue is the input for Store.Create. Status is not part of it: every new
// issue starts out Pending.
type NewIssue struct {
	UserID      int
	Type        Type
	Location    string
	Description string
	ImageURL    *string
}

// Store persists issues.
type Store interface {
	Create(ctx context.Context, ni NewIssue) (*Issue, error)
	// ListByUser returns the issues owned by userID in insertion order.
	ListByUser(ctx context.Context, userID int) ([]Issue, error)
	Count(ctx context.Context) (int, error)
}
