// Package ragging handles confidential anti-ragging reports.
// Reports can be filed without logging in. The anonymity flag only controls how
// the committee sees a report; the victim's name is always stored.
package ragging

import (
	"context"
	"time"
)

// Report is a stored ragging report.
type Report struct {
	ID          int       `json:"id"`
	VictimName  string    `json:"victimName"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"imageUrl"`
	IsAnonymous bool      `json:"isAnonymous"`
	CreatedAt   time.Time `json:"createdAt"`
}

// NewReport is the input for Store.Create.
type NewReport struct {
	VictimName  string
	Location    string
	Description string
	ImageURL    *string
	IsAnonymous bool
}

// Store persists reports.
type Store interface {
	Create(ctx context.Context, nr NewReport) (*Report, error)
}
