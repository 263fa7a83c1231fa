package ragging

import (
	"context"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/db"
)

// PostgresStore implements Store on top of the `ragging_reports` table.
type PostgresStore struct {
	db db.Querier
}

// NewPostgresStore creates a PostgresStore.
func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Create(ctx context.Context, nr NewReport) (*Report, error) {
	query := `INSERT INTO ragging_reports (victim_name, location, description, image_url, is_anonymous)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, victim_name, location, description, image_url, is_anonymous, created_at`

	var r Report
	err := s.db.QueryRow(ctx, query, nr.VictimName, nr.Location, nr.Description, nr.ImageURL, nr.IsAnonymous).
		Scan(&r.ID, &r.VictimName, &r.Location, &r.Description, &r.ImageURL, &r.IsAnonymous, &r.CreatedAt)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create ragging report", err)
	}
	return &r, nil
}
