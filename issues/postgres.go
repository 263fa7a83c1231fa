package issues

import (
	"context"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/db"
)

// Enum columns are cast to text so they scan into plain strings without
// registering the enum types with pgx.
const issueColumns = `id, user_id, type::text, location, description, image_url, status::text, created_at`

// PostgresStore implements Store on top of the `issues` table.
type PostgresStore struct {
	db db.Querier
}

// NewPostgresStore creates a PostgresStore. q is usually a *pgxpool.Pool.
func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

func (s *PostgresStore) Create(ctx context.Context, ni NewIssue) (*Issue, error) {
	query := `INSERT INTO issues (user_id, type, location, description, image_url)
              VALUES ($1, $2::issue_type, $3, $4, $5)
              RETURNING ` + issueColumns

	issue, err := scanIssue(s.db.QueryRow(ctx, query, ni.UserID, string(ni.Type), ni.Location, ni.Description, ni.ImageURL))
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create issue", err)
	}
	return issue, nil
}

func (s *PostgresStore) ListByUser(ctx context.Context, userID int) ([]Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE user_id = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list issues", err)
	}
	defer rows.Close()

	list := make([]Issue, 0)
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan issue", err)
		}
		list = append(list, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to iterate issues", err)
	}
	return list, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM issues`).Scan(&n); err != nil {
		return 0, apperror.NewDatabaseError("failed to count issues", err)
	}
	return n, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanIssue(row scanner) (*Issue, error) {
	var (
		issue       Issue
		typ, status string
	)
	if err := row.Scan(&issue.ID, &issue.UserID, &typ, &issue.Location, &issue.Description, &issue.ImageURL, &status, &issue.CreatedAt); err != nil {
		return nil, err
	}
	issue.Type = Type(typ)
	issue.Status = Status(status)
	return &issue, nil
}
