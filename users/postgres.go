package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/db"
)

const userColumns = `id, email, password, full_name, is_admin, created_at`

// PostgresStore implements Store on top of the `users` table.
type PostgresStore struct {
	db db.Querier
}

// NewPostgresStore creates a new PostgresStore. `q` is normally the *pgxpool.Pool.
func NewPostgresStore(q db.Querier) *PostgresStore {
	return &PostgresStore{db: q}
}

// GetByID retrieves a user by primary key.
func (s *PostgresStore) GetByID(ctx context.Context, id int) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := scanUser(s.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("user with ID %d not found", id), nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by id", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by their email address. The address is compared as given.
func (s *PostgresStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user by email", err)
	}
	return user, nil
}

// Create inserts a new user. A unique violation on the email constraint becomes
// a Conflict error; there is deliberately no SELECT beforehand.
func (s *PostgresStore) Create(ctx context.Context, u NewUser) (*User, error) {
	query := `INSERT INTO users (email, password, full_name, is_admin)
              VALUES ($1, $2, $3, $4)
              RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRow(ctx, query, u.Email, u.PasswordHash, u.FullName, u.IsAdmin))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, apperror.NewConflictError("Email already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create user", err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (*User, error) {
	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}
