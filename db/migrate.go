package db

import (
	"embed"
	"errors"
	"log/slog"
	"strings"

	// `golang-migrate` applies versioned SQL files and records the applied version
	// in a `schema_migrations` table.
	"github.com/golang-migrate/migrate/v4"
	// Register the pgx/v5 database driver for golang-migrate ("pgx5://" URLs).
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/user/campus-portal-go/apperror"
)

// Migrations are compiled into the binary so the deployable artifact is a single file.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

// Direction selects which way RunMigrations moves the schema.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// migrator abstracts *migrate.Migrate so the up/down logic can be tested
// without a database.
type migrator interface {
	Up() error
	Down() error
	Close() (source error, database error)
}

// migrateURL converts postgres:// and postgresql:// URLs to the pgx5:// scheme
// expected by golang-migrate's pgx/v5 driver.
func migrateURL(databaseURL string) string {
	if rest, found := strings.CutPrefix(databaseURL, "postgres://"); found {
		return "pgx5://" + rest
	}
	if rest, found := strings.CutPrefix(databaseURL, "postgresql://"); found {
		return "pgx5://" + rest
	}
	return databaseURL
}

// RunMigrations applies (or reverts) the embedded migrations against databaseURL.
func RunMigrations(databaseURL string, dir Direction, logger *slog.Logger) error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return apperror.NewMigrationError("failed to open embedded migrations", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, migrateURL(databaseURL))
	if err != nil {
		_ = source.Close()
		return apperror.NewMigrationError("failed to create migrator", err)
	}

	return run(m, dir, logger)
}

func run(m migrator, dir Direction, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Warn("error closing migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	var err error
	switch dir {
	case Up:
		err = m.Up()
	case Down:
		err = m.Down()
	default:
		return apperror.NewMigrationError("unknown migration direction "+string(dir), nil)
	}

	// `migrate.ErrNoChange` only means the schema is already where we want it.
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("database schema already up to date", "direction", string(dir))
		return nil
	}
	if err != nil {
		return apperror.NewMigrationError("failed to run migrations", err)
	}

	logger.Info("database migrations applied", "direction", string(dir))
	return nil
}
