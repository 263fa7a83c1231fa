package db

import (
	"errors"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/campus-portal-go/apperror"
)

type fakeMigrator struct {
	upErr, downErr error
	ups, downs     int
	closed         bool
}

func (f *fakeMigrator) Up() error   { f.ups++; return f.upErr }
func (f *fakeMigrator) Down() error { f.downs++; return f.downErr }
func (f *fakeMigrator) Close() (error, error) {
	f.closed = true
	return nil, nil
}

func TestMigrateURL(t *testing.T) {
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgres://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://u:p@h:5432/db", migrateURL("postgresql://u:p@h:5432/db"))
	assert.Equal(t, "pgx5://already", migrateURL("pgx5://already"))
}

func TestRun(t *testing.T) {
	t.Run("up applies and closes", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, run(m, Up, nil))
		assert.Equal(t, 1, m.ups)
		assert.True(t, m.closed)
	})

	t.Run("no change is not an error", func(t *testing.T) {
		m := &fakeMigrator{upErr: migrate.ErrNoChange}
		require.NoError(t, run(m, Up, nil))
	})

	t.Run("down", func(t *testing.T) {
		m := &fakeMigrator{}
		require.NoError(t, run(m, Down, nil))
		assert.Equal(t, 1, m.downs)
	})

	t.Run("failure is a migration error", func(t *testing.T) {
		m := &fakeMigrator{upErr: errors.New("dirty database version 1")}
		err := run(m, Up, nil)
		require.Error(t, err)

		appErr, ok := apperror.FromError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.MigrationError, appErr.Type)
		assert.True(t, m.closed)
	})

	t.Run("unknown direction", func(t *testing.T) {
		m := &fakeMigrator{}
		require.Error(t, run(m, Direction("sideways"), nil))
		assert.Zero(t, m.ups+m.downs)
	})
}

func TestEmbeddedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrationsFS, "migrations")
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.Contains(t, names, "000001_init.up.sql")
	assert.Contains(t, names, "000001_init.down.sql")

	up, err := fs.ReadFile(migrationsFS, "migrations/000001_init.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(up), "CONSTRAINT users_email_unique UNIQUE (email)")
}
