package seed

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/campus-portal-go/auth"
	"github.com/user/campus-portal-go/config"
	"github.com/user/campus-portal-go/issues"
	"github.com/user/campus-portal-go/users"
)

var (
	hasher = auth.NewScryptHasherWithParams(auth.ScryptParams{N: 1024, R: 8, P: 1})
	logger = slog.New(slog.DiscardHandler)
)

func seedConfig() *config.SeedConfig {
	return &config.SeedConfig{
		Enabled:       true,
		AdminEmail:    "admin@kits.edu",
		AdminPassword: "admin123",
		AdminName:     "Admin User",
	}
}

func TestRun_SeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	us, is := users.NewMemoryStore(), issues.NewMemoryStore()

	require.NoError(t, Run(ctx, us, is, hasher, seedConfig(), logger))

	admin, err := us.GetByEmail(ctx, "admin@kits.edu")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.Equal(t, "Admin User", admin.FullName)

	ok, err := hasher.Verify("admin123", admin.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)

	list, err := is.ListByUser(ctx, admin.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, issues.TypeElectricity, list[0].Type)
	assert.Equal(t, "Hostel A - Room 101", list[0].Location)
	assert.Equal(t, "Fan not working", list[0].Description)
	assert.Equal(t, issues.StatusPending, list[0].Status)
	assert.Nil(t, list[0].ImageURL)
}

func TestRun_Idempotent(t *testing.T) {
	ctx := context.Background()
	us, is := users.NewMemoryStore(), issues.NewMemoryStore()

	require.NoError(t, Run(ctx, us, is, hasher, seedConfig(), logger))
	require.NoError(t, Run(ctx, us, is, hasher, seedConfig(), logger))

	n, err := is.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRun_ReusesExistingAdmin(t *testing.T) {
	ctx := context.Background()
	us, is := users.NewMemoryStore(), issues.NewMemoryStore()

	existing, err := us.Create(ctx, users.NewUser{Email: "admin@kits.edu", PasswordHash: "x.y", FullName: "Old Admin"})
	require.NoError(t, err)

	require.NoError(t, Run(ctx, us, is, hasher, seedConfig(), logger))

	list, err := is.ListByUser(ctx, existing.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = us.GetByID(ctx, existing.ID+1)
	assert.Error(t, err, "no second admin created")
}

func TestRun_Disabled(t *testing.T) {
	ctx := context.Background()
	us, is := users.NewMemoryStore(), issues.NewMemoryStore()

	cfg := seedConfig()
	cfg.Enabled = false
	require.NoError(t, Run(ctx, us, is, hasher, cfg, logger))

	n, err := is.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

type failingIssueStore struct{ issues.Store }

func (failingIssueStore) Count(context.Context) (int, error) {
	return 0, errors.New("db down")
}

func TestRun_CountFailure(t *testing.T) {
	err := Run(context.Background(), users.NewMemoryStore(), failingIssueStore{}, hasher, seedConfig(), logger)
	require.Error(t, err)
	assert.ErrorContains(t, err, "db down")
}
