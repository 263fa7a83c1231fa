// Package seed fills an empty database with demo data: an admin account and
// one sample issue, so a fresh deployment has something on the dashboard.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/user/campus-portal-go/apperror"
	"github.com/user/campus-portal-go/auth"
	"github.com/user/campus-portal-go/config"
	"github.com/user/campus-portal-go/issues"
	"github.com/user/campus-portal-go/users"
)

// Sample issue created alongside the admin account.
const (
	sampleLocation    = "Hostel A - Room 101"
	sampleDescription = "Fan not working"
)

// Run seeds demo data when seeding is enabled and no issue exists yet.
// It is safe to call on every start: a non-empty issue table is left alone,
// and an existing admin account is reused rather than duplicated.
func Run(ctx context.Context, userStore users.Store, issueStore issues.Store, hasher auth.PasswordHasher, cfg *config.SeedConfig, logger *slog.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}

	n, err := issueStore.Count(ctx)
	if err != nil {
		return fmt.Errorf("count issues: %w", err)
	}
	if n > 0 {
		logger.Debug("issues present; skipping seed", "count", n)
		return nil
	}

	admin, err := ensureAdmin(ctx, userStore, hasher, cfg)
	if err != nil {
		return err
	}

	issue, err := issueStore.Create(ctx, issues.NewIssue{
		UserID:      admin.ID,
		Type:        issues.TypeElectricity,
		Location:    sampleLocation,
		Description: sampleDescription,
	})
	if err != nil {
		return fmt.Errorf("create sample issue: %w", err)
	}

	logger.Info("seeded demo data", "admin_id", admin.ID, "issue_id", issue.ID)
	return nil
}

func ensureAdmin(ctx context.Context, userStore users.Store, hasher auth.PasswordHasher, cfg *config.SeedConfig) (*users.User, error) {
	secret, err := hasher.Hash(cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}

	admin, err := userStore.Create(ctx, users.NewUser{
		Email:        cfg.AdminEmail,
		PasswordHash: secret,
		FullName:     cfg.AdminName,
		IsAdmin:      true,
	})
	if err == nil {
		return admin, nil
	}
	if !apperror.IsConflictError(err) {
		return nil, fmt.Errorf("create admin: %w", err)
	}

	// The account survived an earlier run whose issues were removed.
	admin, err = userStore.GetByEmail(ctx, cfg.AdminEmail)
	if err != nil {
		return nil, fmt.Errorf("load existing admin: %w", err)
	}
	return admin, nil
}
