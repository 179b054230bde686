package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/anandps/schooldesk/internal/app/models"
	appRepos "github.com/anandps/schooldesk/internal/app/repositories"
	"github.com/anandps/schooldesk/internal/config"
	"github.com/anandps/schooldesk/internal/pkg/auth"
)

// CreateDefaultAdmin creates the configured admin account if no user with
// that username exists yet. Without it a fresh database has no identity
// allowed to create the others.
func CreateDefaultAdmin(ctx context.Context, dbPool *pgxpool.Pool, cfg *config.Config, lgr zerolog.Logger) error {
	if cfg.Seed.AdminUsername == "" || cfg.Seed.AdminPassword == "" {
		lgr.Info().Msg("Admin seed credentials not configured, skipping")
		return nil
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	exists, err := userRepo.UsernameExists(ctx, cfg.Seed.AdminUsername)
	if err != nil {
		return fmt.Errorf("failed to check for admin user: %w", err)
	}
	if exists {
		return nil
	}

	lgr.Info().Str("username", cfg.Seed.AdminUsername).Msg("Creating default admin user...")

	hashed, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &appModels.User{
		Username: cfg.Seed.AdminUsername,
		Email:    cfg.Seed.AdminEmail,
		Password: hashed,
		UserType: appModels.RoleAdmin,
	}
	if _, err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	lgr.Info().Msg("Default admin user created")
	return nil
}
