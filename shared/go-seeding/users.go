package seeding

import (
	"context"
	"fmt"
	"time"

	"github.com/AndreaCerratoSP/CIAMS/shared/go-models"
	"github.com/AndreaCerratoSP/CIAMS/shared/go-utils"
)

const (
	DefaultUsername = "seeduser"
	DefaultPassword = "P@ssword123"
)

// UserStore is the part of the user repository seeding needs.
type UserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
}

// SeedDefaultUser creates the default login unless it already exists.
func SeedDefaultUser(ctx context.Context, users UserStore) error {
	existing, err := users.GetByUsername(ctx, DefaultUsername)
	if err != nil {
		return fmt.Errorf("error checking for existing user: %w", err)
	}
	if existing != nil {
		utils.Logger.Infof("Default user already exists (ID=%s); skipping seed.", existing.ID.Hex())
		return nil
	}

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		return fmt.Errorf("failed to bcrypt-hash default user password: %w", err)
	}
	u := &models.User{
		Username:     DefaultUsername,
		PasswordHash: hash,
		Roles:        []string{models.DefaultUserRole, "ADMIN"},
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		return fmt.Errorf("failed to insert default user: %w", err)
	}

	utils.Logger.Infof("Successfully seeded default user (username=%s).", u.Username)
	return nil
}
