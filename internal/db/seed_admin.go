package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/emali/estates-api/internal/config"
	"github.com/emali/estates-api/internal/domain/user"
)

// AdminStore is the slice of a users repository the bootstrap needs.
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, nu user.NewUser) (user.User, error)
	MarkVerified(ctx context.Context, email string) error
}

type Hasher interface {
	Hash(plain string) (string, error)
}

// EnsureAdminUser creates the configured administrator on first boot. It is
// a no-op when no admin credentials are configured or the account exists.
func EnsureAdminUser(ctx context.Context, users AdminStore, hasher Hasher, cfg config.Config) (bool, error) {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		return false, nil
	}

	// check if the user exists
	_, err := users.GetByEmail(ctx, cfg.AdminEmail)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	if !user.IsPhone(cfg.AdminPhone) {
		return false, fmt.Errorf("admin bootstrap: ADMIN_PHONE %q is not a valid phone number", cfg.AdminPhone)
	}

	hash, err := hasher.Hash(cfg.AdminPassword)

	if err != nil {
		return false, err
	}

	username, err := user.GenerateUsername(cfg.AdminName)
	if err != nil {
		return false, fmt.Errorf("admin bootstrap: %w", err)
	}

	_, err = users.Create(ctx, user.NewUser{
		Email:        cfg.AdminEmail,
		Phone:        cfg.AdminPhone,
		Username:     username,
		Name:         cfg.AdminName,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
	})

	if err != nil {
		return false, err
	}

	// the admin never receives an OTP
	if err := users.MarkVerified(ctx, cfg.AdminEmail); err != nil {
		return false, err
	}

	return true, nil
}
