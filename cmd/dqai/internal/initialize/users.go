package initialize

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/tables"
)

const (
	defaultSuperAdminEmail    = "admin@demo.com"
	defaultSuperAdminPassword = "AdminPassword123!"
	defaultDemoEmail          = "demo@demo.com"
	defaultDemoPassword       = "Demo123!"

	superAdminRole = "super-admin"
	demoRole       = "Form Builder"

	// PasswordCost is the bcrypt work factor for seeded accounts
	PasswordCost = 10
)

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (i *Initializer) ensureSuperAdmin(ctx context.Context, store Store) error {
	i.logger.Info("Setting up super admin user...")

	email := i.config.GetOr(config.SuperAdminEmail, defaultSuperAdminEmail)
	password := i.config.GetOr(config.SuperAdminPassword, defaultSuperAdminPassword)

	_, found, err := store.UserIDByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if found {
		i.logger.Info("Super admin user already exists")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	businessID, err := firstBusinessID(ctx, store)
	if err != nil {
		return err
	}

	err = store.InsertUser(ctx, User{
		FirstName:    "Super",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: hash,
		Role:         superAdminRole,
		Status:       statusActive,
		BusinessID:   businessID,
	})
	if err != nil {
		return fmt.Errorf("failed to create super admin: %w", err)
	}

	i.logger.Infof("Created super admin user: %s", email)
	if !i.config.IsSet(config.SuperAdminPassword) {
		i.logger.Warn("Super admin uses the default password. Change this password in production!")
	}
	return nil
}

func (i *Initializer) ensureDemoAccount(ctx context.Context, store Store) error {
	i.logger.Info("Setting up demo account...")

	i.bestEffort(ctx, store, fmt.Sprintf(
		"ALTER TABLE %s ADD COLUMN IF NOT EXISTS is_demo_account BOOLEAN DEFAULT FALSE", tables.Name(tables.Users)))

	email := i.config.GetOr(config.DemoAccountEmail, defaultDemoEmail)
	password := i.config.GetOr(config.DemoAccountPassword, defaultDemoPassword)

	// email is unique across users, so any row with it counts
	_, found, err := store.UserIDByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user %s: %w", email, err)
	}
	if found {
		i.logger.Info("Demo account already exists")
		return nil
	}

	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	businessID, err := firstBusinessID(ctx, store)
	if err != nil {
		return err
	}

	err = store.InsertUser(ctx, User{
		FirstName:    "Demo",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		Role:         demoRole,
		Status:       statusActive,
		BusinessID:   businessID,
		IsDemo:       true,
	})
	if err != nil {
		return fmt.Errorf("failed to create demo account: %w", err)
	}

	i.logger.Infof("Created demo account: %s", email)
	return nil
}
