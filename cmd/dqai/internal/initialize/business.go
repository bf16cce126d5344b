package initialize

import (
	"context"
	"fmt"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/tables"
)

const (
	defaultBusinessName  = "Default Organization"
	defaultBusinessPhone = "+1-800-000-0000"
	defaultBusinessEmail = "info@defaultorg.com"

	statusActive = "Active"
)

// DefaultBusiness returns the tenant seeded on a fresh database
func (i *Initializer) DefaultBusiness() Business {
	return Business{
		Name:   i.config.GetOr(config.DefaultBusinessName, defaultBusinessName),
		Phone:  i.config.GetOr(config.DefaultBusinessPhone, defaultBusinessPhone),
		Email:  i.config.GetOr(config.DefaultBusinessEmail, defaultBusinessEmail),
		Status: statusActive,
	}
}

func (i *Initializer) ensureDefaultBusiness(ctx context.Context, store Store) error {
	i.logger.Info("Setting up default business...")

	i.bestEffort(ctx, store,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS email TEXT", tables.Name(tables.Businesses)))

	business := i.DefaultBusiness()
	_, found, err := store.BusinessIDByName(ctx, business.Name)
	if err != nil {
		return fmt.Errorf("failed to look up business %s: %w", business.Name, err)
	}
	if found {
		i.logger.Info("Default business already exists")
		return nil
	}

	if err := store.InsertBusiness(ctx, business); err != nil {
		return fmt.Errorf("failed to create default business: %w", err)
	}
	i.logger.Infof("Created default business: %s", business.Name)
	return nil
}
