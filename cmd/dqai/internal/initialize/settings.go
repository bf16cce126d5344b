package initialize

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/tables"
)

const defaultFromEmail = "noreply@oneapp.com"

// Setting is a system setting seeded when its key is absent
type Setting struct {
	Key   string
	Value any
}

// DefaultSettings returns the seeded settings in insertion order
func (i *Initializer) DefaultSettings() []Setting {
	return []Setting{
		{Key: "app.name", Value: "OneApp"},
		{Key: "app.version", Value: "2.0.0"},
		{Key: "app.multi_tenancy_enabled", Value: true},
		{Key: "email.enabled", Value: i.config.IsSet(config.SMTPHost)},
		{Key: "email.from", Value: i.config.GetOr(config.SMTPFromEmail, defaultFromEmail)},
		{Key: "feature.demo_login_enabled", Value: i.config.Get(config.AllowPublicDemoLink) == "true"},
		{Key: "feature.landing_page_enabled", Value: i.config.Get(config.LandingPageEnabled) != "false"},
		{Key: "feature.audit_logging_enabled", Value: true},
		{Key: "security.require_password_change_days", Value: 90},
		{Key: "security.session_timeout_minutes", Value: 30},
	}
}

func (i *Initializer) ensureSettings(ctx context.Context, store Store) error {
	i.logger.Info("Initializing system settings...")

	exists, err := store.TableExists(ctx, tables.Name(tables.Settings))
	if err != nil {
		return err
	}
	if !exists {
		i.logger.Info("Settings table not found, skipping settings initialization")
		return nil
	}

	checked := 0
	for _, setting := range i.DefaultSettings() {
		if err := i.ensureSetting(ctx, store, setting); err != nil {
			i.logger.Warnf("Could not initialize setting %s: %v", setting.Key, err)
			continue
		}
		checked++
	}

	i.logger.Info("System settings initialized")
	i.logger.Debugf("%d settings checked", checked)
	return nil
}

func (i *Initializer) ensureSetting(ctx context.Context, store Store, setting Setting) error {
	found, err := store.SettingExists(ctx, setting.Key)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	value, err := json.Marshal(setting.Value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}
	return store.InsertSetting(ctx, setting.Key, value)
}
