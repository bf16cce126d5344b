package initialize

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/tables"
)

// MultiTenancySchema is the bundled migration script. Table names carry the
// PlaceholderPrefix and are rewritten to the live prefix before execution.
//
//go:embed migrations/multi_tenancy.sql
var MultiTenancySchema string

// PlaceholderPrefix is the prefix the migration script is written against
const PlaceholderPrefix = tables.DefaultPrefix

// businessColumns are added to an already-migrated businesses table
var businessColumns = []string{
	"email TEXT",
	"address TEXT",
	"website TEXT",
	"logo_url TEXT",
	"status TEXT DEFAULT 'Active'",
	"updated_at TIMESTAMP DEFAULT NOW()",
}

// ApplyPrefix rewrites every placeholder occurrence to prefix
func ApplyPrefix(script, prefix string) string {
	if prefix == PlaceholderPrefix {
		return script
	}
	return strings.ReplaceAll(script, PlaceholderPrefix, prefix)
}

// SplitStatements splits a script on ';', dropping comment lines and empty
// statements. The script must not contain semicolons inside literals.
func SplitStatements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var statements []string
	for _, s := range strings.Split(b.String(), ";") {
		if s = strings.TrimSpace(s); s != "" {
			statements = append(statements, s)
		}
	}
	return statements
}

// loadMigration returns the migration script. A configured override that
// does not exist yields found=false.
func (i *Initializer) loadMigration() (script string, found bool, err error) {
	path := i.config.Get(config.MigrationFile)
	if path == "" {
		return MultiTenancySchema, true, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read migration file %s: %w", path, err)
	}
	return string(data), true, nil
}

func (i *Initializer) runMigration(ctx context.Context, store Store) error {
	i.logger.Info("Checking database migration status...")

	businesses := tables.Name(tables.Businesses)
	migrated, err := store.TableExists(ctx, businesses)
	if err != nil {
		return err
	}

	if migrated {
		i.logger.Info("Database already migrated")
		for _, column := range businessColumns {
			i.bestEffort(ctx, store, fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s", businesses, column))
		}
		return nil
	}

	i.logger.Info("Running database migration...")
	script, found, err := i.loadMigration()
	if err != nil {
		return err
	}
	if !found {
		i.logger.Warnf("Migration file not found at %s", i.config.Get(config.MigrationFile))
		i.logger.Warn("Skipping migration - manual migration required")
		return nil
	}

	statements := SplitStatements(ApplyPrefix(script, tables.Prefix()))
	for _, statement := range statements {
		if err := ctx.Err(); err != nil {
			return err
		}
		i.bestEffort(ctx, store, statement)
	}

	i.logger.Infof("Database migration completed (%d statements)", len(statements))
	return nil
}
