// Package migrate applies small additive schema changes outside the bundled
// migration script.
package migrate

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dqai/oneapp/pkg/tables"
)

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

var (
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// Column types are interpolated, so only plain type names with an
	// optional length/precision and array suffix are accepted.
	columnTypePattern = regexp.MustCompile(`^(?i)[a-z][a-z0-9 ]*(\(\d+(,\s*\d+)?\))?(\[\])?$`)
)

// ResolveTable maps a logical name (case-insensitive) to its physical table.
// Anything else is treated as an unprefixed fragment.
func ResolveTable(table string) string {
	if name, ok := tables.Lookup(tables.Logical(strings.ToUpper(table))); ok {
		return name
	}
	return tables.TableName(table)
}

// AddColumn adds column to table unless it already exists and returns the
// physical table name it altered
func AddColumn(ctx context.Context, db Execer, table, column, columnType string) (string, error) {
	physical := ResolveTable(table)
	if !identifierPattern.MatchString(physical) {
		return "", fmt.Errorf("invalid table name %q", physical)
	}
	if !identifierPattern.MatchString(column) {
		return "", fmt.Errorf("invalid column name %q", column)
	}
	columnType = strings.TrimSpace(columnType)
	if !columnTypePattern.MatchString(columnType) {
		return "", fmt.Errorf("invalid column type %q", columnType)
	}

	sql := fmt.Sprintf("ALTER TABLE %s ADD COLUMN IF NOT EXISTS %s %s",
		pgx.Identifier{physical}.Sanitize(), pgx.Identifier{column}.Sanitize(), columnType)
	if _, err := db.Exec(ctx, sql); err != nil {
		return physical, fmt.Errorf("failed to add column %s to %s: %w", column, physical, err)
	}
	return physical, nil
}
