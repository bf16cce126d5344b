package initialize

import (
	"errors"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// isMissingColumn reports whether err is Postgres undefined_column naming column
func isMissingColumn(err error, column string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgerrcode.UndefinedColumn && strings.Contains(pgErr.Message, column)
}

// isAlreadyExists matches duplicate-object errors from idempotent DDL
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.DuplicateTable, pgerrcode.DuplicateObject, pgerrcode.DuplicateColumn,
			pgerrcode.DuplicateSchema, pgerrcode.DuplicateFunction:
			return true
		}
	}
	return err != nil && strings.Contains(err.Error(), "already exists")
}
