package migrate

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqai/oneapp/pkg/tables"
)

func TestResolveTable(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")
	assert.Equal(t, "dqai_indicators", ResolveTable("INDICATORS"))
	assert.Equal(t, "dqai_indicators", ResolveTable("indicators"))
	assert.Equal(t, "dqai_scratch", ResolveTable("scratch"))

	t.Setenv(tables.PrefixEnv, "nherams_")
	assert.Equal(t, "nherams_indicators", ResolveTable("indicators"))
}

func TestAddColumn(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "dqai_indicators" ADD COLUMN IF NOT EXISTS "category" TEXT`)).
		WillReturnResult(pgxmock.NewResult("ALTER", 0))

	table, err := AddColumn(context.Background(), mock, "INDICATORS", "category", "TEXT")
	require.NoError(t, err)
	assert.Equal(t, "dqai_indicators", table)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumnAcceptsSizedTypes(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "dqai_users" ADD COLUMN IF NOT EXISTS "score" NUMERIC(10, 2)`)).
		WillReturnResult(pgxmock.NewResult("ALTER", 0))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "dqai_users" ADD COLUMN IF NOT EXISTS "tags" text[]`)).
		WillReturnResult(pgxmock.NewResult("ALTER", 0))

	ctx := context.Background()
	_, err = AddColumn(ctx, mock, "users", "score", "NUMERIC(10, 2)")
	require.NoError(t, err)
	_, err = AddColumn(ctx, mock, "users", "tags", "text[]")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumnRejectsUnsafeInput(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	ctx := context.Background()
	_, err = AddColumn(ctx, mock, "users; DROP TABLE x", "c", "TEXT")
	assert.ErrorContains(t, err, "invalid table name")

	_, err = AddColumn(ctx, mock, "users", "bad-name", "TEXT")
	assert.ErrorContains(t, err, "invalid column name")

	_, err = AddColumn(ctx, mock, "users", "c", "TEXT; DROP TABLE x")
	assert.ErrorContains(t, err, "invalid column type")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddColumnWrapsExecErrors(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	boom := errors.New("relation does not exist")
	mock.ExpectExec("ALTER TABLE").WillReturnError(boom)

	_, err = AddColumn(context.Background(), mock, "indicators", "category", "TEXT")
	assert.ErrorIs(t, err, boom)
	assert.ErrorContains(t, err, "dqai_indicators")
}
