package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqai/oneapp/pkg/tables"
)

func runTables(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newTablesCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestTablesListsEveryLogicalName(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")

	out, err := runTables(t)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, len(tables.All()))
	assert.Contains(t, out, "dqai_audit_logs")
}

func TestTablesResolvesRequestedNames(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "acme_")

	out, err := runTables(t, "users", "LANDING_PAGE_CONFIG")
	require.NoError(t, err)
	assert.Contains(t, out, "acme_users")
	assert.Contains(t, out, "acme_landing_page_config")
}

func TestTablesRawPrefixesOnly(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "acme_")

	out, err := runTables(t, "--raw", "scratch")
	require.NoError(t, err)
	assert.Contains(t, out, "acme_scratch")
}

func TestTablesRejectsUnknownLogicalName(t *testing.T) {
	t.Setenv(tables.PrefixEnv, "")

	_, err := runTables(t, "nope")
	assert.ErrorContains(t, err, `unknown logical table "nope"`)
}

func TestRootRegistersCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "provision", "tables", "add-column", "keyring"} {
		assert.True(t, names[want], want)
	}
}
