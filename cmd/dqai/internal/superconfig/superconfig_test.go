package superconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dqai/oneapp/pkg/configprovider"
)

var envKeys = []string{"DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "PORT", "REDIS_ADDR", "LOG_LEVEL"}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dqai.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "oneapp", cfg.Database.Name)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 2*time.Minute, cfg.Startup.Timeout)
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
server:
  grpc_port: 6000
  shutdown_timeout: 5s
database:
  host: db.internal
  name: dqai
  max_connections: 20
redis:
  addr: redis:6379
startup:
  lock_ttl: 90s
  migration_file: /etc/dqai/schema.sql
keyring:
  backend: file
  path: /var/lib/dqai/keyring.json
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.HTTPPort)
	assert.Equal(t, 6000, cfg.Server.GRPCPort)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, int32(20), cfg.Database.MaxConnections)
	assert.Equal(t, "redis:6379", cfg.RedisOptions().Addr)
	assert.Equal(t, 90*time.Second, cfg.Startup.LockTTL)
	assert.Equal(t, 2*time.Minute, cfg.Startup.Timeout)

	pg := cfg.PostgreSQL()
	assert.Equal(t, "dqai", pg.Database)
	assert.Equal(t, "db.internal", pg.Host)
	assert.NoError(t, pg.Validate())
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "database:\n  host: db.internal\n  port: 5433\n")
	t.Setenv("DB_HOST", "db.override")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_PASSWORD", "pw")
	t.Setenv("PORT", "8080")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, "pw", cfg.Database.Password)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestInvalidEnvironmentPort(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PORT", "postgres")

	_, err := Load("")
	assert.ErrorContains(t, err, "DB_PORT")
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = Load(writeConfig(t, "server: [unclosed"))
	assert.ErrorContains(t, err, "failed to parse config")

	_, err = Load(writeConfig(t, "server:\n  http_port: 70000\n"))
	assert.ErrorContains(t, err, "out of range")
}

func TestConfigImplementsProviders(t *testing.T) {
	cfg := Default()
	cfg.Keyring = KeyringConfig{Backend: "file", Path: "./test-keyring.json", MasterKey: "test-key"}
	cfg.Startup.MigrationFile = "schema.sql"

	var keyringProvider configprovider.KeyringConfigProvider = cfg
	assert.Equal(t, "file", keyringProvider.GetKeyringBackend())
	assert.Equal(t, "./test-keyring.json", keyringProvider.GetKeyringPath())
	assert.Equal(t, "test-key", keyringProvider.GetKeyringMasterKey())

	var databaseProvider configprovider.DatabaseConfigProvider = cfg
	assert.Equal(t, "oneapp", databaseProvider.GetDatabaseName())
	assert.Equal(t, "postgres", databaseProvider.GetDatabaseUser())

	var startupProvider configprovider.StartupConfigProvider = cfg
	assert.Equal(t, "schema.sql", startupProvider.GetMigrationFile())
}
