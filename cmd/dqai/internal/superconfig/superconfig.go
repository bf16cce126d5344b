package superconfig

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dqai/oneapp/pkg/database"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Keyring  KeyringConfig  `yaml:"keyring"`
	Logging  LoggingConfig  `yaml:"logging"`
	Startup  StartupConfig  `yaml:"startup"`
}

type ServerConfig struct {
	HTTPPort        int           `yaml:"http_port"`
	GRPCPort        int           `yaml:"grpc_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Name           string        `yaml:"name"`
	User           string        `yaml:"user"`
	Password       string        `yaml:"password"`
	SSLMode        string        `yaml:"sslmode"`
	MaxConnections int32         `yaml:"max_connections"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// RedisConfig is optional; an empty address disables the startup lock
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type KeyringConfig struct {
	Backend   string `yaml:"backend"`
	Path      string `yaml:"path"`
	MasterKey string `yaml:"master_key"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type StartupConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	LockTTL       time.Duration `yaml:"lock_ttl"`
	MigrationFile string        `yaml:"migration_file"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	pg := database.DefaultPostgreSQLConfig()
	return &Config{
		Server: ServerConfig{
			HTTPPort:        5000,
			GRPCPort:        50051,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Host:           pg.Host,
			Port:           pg.Port,
			Name:           pg.Database,
			User:           pg.User,
			SSLMode:        pg.SSLMode,
			MaxConnections: pg.MaxConnections,
			ConnectTimeout: pg.ConnectionTimeout,
		},
		Keyring: KeyringConfig{Backend: "auto"},
		Logging: LoggingConfig{Level: "info"},
		Startup: StartupConfig{
			Timeout: 2 * time.Minute,
			LockTTL: 5 * time.Minute,
		},
	}
}

// Load reads path (when non-empty), fills unset fields with defaults and
// applies environment overrides
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		var fromFile Config
		if err := yaml.Unmarshal(data, &fromFile); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
		config = merge(config, &fromFile)
	}

	if err := config.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// merge overlays every non-zero field of file onto defaults
func merge(defaults, file *Config) *Config {
	c := *defaults

	setInt(&c.Server.HTTPPort, file.Server.HTTPPort)
	setInt(&c.Server.GRPCPort, file.Server.GRPCPort)
	setDuration(&c.Server.ShutdownTimeout, file.Server.ShutdownTimeout)

	setString(&c.Database.Host, file.Database.Host)
	setInt(&c.Database.Port, file.Database.Port)
	setString(&c.Database.Name, file.Database.Name)
	setString(&c.Database.User, file.Database.User)
	setString(&c.Database.Password, file.Database.Password)
	setString(&c.Database.SSLMode, file.Database.SSLMode)
	if file.Database.MaxConnections != 0 {
		c.Database.MaxConnections = file.Database.MaxConnections
	}
	setDuration(&c.Database.ConnectTimeout, file.Database.ConnectTimeout)

	setString(&c.Redis.Addr, file.Redis.Addr)
	setString(&c.Redis.Password, file.Redis.Password)
	setInt(&c.Redis.DB, file.Redis.DB)
	setInt(&c.Redis.PoolSize, file.Redis.PoolSize)

	setString(&c.Keyring.Backend, file.Keyring.Backend)
	setString(&c.Keyring.Path, file.Keyring.Path)
	setString(&c.Keyring.MasterKey, file.Keyring.MasterKey)

	setString(&c.Logging.Level, file.Logging.Level)

	setDuration(&c.Startup.Timeout, file.Startup.Timeout)
	setDuration(&c.Startup.LockTTL, file.Startup.LockTTL)
	setString(&c.Startup.MigrationFile, file.Startup.MigrationFile)

	return &c
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	stringVars := map[string]*string{
		"DB_HOST":     &c.Database.Host,
		"DB_NAME":     &c.Database.Name,
		"DB_USER":     &c.Database.User,
		"DB_PASSWORD": &c.Database.Password,
		"REDIS_ADDR":  &c.Redis.Addr,
		"LOG_LEVEL":   &c.Logging.Level,
	}
	for key, dst := range stringVars {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	intVars := map[string]*int{
		"DB_PORT": &c.Database.Port,
		"PORT":    &c.Server.HTTPPort,
	}
	for key, dst := range intVars {
		v, ok := lookup(key)
		if !ok || v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, v, err)
		}
		*dst = n
	}
	return nil
}

// Validate checks the fields required to start
func (c *Config) Validate() error {
	if c.Database.Name == "" {
		return fmt.Errorf("database.name is required in configuration file")
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("server.http_port %d is out of range", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort <= 0 || c.Server.GRPCPort > 65535 {
		return fmt.Errorf("server.grpc_port %d is out of range", c.Server.GRPCPort)
	}
	return nil
}

// PostgreSQL returns the pool settings for the configured database
func (c *Config) PostgreSQL() database.PostgreSQLConfig {
	return database.PostgreSQLConfig{
		User:              c.Database.User,
		Password:          c.Database.Password,
		Host:              c.Database.Host,
		Port:              c.Database.Port,
		Database:          c.Database.Name,
		SSLMode:           c.Database.SSLMode,
		MaxConnections:    c.Database.MaxConnections,
		ConnectionTimeout: c.Database.ConnectTimeout,
	}
}

// RedisOptions returns the Redis client settings
func (c *Config) RedisOptions() database.RedisConfig {
	return database.RedisConfig{
		Addr:     c.Redis.Addr,
		Password: c.Redis.Password,
		DB:       c.Redis.DB,
		PoolSize: c.Redis.PoolSize,
	}
}

func (c *Config) GetKeyringBackend() string   { return c.Keyring.Backend }
func (c *Config) GetKeyringPath() string      { return c.Keyring.Path }
func (c *Config) GetKeyringMasterKey() string { return c.Keyring.MasterKey }

func (c *Config) GetDatabaseName() string { return c.Database.Name }
func (c *Config) GetDatabaseUser() string { return c.Database.User }

func (c *Config) GetMigrationFile() string { return c.Startup.MigrationFile }
