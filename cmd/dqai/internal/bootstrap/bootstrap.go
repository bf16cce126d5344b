// Package bootstrap wires configuration, connections and provisioning for
// the dqai commands.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/dqai/oneapp/cmd/dqai/internal/initialize"
	"github.com/dqai/oneapp/cmd/dqai/internal/startuplock"
	"github.com/dqai/oneapp/cmd/dqai/internal/superconfig"
	"github.com/dqai/oneapp/pkg/config"
	"github.com/dqai/oneapp/pkg/configprovider"
	"github.com/dqai/oneapp/pkg/database"
	"github.com/dqai/oneapp/pkg/health"
	"github.com/dqai/oneapp/pkg/keyring"
	"github.com/dqai/oneapp/pkg/logger"
)

const (
	CheckDatabase     = "database"
	CheckProvisioning = "provisioning"

	// HealthCheckInterval is how often the database check reruns while serving
	HealthCheckInterval = 10 * time.Second
)

// App holds the process-wide components shared by serve and provision
type App struct {
	Config   *superconfig.Config
	Logger   *logger.Logger
	Checker  *health.Checker
	Registry *prometheus.Registry

	metrics  *initialize.Metrics
	postgres *database.PostgreSQL
	redis    *database.Redis

	db        initialize.DBTX
	ping      health.CheckFunc
	lockRedis redis.Cmdable
}

// New builds an App without opening any connection
func New(cfg *superconfig.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := initialize.NewMetrics(registry)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   log,
		Checker:  health.NewChecker(),
		Registry: registry,
		metrics:  metrics,
	}, nil
}

// Connect opens the database pool, and the Redis client when an address is
// configured. The database password falls back to the keyring.
func (a *App) Connect(ctx context.Context) error {
	pgConfig, err := database.ResolvePassword(a.Config.PostgreSQL(), keyring.NewManagerFromConfig(a.Config))
	if err != nil {
		return err
	}

	a.Logger.Infof("Connecting to database %s at %s:%d", pgConfig.Database, pgConfig.Host, pgConfig.Port)
	db, err := database.New(ctx, pgConfig)
	if err != nil {
		a.Checker.Set(CheckDatabase, health.StatusUnhealthy, err.Error())
		return err
	}
	a.postgres = db
	a.db = db.Pool()
	a.ping = db.Ping
	a.Checker.Set(CheckDatabase, health.StatusHealthy, "OK")

	if redisConfig := a.Config.RedisOptions(); redisConfig.Enabled() {
		r, err := database.NewRedis(ctx, redisConfig)
		if err != nil {
			a.Close()
			return err
		}
		a.redis = r
		a.lockRedis = r.Client()
		a.Logger.Infof("Connected to Redis at %s for the startup lock", redisConfig.Addr)
	}
	return nil
}

// ProvisioningConfig snapshots the provisioning environment and fills in
// values the YAML configuration knows about
func (a *App) ProvisioningConfig() *config.Config {
	cfg := config.FromEnvironment()

	values := map[string]string{
		config.DBHost: a.Config.Database.Host,
		config.DBPort: strconv.Itoa(a.Config.Database.Port),
		config.DBName: a.Config.Database.Name,
		config.Port:   strconv.Itoa(a.Config.Server.HTTPPort),
	}
	if file := migrationFile(a.Config); file != "" && !cfg.IsSet(config.MigrationFile) {
		values[config.MigrationFile] = file
	}
	cfg.Update(values)
	return cfg
}

func migrationFile(p configprovider.StartupConfigProvider) string {
	return p.GetMigrationFile()
}

// Provision runs the startup sequence, holding the Redis startup lock when
// one is configured. The whole sequence is bounded by the startup timeout.
func (a *App) Provision(ctx context.Context) (*initialize.Report, error) {
	if a.db == nil {
		return nil, errors.New("database is not connected")
	}

	if a.Config.Startup.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Config.Startup.Timeout)
		defer cancel()
	}

	if a.lockRedis != nil {
		lock := startuplock.New(a.lockRedis, a.Config.Startup.LockTTL)
		a.Logger.Infof("Waiting for startup lock %s", startuplock.Key())
		if err := lock.Acquire(ctx); err != nil {
			a.Checker.Set(CheckProvisioning, health.StatusUnhealthy, err.Error())
			return nil, err
		}
		defer func() {
			releaseCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := lock.Release(releaseCtx); err != nil {
				a.Logger.Warnf("Failed to release startup lock: %v", err)
			}
		}()
	}

	provisioningConfig := a.ProvisioningConfig()
	report, err := initialize.New(a.Logger, provisioningConfig).
		WithMetrics(a.metrics).
		Initialize(ctx, a.db)

	switch {
	case err != nil:
		a.Checker.Set(CheckProvisioning, health.StatusUnhealthy, err.Error())
		return report, err
	case report.Degraded():
		a.Checker.Set(CheckProvisioning, health.StatusDegraded, fmt.Sprintf("failed steps: %v", report.Failed()))
	default:
		a.Checker.Set(CheckProvisioning, health.StatusHealthy, "OK")
	}

	initialize.LogStartupSummary(a.Logger, provisioningConfig)
	return report, nil
}

// DB returns the connected database handle, or nil before Connect
func (a *App) DB() initialize.DBTX {
	return a.db
}

// WatchHealth reruns the database check every interval until ctx is done,
// calling after (if non-nil) once each round completes
func (a *App) WatchHealth(ctx context.Context, interval time.Duration, after func()) {
	if a.ping == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.Checker.RunCheck(ctx, CheckDatabase, a.ping)
			if after != nil {
				after()
			}
		case <-ctx.Done():
			return
		}
	}
}

// Close releases every open connection
func (a *App) Close() {
	if a.redis != nil {
		a.redis.Close()
		a.redis = nil
	}
	if a.postgres != nil {
		a.postgres.Close()
		a.postgres = nil
	}
}
