package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dqai/oneapp/cmd/dqai/internal/bootstrap"
	"github.com/dqai/oneapp/cmd/dqai/internal/server"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Provision the database and serve health and metrics",
		Long: "Connects to the database, runs the startup sequence and then serves " +
			"/healthz, /metrics and the gRPC health service until interrupted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	app, err := connectApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if _, err := app.Provision(ctx); err != nil {
		app.Logger.Errorf("Failed to initialize database: %v", err)
		return err
	}

	cfg := app.Config
	srv := server.New(app.Logger, app.Checker, app.Registry, cfg.Server.HTTPPort, cfg.Server.GRPCPort)
	if err := srv.Start(); err != nil {
		return err
	}
	go app.WatchHealth(ctx, bootstrap.HealthCheckInterval, srv.SyncHealth)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case sig := <-sigCh:
		app.Logger.Infof("Received signal %v, shutting down", sig)
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.Logger.Errorf("Failed to shut down cleanly: %v", err)
		return err
	}
	app.Logger.Info("Shutdown complete")
	return nil
}
