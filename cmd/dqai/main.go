package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/dqai/oneapp/cmd/dqai/internal/bootstrap"
	"github.com/dqai/oneapp/cmd/dqai/internal/superconfig"
	"github.com/dqai/oneapp/pkg/logger"
)

var (
	configFile string

	// Build information, set with -ldflags
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// printVersionInfo displays detailed version information
func printVersionInfo() {
	fmt.Printf("dqai %s\n", Version)
	fmt.Printf("Built: %s, from commit: %s\n", BuildTime, GitCommit)
	fmt.Printf("Go version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dqai",
	Short: "Data-quality app server and database provisioning",
	Long: "Provisions the multi-tenant data-quality schema on Postgres and serves " +
		"health and metrics endpoints for the running instance.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Lookup("version") != nil && cmd.Flags().Lookup("version").Changed {
			printVersionInfo()
			return nil
		}
		return cmd.Help()
	},
}

// loadApp reads the configuration file and builds an unconnected App
func loadApp() (*bootstrap.App, error) {
	cfg, err := superconfig.Load(configFile)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logger.New("dqai", Version, cfg.Logging.Level))
}

// connectApp is loadApp followed by Connect
func connectApp(ctx context.Context) (*bootstrap.App, error) {
	app, err := loadApp()
	if err != nil {
		return nil, err
	}
	if err := app.Connect(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Path to config file (defaults plus environment when empty)")
	rootCmd.Flags().Bool("version", false, "Show version information and exit")

	rootCmd.AddCommand(
		newServeCmd(),
		newProvisionCmd(),
		newTablesCmd(),
		newAddColumnCmd(),
		newKeyringCmd(),
	)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
