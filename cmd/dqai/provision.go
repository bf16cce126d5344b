package main

import (
	"github.com/spf13/cobra"
)

func newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Run the startup sequence once and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := connectApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Provision(cmd.Context())
			if err != nil {
				return err
			}
			if report.Degraded() {
				cmd.Printf("Provisioned with degraded steps: %v\n", report.Failed())
				return nil
			}
			cmd.Println("Provisioned successfully")
			return nil
		},
	}
}
