package main

import (
	"github.com/spf13/cobra"

	"github.com/dqai/oneapp/cmd/dqai/internal/migrate"
)

func newAddColumnCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add-column TABLE COLUMN TYPE",
		Short: "Add a column to a table if it does not exist",
		Long: "TABLE is a logical name such as INDICATORS or an unprefixed table name; " +
			"the current TABLE_PREFIX is applied either way.",
		Example: "  dqai add-column INDICATORS category TEXT",
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := connectApp(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			app.Logger.Infof("Adding %s column to %s...", args[1], migrate.ResolveTable(args[0]))
			table, err := migrate.AddColumn(cmd.Context(), app.DB(), args[0], args[1], args[2])
			if err != nil {
				app.Logger.Errorf("Migration failed: %v", err)
				return err
			}
			app.Logger.Infof("Migration completed successfully on %s", table)
			return nil
		},
	}
}
