package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/dqai/oneapp/pkg/tables"
)

func newTablesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tables [NAME...]",
		Short: "Print physical table names for the current TABLE_PREFIX",
		Long: "Resolves logical table names (USERS, AUDIT_LOGS, ...) to physical names. " +
			"With no arguments every known table is listed. With --raw the arguments are " +
			"unprefixed table names and are only prefixed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetBool("raw")
			return printTables(cmd, args, raw)
		},
	}
	cmd.Flags().Bool("raw", false, "Treat arguments as unprefixed table names")
	return cmd
}

func printTables(cmd *cobra.Command, args []string, raw bool) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)

	if len(args) == 0 {
		for _, logical := range tables.All() {
			fmt.Fprintf(w, "%s\t%s\n", logical, tables.Name(logical))
		}
		return w.Flush()
	}

	for _, arg := range args {
		if raw {
			fmt.Fprintf(w, "%s\t%s\n", arg, tables.TableName(arg))
			continue
		}
		name, ok := tables.Lookup(tables.Logical(strings.ToUpper(arg)))
		if !ok {
			w.Flush()
			return fmt.Errorf("unknown logical table %q", arg)
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(arg), name)
	}
	return w.Flush()
}
