package main

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/dqai/oneapp/cmd/dqai/internal/superconfig"
	"github.com/dqai/oneapp/pkg/database"
	"github.com/dqai/oneapp/pkg/keyring"
)

func newKeyringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keyring",
		Short: "Manage secrets stored in the keyring",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "set-db-password",
		Short: "Store the database password in the keyring",
		Long: "Prompts for the database password and stores it in the system keyring, " +
			"or the encrypted keyring file when no system keyring is available. " +
			"It is used whenever the configuration carries no password.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := superconfig.Load(configFile)
			if err != nil {
				return err
			}

			password, err := readPassword("Database password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			confirm, err := readPassword("Confirm password: ")
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			km := keyring.NewManagerFromConfig(cfg)
			if err := database.StorePassword(km, password); err != nil {
				return err
			}
			if km.UsesFile() {
				cmd.Println("Password stored in the keyring file")
			} else {
				cmd.Println("Password stored in the system keyring")
			}
			return nil
		},
	})
	return cmd
}

// readPassword reads a password from stdin without echoing characters
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}
