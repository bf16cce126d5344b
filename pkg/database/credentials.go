package database

import (
	"errors"
	"fmt"

	"github.com/dqai/oneapp/pkg/keyring"
)

const (
	// Keyring service and key for the database password
	DatabaseKeyringService = "dqai-database"
	DatabasePasswordKey    = "postgres-password"
)

// SecretGetter is the read side of a keyring
type SecretGetter interface {
	Get(service, user string) (string, error)
}

// ResolvePassword fills in an empty password from the keyring. A config that
// already carries a password is returned unchanged; a missing keyring entry
// leaves the password empty so that trust/peer authentication still works.
func ResolvePassword(cfg PostgreSQLConfig, secrets SecretGetter) (PostgreSQLConfig, error) {
	if cfg.Password != "" || secrets == nil {
		return cfg, nil
	}

	password, err := secrets.Get(DatabaseKeyringService, DatabasePasswordKey)
	if errors.Is(err, keyring.ErrNotFound) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read database password from keyring: %w", err)
	}

	cfg.Password = password
	return cfg, nil
}

// StorePassword saves the database password in the keyring
func StorePassword(km *keyring.Manager, password string) error {
	if password == "" {
		return fmt.Errorf("refusing to store an empty database password")
	}
	if err := km.Set(DatabaseKeyringService, DatabasePasswordKey, password); err != nil {
		return fmt.Errorf("failed to store database password in keyring: %w", err)
	}
	return nil
}
