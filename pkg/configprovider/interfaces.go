// Package configprovider defines interfaces for configuration providers
// to avoid import cycles between internal packages while maintaining type safety.
package configprovider

// KeyringConfigProvider provides keyring configuration settings
type KeyringConfigProvider interface {
	// GetKeyringBackend returns the keyring backend type ("auto", "system", "file")
	GetKeyringBackend() string

	// GetKeyringPath returns the keyring file path (for file-based keyring)
	GetKeyringPath() string

	// GetKeyringMasterKey returns the master key for keyring encryption
	GetKeyringMasterKey() string
}

// DatabaseConfigProvider provides database configuration
type DatabaseConfigProvider interface {
	// GetDatabaseName returns the database name
	GetDatabaseName() string

	// GetDatabaseUser returns the database username
	GetDatabaseUser() string
}

// StartupConfigProvider provides the settings that shape a provisioning run
type StartupConfigProvider interface {
	// GetMigrationFile returns the migration script override, if any
	GetMigrationFile() string
}
