package config

import (
	"os"
	"strings"
	"sync"
)

// Config holds string configuration values keyed by environment variable name
type Config struct {
	mu     sync.RWMutex
	values map[string]string
}

// New creates an empty configuration
func New() *Config {
	return &Config{
		values: make(map[string]string),
	}
}

// FromEnvironment snapshots every known key that is present in the process
// environment. TABLE_PREFIX is deliberately not part of the snapshot; table
// names are resolved against the live environment by package tables.
func FromEnvironment() *Config {
	c := New()
	for _, key := range Keys {
		if v, ok := os.LookupEnv(key); ok {
			c.values[key] = v
		}
	}
	return c
}

// Get retrieves a configuration value
func (c *Config) Get(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.values[key]
}

// GetOr returns the value for key, or def when the value is missing or empty
func (c *Config) GetOr(key, def string) string {
	if v := c.Get(key); v != "" {
		return v
	}
	return def
}

// IsSet reports whether key holds a non-empty value
func (c *Config) IsSet(key string) bool {
	return c.Get(key) != ""
}

// Bool reports whether key is exactly "true"
func (c *Config) Bool(key string) bool {
	return strings.TrimSpace(c.Get(key)) == "true"
}

// GetAll returns a copy of all configuration values
func (c *Config) GetAll() map[string]string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	copy := make(map[string]string, len(c.values))
	for k, v := range c.values {
		copy[k] = v
	}
	return copy
}

// Update updates configuration values
func (c *Config) Update(values map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, v := range values {
		c.values[k] = v
	}
}
