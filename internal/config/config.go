// Package config provides configuration management for Switchyard.
//
// Configuration lives in a single YAML file; every field has a default so
// the server runs with no file at all. Command-line flags override file
// values in main.
//
// Config file locations (priority order):
//  1. $SWITCHYARD_CONFIG
//  2. ./switchyard.yaml
//  3. ~/.config/switchyard/config.yaml
//  4. /etc/switchyard/config.yaml
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default worker cadences. Lifecycle moves nodes through the state
// machine; telemetry samples the running fleet.
const (
	DefaultLifecycleInterval = 2 * time.Second
	DefaultTelemetryInterval = 5 * time.Second
)

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:       ":8080",
			CORSOrigin: "*",
		},
		Database: DatabaseConfig{Path: "./switchyard.db"},
		Workers: WorkersConfig{
			LifecycleInterval: Duration(DefaultLifecycleInterval),
			TelemetryInterval: Duration(DefaultTelemetryInterval),
		},
		NATS: NATSConfig{},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.CORSOrigin == "" {
		c.Server.CORSOrigin = "*"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./switchyard.db"
	}
	if c.Workers.LifecycleInterval <= 0 {
		c.Workers.LifecycleInterval = Duration(DefaultLifecycleInterval)
	}
	if c.Workers.TelemetryInterval <= 0 {
		c.Workers.TelemetryInterval = Duration(DefaultTelemetryInterval)
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	nats := c.NATS.URL
	if nats == "" {
		nats = "disabled"
	}
	return fmt.Sprintf("Listen: %s, Database: %s, Lifecycle: %s, Telemetry: %s, NATS: %s",
		c.Server.Addr, c.Database.Path,
		c.Workers.LifecycleInterval.Duration(), c.Workers.TelemetryInterval.Duration(), nats)
}
