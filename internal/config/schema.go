package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Workers  WorkersConfig  `yaml:"workers"`
	NATS     NATSConfig     `yaml:"nats"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// WorkersConfig holds the background scheduler cadences
type WorkersConfig struct {
	LifecycleInterval Duration `yaml:"lifecycle_interval"`
	TelemetryInterval Duration `yaml:"telemetry_interval"`
}

// NATSConfig holds the optional event publishing settings. An empty URL
// disables publishing.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
