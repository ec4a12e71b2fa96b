package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete netmon configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// RefreshInterval is how often the watch dashboard ticks.
	RefreshInterval time.Duration `yaml:"refresh_interval" mapstructure:"refresh_interval"`

	// ResolveHosts enables reverse-DNS resolution of remote addresses
	// at startup. Toggleable at runtime from the dashboard.
	ResolveHosts bool `yaml:"resolve_hosts" mapstructure:"resolve_hosts"`

	// Workers is the size of the background hostname-resolution pool.
	Workers int `yaml:"workers" mapstructure:"workers"`

	// ProcRoot is the proc filesystem mount point. Overridable for
	// containers with a host /proc bind-mounted elsewhere.
	ProcRoot string `yaml:"proc_root" mapstructure:"proc_root"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:         CurrentConfigVersion,
		RefreshInterval: time.Second,
		ResolveHosts:    false,
		Workers:         4,
		ProcRoot:        "/proc",
	}
}
