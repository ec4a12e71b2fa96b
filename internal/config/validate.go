package config

import (
	"fmt"
	"time"

	"github.com/jgrady/netmon/internal/errors"
)

// Validation bounds. The refresh interval floor keeps the dashboard from
// hammering /proc; the worker ceiling keeps the resolver pool sane.
const (
	MinRefreshInterval = 100 * time.Millisecond
	MaxWorkers         = 64
)

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but netmon only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Grab the latest netmon release, or regenerate the config with 'netmon init'")
	}

	if cfg.RefreshInterval < MinRefreshInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("refresh_interval %s is below the %s minimum", cfg.RefreshInterval, MinRefreshInterval),
			"Use a refresh interval of at least 100ms")
	}

	if cfg.Workers < 1 || cfg.Workers > MaxWorkers {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("workers must be between 1 and %d, got %d", MaxWorkers, cfg.Workers),
			"Set 'workers' to a small positive number (the default is 4)")
	}

	if cfg.ProcRoot == "" {
		return errors.New(errors.ErrConfig,
			"proc_root cannot be empty",
			"Set 'proc_root' to /proc, or to wherever the host /proc is mounted")
	}

	return nil
}
