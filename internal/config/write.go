package config

import (
	"os"
	"path/filepath"

	"github.com/jgrady/netmon/internal/errors"
	"gopkg.in/yaml.v3"
)

// header is written above the YAML document by Write.
const header = `# netmon configuration
# Generated by 'netmon init'. Every setting is optional; remove a line to
# fall back to its default.
`

// Write marshals cfg to YAML and writes it to path, creating parent
// directories as needed. Used by 'netmon init'.
func Write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to serialize config",
			"This is a bug; please report it")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot create config directory "+dir,
				"Check directory permissions")
		}
	}

	if err := os.WriteFile(path, append([]byte(header), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot write config file "+path,
			"Check file permissions")
	}
	return nil
}
