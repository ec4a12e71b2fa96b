package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgrady/netmon/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ConfigFileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
version: 1
refresh_interval: 2s
resolve_hosts: true
workers: 8
proc_root: /host/proc
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.RefreshInterval)
	assert.True(t, cfg.ResolveHosts)
	assert.Equal(t, 8, cfg.Workers)
	assert.Equal(t, "/host/proc", cfg.ProcRoot)
}

func TestLoadPartialConfigMergesDefaults(t *testing.T) {
	path := writeConfig(t, "resolve_hosts: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.ResolveHosts)
	assert.Equal(t, time.Second, cfg.RefreshInterval)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, "/proc", cfg.ProcRoot)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "workers: [not a number\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFindExplicitPath(t *testing.T) {
	path := writeConfig(t, "workers: 2\n")

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindExplicitPathMissing(t *testing.T) {
	_, err := Find(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestLoadOrDefaultWithoutConfig(t *testing.T) {
	// Run from an empty directory with no global config.
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadOrDefaultFindsLocalFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("workers: 2\n"), 0o644))
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadOrDefault("")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
}

func TestValidateDefaults(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"future version", func(c *Config) { c.Version = CurrentConfigVersion + 1 }},
		{"interval too small", func(c *Config) { c.RefreshInterval = time.Millisecond }},
		{"zero workers", func(c *Config) { c.Workers = 0 }},
		{"too many workers", func(c *Config) { c.Workers = MaxWorkers + 1 }},
		{"empty proc root", func(c *Config) { c.ProcRoot = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.True(t, errors.IsCode(err, errors.ErrConfig))
		})
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	want := DefaultConfig()
	want.ResolveHosts = true
	want.Workers = 6
	require.NoError(t, Write(want, path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
