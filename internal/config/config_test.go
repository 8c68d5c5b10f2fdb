package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coolbeans/draftcheck/pkg/lookup"
	"github.com/coolbeans/draftcheck/pkg/validate"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "draftcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.False(t, cfg.Offline)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, 4, cfg.Check.Concurrency)
	assert.Equal(t, lookup.DefaultTimeout, cfg.Lookup.Timeout)
	assert.Equal(t, "ietf-default", cfg.Patterns.Table)
}

func TestLoadFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := writeConfig(t, `
offline: true
output:
  format: json
lookup:
  timeout: 5s
  cache_dir: ~/cache
check:
  mode: submission
  concurrency: 8
  skip: [FQDN_NON_EXAMPLE]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Offline)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, 5*time.Second, cfg.Lookup.Timeout)
	assert.Equal(t, lookup.DefaultRateLimit, cfg.Lookup.RateLimit, "unset keys keep their defaults")
	assert.Equal(t, filepath.Join(os.Getenv("HOME"), "cache"), cfg.Lookup.CacheDir)
	assert.Equal(t, 8, cfg.Check.Concurrency)
	assert.Equal(t, []string{"FQDN_NON_EXAMPLE"}, cfg.Check.Skip)

	vc := cfg.ValidatorConfig()
	assert.Equal(t, validate.ModeSubmission, vc.Mode)

	lc := cfg.LookupConfig()
	assert.True(t, lc.Offline)
	assert.Equal(t, 5*time.Second, lc.Timeout)
}

func TestLoadMissingDefaultFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	defaults := Default()
	assert.Equal(t, defaults.Output, cfg.Output)
	assert.Equal(t, defaults.Log, cfg.Log)
	assert.Equal(t, defaults.Lookup, cfg.Lookup)
	assert.Equal(t, defaults.Patterns, cfg.Patterns)
	assert.Equal(t, defaults.Check.Mode, cfg.Check.Mode)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("DRAFTCHECK_OFFLINE", "true")
	t.Setenv("DRAFTCHECK_LOOKUP_CACHE_SIZE", "16")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Offline)
	assert.Equal(t, 16, cfg.Lookup.CacheSize)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"output format", func(c *Config) { c.Output.Format = "xml" }},
		{"log format", func(c *Config) { c.Log.Format = "syslog" }},
		{"mode", func(c *Config) { c.Check.Mode = "lenient" }},
		{"concurrency", func(c *Config) { c.Check.Concurrency = 0 }},
		{"cache size", func(c *Config) { c.Lookup.CacheSize = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveToFileRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Offline = true
	cfg.Lookup.Timeout = 90 * time.Second
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, loaded.Offline)
	assert.Equal(t, 90*time.Second, loaded.Lookup.Timeout)
}
