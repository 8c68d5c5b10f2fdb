// Package config provides the configuration system for draftcheck.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/coolbeans/draftcheck/pkg/lookup"
	"github.com/coolbeans/draftcheck/pkg/pattern"
	"github.com/coolbeans/draftcheck/pkg/validate"
)

// EnvPrefix prefixes environment overrides: DRAFTCHECK_LOOKUP_TIMEOUT sets
// lookup.timeout.
const EnvPrefix = "DRAFTCHECK"

// Config holds the complete application configuration
type Config struct {
	Offline  bool           `mapstructure:"offline" yaml:"offline"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Lookup   LookupConfig   `mapstructure:"lookup" yaml:"lookup"`
	Patterns PatternsConfig `mapstructure:"patterns" yaml:"patterns"`
	Check    CheckConfig    `mapstructure:"check" yaml:"check"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"` // text, json
	Color  bool   `mapstructure:"color" yaml:"color"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // console, json
}

// LookupConfig holds remote lookup settings
type LookupConfig struct {
	RFCURLTemplate   string        `mapstructure:"rfc_url_template" yaml:"rfc_url_template"`
	DraftURLTemplate string        `mapstructure:"draft_url_template" yaml:"draft_url_template"`
	DownrefURL       string        `mapstructure:"downref_url" yaml:"downref_url"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RateLimit        time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`
	CacheTTL         time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	CacheSize        int           `mapstructure:"cache_size" yaml:"cache_size"`
	CacheDir         string        `mapstructure:"cache_dir" yaml:"cache_dir"`
}

// PatternsConfig selects the recognizer table
type PatternsConfig struct {
	Dir   string `mapstructure:"dir" yaml:"dir"`
	Table string `mapstructure:"table" yaml:"table"`
}

// CheckConfig holds batch checking settings
type CheckConfig struct {
	Concurrency int      `mapstructure:"concurrency" yaml:"concurrency"`
	Mode        string   `mapstructure:"mode" yaml:"mode"` // normal, forgiving, submission
	Skip        []string `mapstructure:"skip" yaml:"skip,omitempty"`
}

// Default returns a new configuration with default values
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: "text"},
		Log:    LogConfig{Level: "warn", Format: "console"},
		Lookup: LookupConfig{
			RFCURLTemplate:   lookup.DefaultRFCURLTemplate,
			DraftURLTemplate: lookup.DefaultDraftURLTemplate,
			DownrefURL:       lookup.DefaultDownrefURL,
			Timeout:          lookup.DefaultTimeout,
			RateLimit:        lookup.DefaultRateLimit,
			CacheTTL:         lookup.DefaultCacheTTL,
			CacheSize:        lookup.DefaultCacheSize,
		},
		Patterns: PatternsConfig{Table: pattern.DefaultTableID},
		Check: CheckConfig{
			Concurrency: 4,
			Mode:        string(validate.ModeNormal),
		},
	}
}

// DefaultPath returns the configuration file read when no path is given.
func DefaultPath() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".config", "draftcheck", "config.yaml")
}

// NewViper returns a viper instance holding the defaults, the environment
// overrides and, when present, the configuration file. An explicit path
// must exist; the default path may be missing.
func NewViper(configPath string) (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		return v, nil
	}

	v.SetConfigFile(DefaultPath())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Lookup.CacheDir = expandHome(cfg.Lookup.CacheDir)
	cfg.Patterns.Dir = expandHome(cfg.Patterns.Dir)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	v, err := NewViper(configPath)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output format: %s (must be text or json)", c.Output.Format)
	}

	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format: %s (must be console or json)", c.Log.Format)
	}

	if _, err := validate.ParseMode(c.Check.Mode); err != nil {
		return err
	}

	if c.Check.Concurrency < 1 {
		return fmt.Errorf("check concurrency must be at least 1, got %d", c.Check.Concurrency)
	}

	if c.Lookup.CacheSize < 1 {
		return fmt.Errorf("lookup cache size must be at least 1, got %d", c.Lookup.CacheSize)
	}

	return nil
}

// LookupConfig returns the lookup client configuration.
func (c *Config) LookupConfig() lookup.Config {
	return lookup.Config{
		RFCURLTemplate:   c.Lookup.RFCURLTemplate,
		DraftURLTemplate: c.Lookup.DraftURLTemplate,
		DownrefURL:       c.Lookup.DownrefURL,
		RateLimit:        c.Lookup.RateLimit,
		Timeout:          c.Lookup.Timeout,
		CacheTTL:         c.Lookup.CacheTTL,
		CacheSize:        c.Lookup.CacheSize,
		CacheDir:         c.Lookup.CacheDir,
		Offline:          c.Offline,
	}
}

// ValidatorConfig returns the validator configuration.
func (c *Config) ValidatorConfig() validate.Config {
	mode, _ := validate.ParseMode(c.Check.Mode)
	return validate.Config{Mode: mode, Skip: c.Check.Skip}
}

// YAML renders the configuration as a configuration file.
func (c *Config) YAML() ([]byte, error) {
	out := struct {
		Offline  bool           `yaml:"offline"`
		Output   OutputConfig   `yaml:"output"`
		Log      LogConfig      `yaml:"log"`
		Lookup   map[string]any `yaml:"lookup"`
		Patterns PatternsConfig `yaml:"patterns"`
		Check    CheckConfig    `yaml:"check"`
	}{
		Offline:  c.Offline,
		Output:   c.Output,
		Log:      c.Log,
		Patterns: c.Patterns,
		Check:    c.Check,
		Lookup: map[string]any{
			"rfc_url_template":   c.Lookup.RFCURLTemplate,
			"draft_url_template": c.Lookup.DraftURLTemplate,
			"downref_url":        c.Lookup.DownrefURL,
			"timeout":            c.Lookup.Timeout.String(),
			"rate_limit":         c.Lookup.RateLimit.String(),
			"cache_ttl":          c.Lookup.CacheTTL.String(),
			"cache_size":         c.Lookup.CacheSize,
			"cache_dir":          c.Lookup.CacheDir,
		},
	}
	return yaml.Marshal(out)
}

// SaveToFile writes the configuration to path, creating its directory.
func (c *Config) SaveToFile(path string) error {
	data, err := c.YAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("offline", defaults.Offline)
	v.SetDefault("output.format", defaults.Output.Format)
	v.SetDefault("output.color", defaults.Output.Color)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("lookup.rfc_url_template", defaults.Lookup.RFCURLTemplate)
	v.SetDefault("lookup.draft_url_template", defaults.Lookup.DraftURLTemplate)
	v.SetDefault("lookup.downref_url", defaults.Lookup.DownrefURL)
	v.SetDefault("lookup.timeout", defaults.Lookup.Timeout)
	v.SetDefault("lookup.rate_limit", defaults.Lookup.RateLimit)
	v.SetDefault("lookup.cache_ttl", defaults.Lookup.CacheTTL)
	v.SetDefault("lookup.cache_size", defaults.Lookup.CacheSize)
	v.SetDefault("lookup.cache_dir", defaults.Lookup.CacheDir)
	v.SetDefault("patterns.dir", defaults.Patterns.Dir)
	v.SetDefault("patterns.table", defaults.Patterns.Table)
	v.SetDefault("check.concurrency", defaults.Check.Concurrency)
	v.SetDefault("check.mode", defaults.Check.Mode)
	v.SetDefault("check.skip", []string{})
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return home + path[1:]
}
