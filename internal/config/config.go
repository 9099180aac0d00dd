// Package config loads and persists apicompat run configuration.
// Configuration is an explicit value handed to each run; nothing in this
// package holds process-wide mutable state, so several validation runs
// (one per target framework, say) can share a single process.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Comparison modes.
const (
	// ModeStrict reports both the binary and source compatibility axes.
	ModeStrict = "strict"
	// ModeBinary reports only the binary axis, for cross-framework
	// consistency runs where old compiled callers must still load.
	ModeBinary = "binary"
)

// Config represents the complete apicompat configuration (v1 schema)
type Config struct {
	Version int    `json:"version" mapstructure:"version"`
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Mode    string `json:"mode" mapstructure:"mode"`

	Baseline    BaselineConfig    `json:"baseline" mapstructure:"baseline"`
	Suppression SuppressionConfig `json:"suppression" mapstructure:"suppression"`
	Severity    SeverityConfig    `json:"severity" mapstructure:"severity"`
	Cache       CacheConfig       `json:"cache" mapstructure:"cache"`
	Logging     LoggingConfig     `json:"logging" mapstructure:"logging"`
}

// BaselineConfig controls comparison against a previously published version.
// Fetching is opt-in since it requires external data.
type BaselineConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	FeedURL    string `json:"feedUrl" mapstructure:"feedUrl"`
	PackageID  string `json:"packageId" mapstructure:"packageId"`
	Version    string `json:"version" mapstructure:"version"`
	TimeoutMs  int    `json:"timeoutMs" mapstructure:"timeoutMs"`
	MaxRetries int    `json:"maxRetries" mapstructure:"maxRetries"`
}

// SuppressionConfig contains suppression file settings
type SuppressionConfig struct {
	Path         string `json:"path" mapstructure:"path"`
	AutoGenerate bool   `json:"autoGenerate" mapstructure:"autoGenerate"`
}

// SeverityConfig points at the optional per-diagnostic severity overrides
type SeverityConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// CacheConfig contains baseline cache settings
type CacheConfig struct {
	Dir        string `json:"dir" mapstructure:"dir"`
	TtlSeconds int    `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Enabled: true,
		Mode:    ModeStrict,
		Baseline: BaselineConfig{
			Enabled:    false,
			TimeoutMs:  15000,
			MaxRetries: 3,
		},
		Suppression: SuppressionConfig{
			Path:         "CompatSuppressions.toml",
			AutoGenerate: false,
		},
		Severity: SeverityConfig{},
		Cache: CacheConfig{
			Dir:        ".apicompat/cache",
			TtlSeconds: 86400,
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.apicompat/config.json.
// A missing config file yields the defaults.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	v.SetDefault("version", 1)
	v.SetDefault("enabled", true)
	v.SetDefault("mode", ModeStrict)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".apicompat"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <root>/.apicompat/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".apicompat")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 1 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Mode != ModeStrict && c.Mode != ModeBinary {
		return &ConfigError{Field: "mode", Message: "must be 'strict' or 'binary'"}
	}
	if c.Baseline.Enabled && c.Baseline.FeedURL == "" {
		return &ConfigError{Field: "baseline.feedUrl", Message: "required when baseline fetching is enabled"}
	}
	if c.Baseline.MaxRetries < 0 {
		return &ConfigError{Field: "baseline.maxRetries", Message: "must be non-negative"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
