package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != 1 {
		t.Errorf("Version = %d, want 1", cfg.Version)
	}
	if !cfg.Enabled {
		t.Error("check should be enabled by default")
	}
	if cfg.Mode != ModeStrict {
		t.Errorf("Mode = %q, want %q", cfg.Mode, ModeStrict)
	}
	if cfg.Baseline.Enabled {
		t.Error("baseline fetching must be opt-in")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig with no file should return defaults, got error: %v", err)
	}
	if cfg.Mode != ModeStrict {
		t.Errorf("Mode = %q, want default %q", cfg.Mode, ModeStrict)
	}
}

func TestSaveAndLoadRoundtrip(t *testing.T) {
	dir := t.TempDir()

	cfg := DefaultConfig()
	cfg.Mode = ModeBinary
	cfg.Baseline.Enabled = true
	cfg.Baseline.FeedURL = "https://feed.example.com/v3"
	cfg.Baseline.PackageID = "Contoso.Net"
	cfg.Suppression.Path = "compat/suppressions.toml"

	if err := cfg.Save(dir); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ".apicompat", "config.json")); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.Mode != ModeBinary {
		t.Errorf("Mode = %q, want %q", loaded.Mode, ModeBinary)
	}
	if loaded.Baseline.FeedURL != "https://feed.example.com/v3" {
		t.Errorf("FeedURL = %q", loaded.Baseline.FeedURL)
	}
	if loaded.Suppression.Path != "compat/suppressions.toml" {
		t.Errorf("Suppression.Path = %q", loaded.Suppression.Path)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad version", func(c *Config) { c.Version = 2 }, true},
		{"bad mode", func(c *Config) { c.Mode = "loose" }, true},
		{"baseline without feed", func(c *Config) { c.Baseline.Enabled = true }, true},
		{"baseline with feed", func(c *Config) {
			c.Baseline.Enabled = true
			c.Baseline.FeedURL = "https://feed.example.com"
		}, false},
		{"negative retries", func(c *Config) { c.Baseline.MaxRetries = -1 }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
