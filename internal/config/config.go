// Package config holds ocmon configuration and the model pricing table.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all ocmon configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Paths      PathsConfig      `toml:"paths"`
	Appearance AppearanceConfig `toml:"appearance"`
	Pricing    PricingOverrides `toml:"pricing"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	RefreshIntervalSecs int    `toml:"refresh_interval_secs"`
	SessionLimit        int    `toml:"session_limit"`
	Source              string `toml:"source,omitempty"` // "file", "db", or "" for auto
}

// PathsConfig holds data source locations. Empty values fall back to the
// well-known opencode storage locations.
type PathsConfig struct {
	StorageDir   string `toml:"storage_dir,omitempty"`
	DatabasePath string `toml:"database_path,omitempty"`
	ExportDir    string `toml:"export_dir,omitempty"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// PricingOverrides allows user-defined pricing for specific models.
type PricingOverrides struct {
	Overrides map[string]ModelPricingOverride `toml:"overrides,omitempty"`
}

// ModelPricingOverride holds per-model pricing overrides.
type ModelPricingOverride struct {
	InputPerMTok      *float64 `toml:"input_per_mtok,omitempty"`
	OutputPerMTok     *float64 `toml:"output_per_mtok,omitempty"`
	CacheWritePerMTok *float64 `toml:"cache_write_per_mtok,omitempty"`
	CacheReadPerMTok  *float64 `toml:"cache_read_per_mtok,omitempty"`
	ContextWindow     *int64   `toml:"context_window,omitempty"`
	SessionQuota      *int64   `toml:"session_quota,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			RefreshIntervalSecs: 5,
			SessionLimit:        50,
		},
		Appearance: AppearanceConfig{
			Theme: "dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "ocmon")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "ocmon")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads a config file from an explicit path.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(ConfigPath(), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// PricingData builds the effective pricing table: defaults plus any user
// overrides from the config file.
func (c Config) PricingData() PricingTable {
	if len(c.Pricing.Overrides) == 0 {
		return NewPricingTable(nil)
	}

	models := make(map[string]ModelPricing, len(DefaultPricing))
	for name, mp := range DefaultPricing {
		models[name] = mp
	}

	for name, ov := range c.Pricing.Overrides {
		mp := models[name]
		if ov.InputPerMTok != nil {
			mp.InputPerMTok = *ov.InputPerMTok
		}
		if ov.OutputPerMTok != nil {
			mp.OutputPerMTok = *ov.OutputPerMTok
		}
		if ov.CacheWritePerMTok != nil {
			mp.CacheWritePerMTok = *ov.CacheWritePerMTok
		}
		if ov.CacheReadPerMTok != nil {
			mp.CacheReadPerMTok = *ov.CacheReadPerMTok
		}
		if ov.ContextWindow != nil {
			mp.ContextWindow = *ov.ContextWindow
		}
		if ov.SessionQuota != nil {
			mp.SessionQuota = *ov.SessionQuota
		}
		models[name] = mp
	}

	return NewPricingTable(models)
}
