package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration structure. It holds
// the engine's startup parameters; user state (bookmarks, enabled
// plugins, theme choice) lives in the settings document instead.
type Config struct {
	General struct {
		DefaultDirectory string `yaml:"default_directory"` // Directory opened at session start
		ShowHidden       bool   `yaml:"show_hidden"`       // Show dotfiles by default
		WatchDirectory   bool   `yaml:"watch_directory"`   // Refresh on external changes via fsnotify
	} `yaml:"general"`
	Search struct {
		MaxResults  int `yaml:"max_results"`  // Result set cap per query
		MaxDepth    int `yaml:"max_depth"`    // Recursion limit for subtree walks
		HistorySize int `yaml:"history_size"` // Recent-query window in the history store
	} `yaml:"search"`
	Plugins struct {
		Enabled   bool   `yaml:"enabled"`   // Master switch for plugin discovery
		Directory string `yaml:"directory"` // Where *.yaml plugin manifests live
	} `yaml:"plugins"`
	Media struct {
		SeekStep   float64 `yaml:"seek_step"`   // Seconds per seek key
		VolumeStep float64 `yaml:"volume_step"` // Volume delta per adjust
		SpeedStep  float64 `yaml:"speed_step"`  // Speed delta per adjust
	} `yaml:"media"`
}

// ConfigDir returns the per-user configuration directory
// (~/.config/astrofs).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "astrofs"), nil
}

// DataDir returns the per-user data directory
// (~/.local/share/astrofs), used for the search history store.
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "astrofs"), nil
}

// LoadConfig loads configuration from the default location
// (~/.config/astrofs/config.yaml).
func LoadConfig() (*Config, error) {
	dir, err := ConfigDir()
	if err != nil {
		return nil, err
	}
	return LoadConfigFile(filepath.Join(dir, "config.yaml"))
}

// LoadConfigFile loads configuration from a specific file path.
// If the file doesn't exist, returns default configuration.
func LoadConfigFile(path string) (*Config, error) {
	cfg := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Decode over the defaults: keys absent from the file keep their
	// default values, including booleans that default to true.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	if cfg.General.DefaultDirectory == "" {
		cfg.General.DefaultDirectory = New().General.DefaultDirectory
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to the specified file.
// It creates parent directories if they don't exist.
func SaveConfig(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// New creates a configuration instance with default values.
func New() *Config {
	cfg := &Config{}

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	cfg.General.DefaultDirectory = home
	cfg.General.ShowHidden = false
	cfg.General.WatchDirectory = false

	cfg.Search.MaxResults = 100
	cfg.Search.MaxDepth = 10
	cfg.Search.HistorySize = 50

	cfg.Plugins.Enabled = true
	if dir, err := ConfigDir(); err == nil {
		cfg.Plugins.Directory = filepath.Join(dir, "plugins")
	} else {
		cfg.Plugins.Directory = "./plugins"
	}

	cfg.Media.SeekStep = 5
	cfg.Media.VolumeStep = 0.1
	cfg.Media.SpeedStep = 0.1

	return cfg
}

// Validate checks if the configuration is valid.
// Returns error if any settings are invalid.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("nil config")
	}
	if c.Search.MaxResults < 1 {
		return fmt.Errorf("search max_results must be >= 1")
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("search max_depth must be >= 1")
	}
	if c.Search.HistorySize < 1 {
		return fmt.Errorf("search history_size must be >= 1")
	}
	if c.Media.SeekStep <= 0 {
		return fmt.Errorf("media seek_step must be > 0")
	}
	if c.Media.VolumeStep <= 0 || c.Media.VolumeStep > 1 {
		return fmt.Errorf("media volume_step must be in (0, 1]")
	}
	if c.Media.SpeedStep <= 0 {
		return fmt.Errorf("media speed_step must be > 0")
	}
	return nil
}
