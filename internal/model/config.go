package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// APIConfig holds settings for the remote todo API.
type APIConfig struct {
	// BaseURL is the root URL of the backend (e.g., http://127.0.0.1:5000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds a single HTTP request.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// SyncConfig holds settings for background synchronization.
type SyncConfig struct {
	// PollIntervalSec is how often (in seconds) to fetch remote todos.
	PollIntervalSec int `mapstructure:"poll_interval_sec" yaml:"poll_interval_sec"`
}

// WatcherConfig holds settings for the deadline watcher.
type WatcherConfig struct {
	// TickIntervalSec is how often (in seconds) deadlines are swept.
	// Must stay well under the 30-minute warning window.
	TickIntervalSec int `mapstructure:"tick_interval_sec" yaml:"tick_interval_sec"`
}

// NotificationConfig holds notification preferences.
type NotificationConfig struct {
	// Enabled gates display of the bell, badge, and panel. Event
	// generation is not affected by this toggle.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`

	// Desktop controls whether events are forwarded to the desktop
	// notification service.
	Desktop bool `mapstructure:"desktop" yaml:"desktop"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API           APIConfig          `mapstructure:"api" yaml:"api"`
	Sync          SyncConfig         `mapstructure:"sync" yaml:"sync"`
	Watcher       WatcherConfig      `mapstructure:"watcher" yaml:"watcher"`
	Notifications NotificationConfig `mapstructure:"notifications" yaml:"notifications"`
	Display       DisplayConfig      `mapstructure:"display" yaml:"display"`
	DBPath        string             `mapstructure:"db_path" yaml:"db_path"`
	LogPath       string             `mapstructure:"log_path" yaml:"log_path"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/taskflow/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskflow", "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", "taskflow")
	}
	return &AppConfig{
		API:           APIConfig{BaseURL: "http://127.0.0.1:5000", TimeoutSec: 30},
		Sync:          SyncConfig{PollIntervalSec: 120},
		Watcher:       WatcherConfig{TickIntervalSec: 60},
		Notifications: NotificationConfig{Enabled: true, Desktop: true},
		Display:       DisplayConfig{Theme: "default"},
		DBPath:        filepath.Join(dataDir, "taskflow.db"),
		LogPath:       filepath.Join(dataDir, "taskflow.log"),
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	defaults := defaultAppConfig()
	v.SetDefault("api.base_url", defaults.API.BaseURL)
	v.SetDefault("api.timeout_sec", defaults.API.TimeoutSec)
	v.SetDefault("sync.poll_interval_sec", defaults.Sync.PollIntervalSec)
	v.SetDefault("watcher.tick_interval_sec", defaults.Watcher.TickIntervalSec)
	v.SetDefault("notifications.enabled", defaults.Notifications.Enabled)
	v.SetDefault("notifications.desktop", defaults.Notifications.Desktop)
	v.SetDefault("display.theme", defaults.Display.Theme)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("log_path", defaults.LogPath)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaults, nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("sync", cfg.Sync)
	v.Set("watcher", cfg.Watcher)
	v.Set("notifications", cfg.Notifications)
	v.Set("display", cfg.Display)
	v.Set("db_path", cfg.DBPath)
	v.Set("log_path", cfg.LogPath)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
