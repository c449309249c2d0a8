// Package config provides YAML-based configuration loading for the sokoban
// game and its servers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Profile update policies.
const (
	// PolicyBest keeps a level's stats unless the new result is strictly better.
	PolicyBest = "best"
	// PolicyLatest overwrites a level's stats with every completion.
	PolicyLatest = "latest"
)

// Terminal UI themes.
const (
	ThemeClassic = "classic"
	ThemeMono    = "mono"
)

// Config is the full application configuration.
type Config struct {
	Player   PlayerConfig   `yaml:"player"`
	Levels   LevelsConfig   `yaml:"levels"`
	Storage  StorageConfig  `yaml:"storage"`
	Progress ProgressConfig `yaml:"progress"`
	TUI      TUIConfig      `yaml:"tui"`
	Server   ServerConfig   `yaml:"server"`
}

// PlayerConfig holds local player settings.
type PlayerConfig struct {
	Name string `yaml:"name"` // Used when the profile has no name yet
}

// LevelsConfig selects where levels come from.
type LevelsConfig struct {
	Dir string `yaml:"dir"` // Empty means the built-in levels
}

// StorageConfig holds on-disk locations.
type StorageConfig struct {
	DataDir  string `yaml:"data_dir"` // Profiles, records and logs
	Database string `yaml:"database"` // Completion history (SQLite)
}

// ProgressConfig controls how progress is kept.
type ProgressConfig struct {
	ProfilePolicy string `yaml:"profile_policy"` // "best" or "latest"
}

// TUIConfig holds terminal UI settings.
type TUIConfig struct {
	Theme       string `yaml:"theme"`        // "classic" or "mono"
	TickRate    int    `yaml:"tick_rate"`    // HUD refreshes per second
	ShowPreview bool   `yaml:"show_preview"` // Level thumbnails in the menu
	HistorySize int    `yaml:"history_size"` // Rows in the records table
}

// ServerConfig holds settings for `sokoban serve`.
type ServerConfig struct {
	SSHAddress  string        `yaml:"ssh_address"`
	HostKeyPath string        `yaml:"host_key_path"`
	IdleTimeout time.Duration `yaml:"idle_timeout"`
	WSAddress   string        `yaml:"ws_address"` // Empty disables WebSocket play
}

// Validate checks the configuration for values the game cannot run with.
func (c Config) Validate() error {
	switch c.Progress.ProfilePolicy {
	case PolicyBest, PolicyLatest:
	default:
		return fmt.Errorf("config: unknown profile_policy %q (want %q or %q)",
			c.Progress.ProfilePolicy, PolicyBest, PolicyLatest)
	}
	switch c.TUI.Theme {
	case ThemeClassic, ThemeMono:
	default:
		return fmt.Errorf("config: unknown theme %q (want %q or %q)",
			c.TUI.Theme, ThemeClassic, ThemeMono)
	}
	if c.TUI.TickRate <= 0 {
		return fmt.Errorf("config: tick_rate must be positive, got %d", c.TUI.TickRate)
	}
	if c.TUI.HistorySize <= 0 {
		return fmt.Errorf("config: history_size must be positive, got %d", c.TUI.HistorySize)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("config: storage.data_dir is empty")
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("config: idle_timeout must not be negative")
	}
	return nil
}

// DataPath returns a file path inside the data directory.
func (c Config) DataPath(name string) string {
	return filepath.Join(ExpandPath(c.Storage.DataDir), name)
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
