package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/sokoban.yaml
var defaultYAML []byte

// Default returns the hard-coded configuration. It matches the embedded
// defaults/sokoban.yaml.
func Default() Config {
	return Config{
		Player: PlayerConfig{
			Name: "Player",
		},
		Storage: StorageConfig{
			DataDir:  "~/.sokoban",
			Database: "~/.sokoban/history.db",
		},
		Progress: ProgressConfig{
			ProfilePolicy: PolicyBest,
		},
		TUI: TUIConfig{
			Theme:       ThemeClassic,
			TickRate:    10,
			ShowPreview: true,
			HistorySize: 10,
		},
		Server: ServerConfig{
			SSHAddress:  ":23235",
			IdleTimeout: 30 * time.Minute,
			WSAddress:   "",
		},
	}
}

// DefaultYAML returns the embedded default configuration document.
func DefaultYAML() []byte {
	return defaultYAML
}
