package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-sokoban/internal/config"
	"github.com/vovakirdan/tui-sokoban/internal/game"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
	"github.com/vovakirdan/tui-sokoban/internal/registry"
	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

// Files inside the data directory.
const (
	profileFile = "profile.yaml"
	recordsFile = "records.yaml"
	profilesDir = "profiles"
	logFile     = "sokoban.log"
	shotsDir    = "screenshots"
)

// environment holds what every command works with, built from the config
// file and the global flags.
type environment struct {
	cfg     config.Config
	policy  progress.Policy
	levels  *registry.Registry
	records *progress.Records
	history *storage.Store // nil when the database could not be opened
	logger  *log.Logger
}

// loadConfig loads the configuration and applies the global flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagLevels != "" {
		cfg.Levels.Dir = flagLevels
	}
	if flagData != "" {
		cfg.Storage.DataDir = flagData
		if flagDBPath == "" {
			cfg.Storage.Database = filepath.Join(flagData, "history.db")
		}
	}
	if flagDBPath != "" {
		cfg.Storage.Database = flagDBPath
	}
	if flagPlayer != "" {
		cfg.Player.Name = flagPlayer
	}
	return cfg, cfg.Validate()
}

// openLevels opens the configured level directory, or the built-in levels.
func openLevels(cfg config.Config) (*registry.Registry, error) {
	if cfg.Levels.Dir == "" {
		return registry.Builtin()
	}
	return registry.Open(config.ExpandPath(cfg.Levels.Dir))
}

// newEnvironment opens everything a command needs. Log output goes to logOut.
func newEnvironment(cfg config.Config, logOut io.Writer) (*environment, error) {
	logger := log.NewWithOptions(logOut, log.Options{
		ReportTimestamp: true,
		Prefix:          "sokoban",
	})

	policy, err := progress.ParsePolicy(cfg.Progress.ProfilePolicy)
	if err != nil {
		return nil, err
	}

	levels, err := openLevels(cfg)
	if err != nil {
		return nil, err
	}
	if _, err := levels.LoadAll(); err != nil {
		// Broken levels stay listed; they fail again when opened.
		logger.Warn("some levels could not be loaded", "error", err)
	}

	records := progress.OpenRecords(cfg.DataPath(recordsFile))
	if err := records.LoadErr(); err != nil {
		logger.Warn("records unreadable, starting fresh", "error", err)
	}

	history, err := storage.Open(cfg.Storage.Database)
	if err != nil {
		logger.Warn("could not open history database", "error", err)
		history = nil
	}

	return &environment{
		cfg:     cfg,
		policy:  policy,
		levels:  levels,
		records: records,
		history: history,
		logger:  logger,
	}, nil
}

// recorder returns a completion recorder writing to the environment's stores.
func (e *environment) recorder() *game.Recorder {
	var history game.History
	if e.history != nil {
		history = e.history
	}
	return game.NewRecorder(e.records, history, e.logger)
}

// services bundles the environment for the terminal UI.
func (e *environment) services() tui.Services {
	theme, ok := tui.ThemeByName(e.cfg.TUI.Theme)
	if !ok {
		e.logger.Warn("unknown theme, using classic", "theme", e.cfg.TUI.Theme)
	}
	return tui.Services{
		Levels:        e.levels,
		Records:       e.records,
		History:       e.history,
		Recorder:      e.recorder(),
		Theme:         theme,
		ShowPreview:   e.cfg.TUI.ShowPreview,
		HistorySize:   e.cfg.TUI.HistorySize,
		ScreenshotDir: e.cfg.DataPath(shotsDir),
	}
}

// localProfile opens the profile of the local player.
func (e *environment) localProfile() *progress.Profile {
	profile := progress.OpenProfile(e.cfg.DataPath(profileFile), e.policy)
	if err := profile.LoadErr(); err != nil {
		e.logger.Warn("profile unreadable, starting fresh", "error", err)
	}
	return profile
}

// Close releases the history database.
func (e *environment) Close() {
	if e.history != nil {
		if err := e.history.Close(); err != nil {
			e.logger.Warn("could not close history database", "error", err)
		}
	}
}

// openLogFile opens the log file in the data directory for appending.
func openLogFile(cfg config.Config) (*os.File, error) {
	path := cfg.DataPath(logFile)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file: %w", err)
	}
	return f, nil
}

// exitOnError prints err and exits when it is not nil.
func exitOnError(context string, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}
