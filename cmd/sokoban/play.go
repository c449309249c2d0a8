package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-sokoban/internal/core"
	"github.com/vovakirdan/tui-sokoban/internal/platform/tui"
	"github.com/vovakirdan/tui-sokoban/internal/progress"
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play sokoban",
	Long: `Start the game. Without a level the level menu opens first.

On the first run you are asked for a player name; it is shown in the
level records. Use --player to set it directly.

Controls:
  Arrows/WASD/HJKL - Move
  R                - Restart the level
  Enter            - Next level (after solving)
  Esc              - Back to the menu
  Ctrl+S           - Save a screenshot to <data>/screenshots
  Q/Ctrl+C         - Quit

Examples:
  sokoban play
  sokoban play hard
  sokoban play --levels ./my-levels cave_01`,
	Args: cobra.MaximumNArgs(1),
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError("loading config", err)

	// Logs go to a file so they don't tear the alternate screen.
	logOut, err := openLogFile(cfg)
	exitOnError("opening log", err)
	defer logOut.Close()

	env, err := newEnvironment(cfg, logOut)
	exitOnError("starting", err)
	defer env.Close()

	var startLevel string
	if len(args) == 1 {
		startLevel = args[0]
		if !env.levels.Exists(startLevel) {
			fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", startLevel)
			fmt.Fprintln(os.Stderr, "Run 'sokoban list' to see available levels.")
			os.Exit(1)
		}
	}

	profile := env.localProfile()
	switch {
	case flagPlayer != "":
		exitOnError("saving player name", profile.SetPlayerName(flagPlayer))
	case !profile.HasName() && cfg.Player.Name != "" && cfg.Player.Name != progress.DefaultPlayerName:
		exitOnError("saving player name", profile.SetPlayerName(cfg.Player.Name))
	}

	// Get terminal size early so the first frame fits
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: cfg.TUI.TickRate,
	}
	opts := tui.AppOptions{
		AskName:     !profile.HasName(),
		AllowRename: true,
		StartLevel:  startLevel,
	}

	env.logger.Info("session started", "player", profile.PlayerName(), "level", startLevel)
	if err := tui.Run(env.services(), profile, rc, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		os.Exit(1)
	}
	env.logger.Info("session ended", "player", profile.PlayerName())
}
