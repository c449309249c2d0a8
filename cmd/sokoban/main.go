// sokoban is the box-pushing puzzle game for the terminal.
//
// Usage:
//
//	sokoban                  - Pick a level from the menu and play
//	sokoban play [level]     - Play, optionally starting in a level
//	sokoban list             - List available levels
//	sokoban records [level]  - Show level records and completion history
//	sokoban serve            - Start the SSH server (and WebSocket server with --ws)
//
// Global flags:
//
//	--config <path>  - Config file (default: ~/.sokoban/config.yaml)
//	--levels <dir>   - Level directory (default: built-in levels)
//	--data <dir>     - Data directory for profiles, records and logs
//	--db <path>      - Completion history database
//	--player <name>  - Player name for this profile
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagConfig string
	flagLevels string
	flagData   string
	flagDBPath string
	flagPlayer string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sokoban",
	Short: "Sokoban - push boxes onto goals in your terminal",
	Long: `Sokoban is the classic warehouse puzzle: walk the keeper around the
board and push every box onto a goal. Boxes can only be pushed, one at a
time, and never pulled.

Available commands:
  play     - Play (the default when no command is given)
  list     - Show all available levels
  records  - View level records and completion history
  serve    - Start SSH (and WebSocket) server for remote play

Examples:
  sokoban
  sokoban play middle
  sokoban list --levels ./my-levels
  sokoban records easy
  sokoban serve --ssh :2222 --ws :8080`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLevels, "levels", "", "Directory of level files (default: built-in levels)")
	rootCmd.PersistentFlags().StringVar(&flagData, "data", "", "Data directory for profiles, records and logs")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to completion history database")
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Player name")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(recordsCmd)
	rootCmd.AddCommand(serveCmd)
}
