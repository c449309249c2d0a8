package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-sokoban/internal/storage"
)

var (
	flagRecent bool
	flagMine   bool
	flagClear  bool
	flagLimit  int
)

var recordsCmd = &cobra.Command{
	Use:   "records [level]",
	Short: "Show level records and completion history",
	Long: `Without a level, shows the record of every level next to your own best.
With a level, shows its fastest completions from the history database.

Examples:
  sokoban records
  sokoban records easy
  sokoban records --recent
  sokoban records --mine
  sokoban records easy --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRecords,
}

func init() {
	recordsCmd.Flags().BoolVar(&flagRecent, "recent", false, "Show the latest completions of all levels")
	recordsCmd.Flags().BoolVar(&flagMine, "mine", false, "Show your own latest completions")
	recordsCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the completion history of a level")
	recordsCmd.Flags().IntVar(&flagLimit, "limit", 10, "Maximum number of completions to show")
}

func runRecords(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError("loading config", err)

	env, err := newEnvironment(cfg, io.Discard)
	exitOnError("starting", err)
	defer env.Close()

	if len(args) == 1 && !env.levels.Exists(args[0]) {
		fmt.Fprintf(os.Stderr, "Error: unknown level %q\n", args[0])
		fmt.Fprintln(os.Stderr, "Run 'sokoban list' to see available levels.")
		os.Exit(1)
	}

	switch {
	case flagClear:
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "Error: --clear needs a level")
			os.Exit(1)
		}
		clearHistory(env, args[0])
	case flagRecent:
		printCompletions(env, "Recent completions", func(h *storage.Store) ([]storage.Completion, error) {
			return h.RecentCompletions(flagLimit)
		})
	case flagMine:
		player := env.localProfile().PlayerName()
		printCompletions(env, "Completions by "+player, func(h *storage.Store) ([]storage.Completion, error) {
			return h.PlayerCompletions(player, flagLimit)
		})
	case len(args) == 1:
		printLevelRecords(env, args[0])
	default:
		printAllRecords(env)
	}
}

// printAllRecords prints one line per level: the record, your best and how
// often it was solved.
func printAllRecords(env *environment) {
	profile := env.localProfile()

	var stats map[string]*storage.LevelStats
	if env.history != nil {
		var err error
		if stats, err = env.history.AllLevelStats(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}

	fmt.Printf("Records - playing as %s\n", profile.PlayerName())
	fmt.Println()
	fmt.Printf("  %-16s  %-22s  %-16s  %s\n", "Level", "Record", "Your best", "Solved")
	fmt.Printf("  %-16s  %-22s  %-16s  %s\n", "-----", "------", "---------", "------")

	for _, info := range env.levels.List() {
		record := "-"
		if rec, ok := env.records.Best(info.ID); ok {
			record = fmt.Sprintf("%d %s (%s)", rec.Steps, formatDuration(rec.Elapsed), rec.PlayerName)
		}
		best := "-"
		if st, ok := profile.Stats(info.ID); ok {
			best = fmt.Sprintf("%d %s", st.Steps, formatDuration(st.Elapsed))
		}
		solved := "-"
		if ls, ok := stats[info.ID]; ok {
			solved = fmt.Sprintf("%dx by %d", ls.Completions, ls.Players)
		}
		fmt.Printf("  %-16s  %-22s  %-16s  %s\n", info.Name, record, best, solved)
	}
}

// printLevelRecords prints the fastest completions of one level.
func printLevelRecords(env *environment, levelID string) {
	info, _ := env.levels.Lookup(levelID)

	fmt.Printf("Records - %s\n", info.Name)
	fmt.Println()

	if rec, ok := env.records.Best(levelID); ok {
		fmt.Printf("Record: %d steps in %s by %s\n", rec.Steps, formatDuration(rec.Elapsed), rec.PlayerName)
	} else {
		fmt.Println("Record: none yet")
	}
	if st, ok := env.localProfile().Stats(levelID); ok {
		fmt.Printf("Your best: %d steps in %s\n", st.Steps, formatDuration(st.Elapsed))
	}

	if env.history == nil {
		fmt.Println()
		fmt.Println("Completion history is unavailable.")
		return
	}

	top, err := env.history.TopCompletions(levelID, flagLimit)
	exitOnError("retrieving completions", err)

	fmt.Println()
	if len(top) == 0 {
		fmt.Println("No completions recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'sokoban play %s' to set the first record!\n", levelID)
		return
	}
	printCompletionTable(top, false)

	if stats, err := env.history.LevelStats(levelID); err == nil {
		fmt.Println()
		fmt.Printf("Solved %d times by %d players, %.1f steps on average\n",
			stats.Completions, stats.Players, stats.AvgSteps)
	}
}

// printCompletions prints a completion list fetched by query.
func printCompletions(env *environment, title string, query func(*storage.Store) ([]storage.Completion, error)) {
	fmt.Println(title)
	fmt.Println()

	if env.history == nil {
		fmt.Println("Completion history is unavailable.")
		return
	}

	completions, err := query(env.history)
	exitOnError("retrieving completions", err)
	if len(completions) == 0 {
		fmt.Println("No completions recorded yet.")
		return
	}
	printCompletionTable(completions, true)
}

func printCompletionTable(completions []storage.Completion, withLevel bool) {
	if withLevel {
		fmt.Printf("  %-4s  %-12s  %-12s  %-6s  %-8s  %s\n", "#", "Level", "Player", "Steps", "Time", "Date")
		fmt.Printf("  %-4s  %-12s  %-12s  %-6s  %-8s  %s\n", "-", "-----", "------", "-----", "----", "----")
	} else {
		fmt.Printf("  %-4s  %-12s  %-6s  %-8s  %s\n", "Rank", "Player", "Steps", "Time", "Date")
		fmt.Printf("  %-4s  %-12s  %-6s  %-8s  %s\n", "----", "------", "-----", "----", "----")
	}

	for i, c := range completions {
		date := c.CreatedAt.Local().Format("2006-01-02 15:04")
		if withLevel {
			fmt.Printf("  %-4d  %-12s  %-12s  %-6d  %-8s  %s\n", i+1, c.LevelID, c.PlayerName, c.Steps, formatDuration(c.Elapsed), date)
		} else {
			fmt.Printf("  %-4d  %-12s  %-6d  %-8s  %s\n", i+1, c.PlayerName, c.Steps, formatDuration(c.Elapsed), date)
		}
	}
}

func clearHistory(env *environment, levelID string) {
	if env.history == nil {
		fmt.Fprintln(os.Stderr, "Error: completion history is unavailable")
		os.Exit(1)
	}
	exitOnError("clearing history", env.history.ClearLevel(levelID))
	fmt.Printf("Cleared the completion history of %s.\n", levelID)
}

// formatDuration formats d as m:ss.t.
func formatDuration(d time.Duration) string {
	tenths := d.Milliseconds() / 100
	return fmt.Sprintf("%d:%02d.%d", tenths/600, tenths/10%60, tenths%10)
}
