package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all available levels",
	Long: `Shows the levels in play order with their size, number of goals and
your personal best.`,
	Args: cobra.NoArgs,
	Run:  runList,
}

func runList(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	exitOnError("loading config", err)

	env, err := newEnvironment(cfg, io.Discard)
	exitOnError("starting", err)
	defer env.Close()

	infos := env.levels.List()
	if len(infos) == 0 {
		fmt.Println("No levels available.")
		return
	}

	entries, loadErr := env.levels.LoadAll()
	profile := env.localProfile()

	fmt.Println("Available levels:")
	fmt.Println()

	// Calculate column widths
	maxIDLen, maxNameLen := 2, 4 // "ID", "Name" headers
	for _, info := range infos {
		maxIDLen = max(maxIDLen, len(info.ID))
		maxNameLen = max(maxNameLen, len(info.Name))
	}

	fmt.Printf("  %-*s  %-*s  %-7s  %-5s  %s\n", maxIDLen, "ID", maxNameLen, "Name", "Size", "Goals", "Best")
	fmt.Printf("  %-*s  %-*s  %-7s  %-5s  %s\n", maxIDLen, "--", maxNameLen, "----", "----", "-----", "----")

	for _, e := range entries {
		size := fmt.Sprintf("%dx%d", e.Level.Width(), e.Level.Height())
		best := "-"
		if st, ok := profile.Stats(e.Info.ID); ok {
			best = fmt.Sprintf("%d steps", st.Steps)
		}
		fmt.Printf("  %-*s  %-*s  %-7s  %-5d  %s\n", maxIDLen, e.Info.ID, maxNameLen, e.Info.Name, size, e.Level.GoalCount(), best)
	}

	if loadErr != nil {
		fmt.Println()
		fmt.Fprintf(os.Stderr, "Some levels could not be read:\n%v\n", loadErr)
	}

	fmt.Println()
	fmt.Println("Run 'sokoban play <id>' to play a level.")
}
