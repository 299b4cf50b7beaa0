package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tankduel/internal/platform/tui"
	"github.com/vovakirdan/tankduel/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryPlain bool
	flagHistoryClear bool
	flagHistoryID    string
)

var historyCmd = &cobra.Command{
	Use:   "history [map]",
	Short: "Show finished matches",
	Long: `Display the match history, newest first.

In a terminal this opens an interactive browser; use --plain for
a printable table.

Examples:
  tankduel history
  tankduel history classic --plain
  tankduel history --id 6f1c2b1e-...
  tankduel history open --clear`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&flagHistoryLimit, "limit", "n", 20, "Number of matches to print with --plain")
	historyCmd.Flags().BoolVar(&flagHistoryPlain, "plain", false, "Print a table instead of the interactive view")
	historyCmd.Flags().BoolVar(&flagHistoryClear, "clear", false, "Delete the history of the map (all maps if none given)")
	historyCmd.Flags().StringVar(&flagHistoryID, "id", "", "Show a single match by its ID")
}

func runHistory(_ *cobra.Command, args []string) error {
	mapName := ""
	if len(args) == 1 {
		mapName = args[0]
	}

	store, err := storage.Open(settings.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if flagHistoryID != "" {
		return printMatch(store, flagHistoryID)
	}

	if flagHistoryClear {
		n, err := store.ClearMatches(mapName)
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d matches.\n", n)
		return nil
	}

	fd := int(os.Stdout.Fd())
	if !flagHistoryPlain && mapName == "" && term.IsTerminal(fd) {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(fd); termErr == nil {
			width, height = w, h
		}
		return tui.RunHistory(store, width, height)
	}

	return printHistory(store, mapName)
}

func printHistory(store *storage.Store, mapName string) error {
	matches, err := store.RecentMatches(mapName, flagHistoryLimit)
	if err != nil {
		return err
	}

	title := "Match History - all maps"
	if mapName != "" {
		title = "Match History - " + mapName
	}
	fmt.Println(title)
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Play 'tankduel play' and finish a duel to record one!")
		return nil
	}

	t := plainTable().Headers(tui.HistoryColumns...)
	for _, m := range matches {
		t.Row(tui.MatchRow(m)...)
	}
	fmt.Println(t)

	fmt.Println()
	if mapName != "" {
		stats, err := store.Stats(mapName)
		if err != nil {
			return err
		}
		printStats(stats)
		return nil
	}

	all, err := store.AllStats()
	if err != nil {
		return err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		printStats(all[name])
	}
	return nil
}

func printStats(stats *storage.MapStats) {
	fmt.Printf("%-10s RED %d  CYAN %d  draws %d  abandoned %d  (%d matches)\n",
		stats.MapName, stats.Wins1, stats.Wins2, stats.Draws, stats.Abandoned, stats.Matches)
}

func printMatch(store *storage.Store, matchID string) error {
	m, err := store.MatchByID(matchID)
	if err != nil {
		return err
	}
	if m == nil {
		return fmt.Errorf("no match with id %q", matchID)
	}

	t := plainTable().Row("Match", m.MatchID)
	row := tui.MatchRow(*m)
	for i, col := range tui.HistoryColumns {
		t.Row(col, row[i])
	}
	t.Row("Started", m.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Println(t)
	return nil
}

// plainTable returns an uncoloured table safe to pipe into other tools.
func plainTable() *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(_, _ int) lipgloss.Style {
			return lipgloss.NewStyle().Padding(0, 1)
		})
}
