package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/storage"
)

var (
	flagHistoryLimit int
	flagHistoryGame  string
)

var historyCmd = &cobra.Command{
	Use:   "history [card_id]",
	Short: "Show archived scorecards",
	Long: `Without arguments, lists the most recently closed scorecards followed by
per-game statistics.
With a card id, shows that scorecard's full report.
With --game, shows aggregate statistics for one game across all archived plays.

Examples:
  scorecard history
  scorecard history --limit 50
  scorecard history 0b5f5c1e-6d1b-4a57-9f8e-2a8f0f6b9d10
  scorecard history --game bt11`,
	Args: cobra.MaximumNArgs(1),
	Run:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagHistoryLimit, "limit", 20, "Number of scorecards to list")
	historyCmd.Flags().StringVar(&flagHistoryGame, "game", "", "Show statistics for one game")
}

func runHistory(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if cfg.Storage.DSN == "" {
		exitf("Error: no archive configured (set storage.dsn or --db)")
	}

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		exitf("Error opening archive: %v", err)
	}
	defer store.Close()

	st := newStyles(isTerminal())
	switch {
	case len(args) == 1:
		showClosed(store, st, args[0])
	case flagHistoryGame != "":
		showGameStats(store, st, flagHistoryGame, loadCatalog(cfg))
	default:
		listClosed(store, st, flagHistoryLimit)
		listGameStats(store, st, loadCatalog(cfg))
	}
}

func listClosed(store *storage.Store, st styles, limit int) {
	records, err := store.RecentClosed(limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving history: %v\n", err)
		return
	}

	fmt.Println(st.title.Render("Closed scorecards"))
	fmt.Println()

	if len(records) == 0 {
		fmt.Println("No scorecards archived yet.")
		fmt.Println()
		fmt.Println("Run 'scorecard serve' or 'scorecard replay --archive' to record some.")
		return
	}

	fmt.Printf("  %s  %s  %s  %s  %s\n",
		st.header.Render(pad("Card", 36)), st.header.Render(pad("Score", 7)),
		st.header.Render(pad("Games", 7)), st.header.Render(pad("Reason", 9)), st.header.Render("Closed"))
	for _, r := range records {
		fmt.Printf("  %s  %s  %-7s  %-9s  %s\n",
			st.id.Render(pad(r.CardID, 36)), st.scoreStyle(r.Score).Render(pad(fmt.Sprintf("%.1f", r.Score), 7)),
			fmt.Sprintf("%d/%d", r.TotalEnvironmentsCompleted, r.TotalEnvironments),
			r.Reason, st.dim.Render(r.ClosedAt.Local().Format("2006-01-02 15:04")))
	}
}

func showClosed(store *storage.Store, st styles, cardID string) {
	rec, err := store.ClosedByID(cardID)
	if err != nil {
		exitf("Error retrieving scorecard: %v", err)
	}
	if rec == nil {
		exitf("Error: scorecard %q is not in the archive", cardID)
	}
	renderReport(os.Stdout, st, *rec.Report)
	fmt.Printf("\nClosed %s (%s)\n", rec.ClosedAt.Local().Format("2006-01-02 15:04"), rec.Reason)
}

func listGameStats(store *storage.Store, st styles, games *catalog.Catalog) {
	stats, err := store.GetAllGamesStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		return
	}
	if len(stats) == 0 {
		return
	}
	fmt.Println()
	fmt.Println(st.title.Render("Games"))
	fmt.Println()
	renderAllGameStats(os.Stdout, st, stats, games)
}

func showGameStats(store *storage.Store, st styles, gameID string, games *catalog.Catalog) {
	stats, err := store.GetGameStats(gameID)
	if err != nil {
		exitf("Error retrieving stats: %v", err)
	}

	fmt.Println(st.title.Render("Game " + gameID))
	if !games.Exists(gameID) {
		fmt.Println(st.dim.Render("not in the current catalog"))
	}
	fmt.Println()
	if stats.Plays == 0 {
		fmt.Println("No archived plays.")
		return
	}
	fmt.Printf("  Plays:        %d\n", stats.Plays)
	fmt.Printf("  Wins:         %d\n", stats.Wins)
	fmt.Printf("  Best score:   %s\n", st.scoreStyle(stats.BestScore).Render(fmt.Sprintf("%.1f", stats.BestScore)))
	fmt.Printf("  Avg score:    %.1f\n", stats.AvgScore)
	fmt.Printf("  Actions:      %d\n", stats.Actions)
	fmt.Printf("  Last played:  %s\n", stats.LastPlayed.Local().Format("2006-01-02 15:04"))
}
