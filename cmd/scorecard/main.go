// scorecard tracks benchmark plays and turns them into scored reports.
//
// Usage:
//
//	scorecard catalog            - List known games and their baselines
//	scorecard replay [file]      - Run a JSON-lines command stream and print results
//	scorecard serve              - Read commands from stdin with idle reaping and archiving
//	scorecard history [card_id]  - Show archived scorecards
//
// Global flags:
//
//	--config <path>   - Config file (default: search ~/.scorecard, ./configs, built-in)
//	--catalog <path>  - Game catalog file (default: search ~/.scorecard, ./configs, built-in)
//	--db <dsn>        - Archive database, SQLite path or postgres:// DSN
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/config"
)

var (
	// Global flags
	flagConfig  string
	flagCatalog string
	flagDB      string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "scorecard",
	Short: "Scorecard - score benchmark game plays against human baselines",
	Long: `Scorecard records plays of benchmark games, groups them into scorecards
and projects them into reports scored against human baseline action counts.

Available commands:
  catalog  - Show the known games
  replay   - Run a command stream from a file or stdin
  serve    - Long-running stdin server with idle reaping
  history  - View archived scorecards

Examples:
  scorecard catalog
  scorecard replay session.jsonl
  agent | scorecard serve --db ~/.scorecard/archive.db
  scorecard history`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&flagCatalog, "catalog", "", "Path to game catalog file")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Archive database (SQLite path or postgres:// DSN)")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(historyCmd)
}

// newLogger creates the stderr logger for a command.
func newLogger(prefix string, level log.Level) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	logger.SetLevel(level)
	return logger
}

// loadConfig loads the configuration, logging corrections to a bootstrap logger.
func loadConfig() config.Config {
	cfg, err := config.Load(flagConfig, newLogger("scorecard", log.WarnLevel))
	if err != nil {
		exitf("Error loading config: %v", err)
	}
	if flagCatalog != "" {
		cfg.Catalog.Path = flagCatalog
	}
	if flagDB != "" {
		cfg.Storage.DSN = flagDB
	}
	return cfg
}

func loadCatalog(cfg config.Config) *catalog.Catalog {
	games, err := catalog.Load(config.ExpandHome(cfg.Catalog.Path))
	if err != nil {
		exitf("Error loading catalog: %v", err)
	}
	return games
}

func exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
