package main

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arc-scorecard/internal/driver"
	"github.com/vovakirdan/arc-scorecard/internal/session"
	"github.com/vovakirdan/arc-scorecard/internal/storage"
)

var flagArchive bool

var replayCmd = &cobra.Command{
	Use:   "replay [file]",
	Short: "Run a command stream and print one result per line",
	Long: `Reads JSON-lines commands from a file (or stdin when no file or "-" is
given) and writes one JSON result line per command to stdout.

Commands: open, bind, step, report, summary, close, idle.
Use "$last" as card_id to refer to the most recently opened scorecard.

Examples:
  scorecard replay session.jsonl
  scorecard replay --archive session.jsonl
  cat session.jsonl | scorecard replay`,
	Args: cobra.MaximumNArgs(1),
	Run:  runReplay,
}

func init() {
	replayCmd.Flags().BoolVar(&flagArchive, "archive", false, "Archive closed scorecards to the database")
}

func runReplay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	games := loadCatalog(cfg)
	logger := newLogger("replay", cfg.LogLevel())

	var in io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			exitf("Error opening %s: %v", args[0], err)
		}
		defer f.Close()
		in = f
	}

	opts := []session.Option{session.WithLogger(logger)}
	if flagArchive {
		store, err := storage.Open(cfg.Storage.DSN)
		if err != nil {
			exitf("Error opening archive: %v", err)
		}
		defer store.Close()
		opts = append(opts, session.WithClosedHandler(store))
	}

	reg := session.NewRegistry(opts...)
	d := driver.New(reg, games, driver.Config{
		MaxOpaqueBytes: cfg.Opaque.MaxBytes,
		IdleThreshold:  cfg.Session.StaleThreshold(),
	}, logger)

	stats, err := d.Run(context.Background(), in, os.Stdout)
	if err != nil {
		logger.Error("replay stopped", "err", err)
	}
	logger.Info("replay finished", "commands", stats.Commands, "failed", stats.Failed, "open", reg.Count())
}
