package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/arc-scorecard/internal/driver"
	"github.com/vovakirdan/arc-scorecard/internal/session"
	"github.com/vovakirdan/arc-scorecard/internal/storage"
)

var flagNoArchive bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Process commands from stdin with idle reaping",
	Long: `Reads JSON-lines commands from stdin until EOF or interrupt, writing one
result line per command to stdout. A background reaper closes scorecards
that received no events for session.stale_minutes; closed scorecards are
archived to the database unless --no-archive is given.

Examples:
  agent | scorecard serve
  agent | scorecard serve --db postgres://scores@localhost/scorecards
  SCORECARD_STALE_MINUTES=5 scorecard serve < commands.jsonl`,
	Run: runServe,
}

func init() {
	serveCmd.Flags().BoolVar(&flagNoArchive, "no-archive", false, "Do not archive closed scorecards")
}

func runServe(_ *cobra.Command, _ []string) {
	cfg := loadConfig()
	games := loadCatalog(cfg)
	logger := newLogger("scorecard", cfg.LogLevel())

	opts := []session.Option{session.WithLogger(logger)}
	if !flagNoArchive && cfg.Storage.DSN != "" {
		store, err := storage.Open(cfg.Storage.DSN)
		if err != nil {
			logger.Warn("could not open archive", "error", err)
			// Continue without archive
		} else {
			defer store.Close()
			opts = append(opts, session.WithClosedHandler(store))
		}
	}

	reg := session.NewRegistry(opts...)
	reaper := session.NewReaper(reg, games, session.ReaperConfig{
		Threshold: cfg.Session.StaleThreshold(),
		Interval:  cfg.Session.ReapInterval,
	}, logger)
	reaper.Start()
	defer reaper.Stop()

	d := driver.New(reg, games, driver.Config{
		MaxOpaqueBytes: cfg.Opaque.MaxBytes,
		IdleThreshold:  cfg.Session.StaleThreshold(),
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving commands on stdin",
		"stale", cfg.Session.StaleThreshold(), "reap_interval", cfg.Session.ReapInterval, "games", games.Len())

	stats, err := d.Run(ctx, os.Stdin, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("command stream failed", "error", err)
	}
	logger.Info("shutting down...", "commands", stats.Commands, "failed", stats.Failed, "open", reg.Count())
}
