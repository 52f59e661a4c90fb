package session

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/arc-scorecard/internal/report"
)

// ReaperConfig holds configuration for the idle reaper.
type ReaperConfig struct {
	Threshold time.Duration // Inactivity before a scorecard is closed
	Interval  time.Duration // How often to look for idle scorecards
}

// DefaultReaperConfig returns the default reaper settings.
func DefaultReaperConfig() ReaperConfig {
	return ReaperConfig{
		Threshold: 15 * time.Minute,
		Interval:  time.Minute,
	}
}

// Reaper periodically closes idle scorecards.
type Reaper struct {
	registry *Registry
	games    report.Catalog
	config   ReaperConfig
	logger   *log.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewReaper creates a reaper for registry. Closed scorecards are projected
// against games and delivered to the registry's handlers.
func NewReaper(registry *Registry, games report.Catalog, cfg ReaperConfig, logger *log.Logger) *Reaper {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultReaperConfig().Interval
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultReaperConfig().Threshold
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Reaper{
		registry: registry,
		games:    games,
		config:   cfg,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start begins the background loop.
func (r *Reaper) Start() {
	r.wg.Add(1)
	go r.loop()
}

// Stop ends the background loop and waits for it to exit.
// Safe to call multiple times.
func (r *Reaper) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}

func (r *Reaper) loop() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Sweep()
		case <-r.done:
			return
		}
	}
}

// Sweep closes every scorecard idle at the time of the call.
// A scorecard that receives an event between listing and closing is kept.
func (r *Reaper) Sweep() []Closed {
	ids := r.registry.ListIdle(r.config.Threshold)
	if len(ids) == 0 {
		return nil
	}

	var closed []Closed
	for _, id := range ids {
		c, ok := r.registry.closeIdle(id, r.config.Threshold, r.games)
		if !ok {
			continue
		}
		closed = append(closed, c)
	}
	r.logger.Debug("idle sweep", "candidates", len(ids), "closed", len(closed))
	return closed
}
