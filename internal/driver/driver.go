// Package driver interprets a JSON-lines command stream against a session
// registry. Every command produces exactly one result line; a failing
// command never stops the stream.
package driver

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
	"github.com/vovakirdan/arc-scorecard/internal/session"
)

// maxLineBytes bounds one command line.
const maxLineBytes = 1 << 20

// Config holds driver settings.
type Config struct {
	MaxOpaqueBytes int
	IdleThreshold  time.Duration // Default threshold for the idle command
}

// Result is written once per command.
type Result struct {
	Op     string `json:"op"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
	Result any    `json:"result,omitempty"`
}

// Stats counts processed commands.
type Stats struct {
	Commands int
	Failed   int
}

// Driver executes commands against a registry.
type Driver struct {
	registry *session.Registry
	games    report.Catalog
	config   Config
	logger   *log.Logger

	lastCard string
}

// New creates a driver.
func New(registry *session.Registry, games report.Catalog, cfg Config, logger *log.Logger) *Driver {
	if cfg.MaxOpaqueBytes <= 0 {
		cfg.MaxOpaqueBytes = session.DefaultMaxOpaqueBytes
	}
	if cfg.IdleThreshold <= 0 {
		cfg.IdleThreshold = session.DefaultReaperConfig().Threshold
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Driver{registry: registry, games: games, config: cfg, logger: logger}
}

// Run reads commands from r until EOF or ctx is done and writes one result
// line per command to w. Blank lines and lines starting with # are skipped.
// Run returns as soon as ctx is done, even while a read is blocked; the
// reading goroutine exits once r yields or closes.
func (d *Driver) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats
	enc := json.NewEncoder(w)
	lines, errc := scanLines(ctx, r)

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		var line []byte
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-errc; err != nil {
					return stats, fmt.Errorf("driver: cannot read commands: %w", err)
				}
				return stats, nil
			}
			line = l
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line = bytes.TrimSpace(line)
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		res := d.ExecuteLine(line)
		stats.Commands++
		if !res.OK {
			stats.Failed++
		}
		if err := enc.Encode(res); err != nil {
			return stats, fmt.Errorf("driver: cannot write result: %w", err)
		}
	}
}

// scanLines feeds lines of r into a channel. The error channel receives the
// scanner error before lines is closed.
func scanLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	errc := make(chan error, 1)

	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
		defer close(lines)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				errc <- nil
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// ExecuteLine decodes and executes one command line.
func (d *Driver) ExecuteLine(line []byte) Result {
	op, msg, err := Decode(line)
	if err != nil {
		d.logger.Warn("rejected command", "op", op, "err", err)
		return Result{Op: op, Error: err.Error()}
	}
	res := d.Execute(msg)
	res.Op = op
	return res
}

// Execute runs one decoded command.
func (d *Driver) Execute(msg Message) Result {
	result, err := d.handleMessage(msg)
	if err != nil {
		d.logger.Debug("command failed", "err", err)
		return Result{Error: err.Error()}
	}
	return Result{OK: true, Result: result}
}

func (d *Driver) handleMessage(msg Message) (any, error) {
	switch m := msg.(type) {
	case OpenMsg:
		return d.handleOpen(m)
	case BindMsg:
		return d.handleBind(m)
	case StepMsg:
		return d.handleStep(m)
	case ReportMsg:
		return d.registry.Report(d.cardID(m.CardID), access(m.OwnerKey), d.games)
	case SummaryMsg:
		return d.registry.Summary(d.cardID(m.CardID), access(m.OwnerKey), m.GameID)
	case CloseMsg:
		return d.registry.Close(d.cardID(m.CardID), access(m.OwnerKey), d.games)
	case IdleMsg:
		return d.handleIdle(m)
	default:
		return nil, fmt.Errorf("driver: unsupported message %T", msg)
	}
}

func (d *Driver) handleOpen(m OpenMsg) (any, error) {
	opaque, err := session.ValidateOpaque(m.Opaque, d.config.MaxOpaqueBytes)
	if err != nil {
		return nil, err
	}
	id := d.registry.Open(scorecard.Meta{
		OwnerKey:  m.OwnerKey,
		SourceURL: m.SourceURL,
		Tags:      m.Tags,
		Opaque:    opaque,
	})
	d.lastCard = id
	return map[string]string{"card_id": id}, nil
}

func (d *Driver) handleBind(m BindMsg) (any, error) {
	sessionID := m.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	cardID := d.cardID(m.CardID)
	if !d.registry.Bind(cardID, sessionID) {
		return nil, session.ErrNotFound
	}
	return map[string]string{"card_id": cardID, "session_id": sessionID}, nil
}

func (d *Driver) handleStep(m StepMsg) (any, error) {
	ev, err := m.Event()
	if err != nil {
		return nil, err
	}
	state, err := d.registry.RecordEvent(ev)
	if err != nil {
		return nil, err
	}
	// card_id is empty for an unbound session.
	cardID, _ := d.registry.CardFor(ev.SessionID)
	return map[string]any{"card_id": cardID, "session_id": ev.SessionID, "state": state}, nil
}

func (d *Driver) handleIdle(m IdleMsg) (any, error) {
	threshold := d.config.IdleThreshold
	if m.Minutes != nil {
		if *m.Minutes < 0 {
			return nil, fmt.Errorf("driver: minutes must not be negative, got %d", *m.Minutes)
		}
		threshold = time.Duration(*m.Minutes) * time.Minute
	}
	ids := d.registry.ListIdle(threshold)
	if ids == nil {
		ids = []string{}
	}
	return map[string][]string{"card_ids": ids}, nil
}

func (d *Driver) cardID(id string) string {
	if id == LastCard {
		return d.lastCard
	}
	return id
}

func access(ownerKey *string) session.Access {
	if ownerKey == nil {
		return session.InternalAccess
	}
	return session.OwnerAccess(*ownerKey)
}
