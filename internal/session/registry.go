// Package session owns the open scorecards and routes step events to them.
//
// Lock order is registry first, then scorecard. RecordEvent applies an event
// while holding the registry read lock, so a concurrent Close either sees the
// event fully applied or not at all.
package session

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/arc-scorecard/internal/core"
	"github.com/vovakirdan/arc-scorecard/internal/report"
	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
)

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

// WithLogger sets the registry logger.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClosedHandler registers a handler for closed scorecards.
func WithClosedHandler(h ClosedHandler) Option {
	return func(r *Registry) {
		r.handlers = append(r.handlers, h)
	}
}

// Registry tracks open scorecards and session bindings.
// Thread-safe for concurrent access.
type Registry struct {
	mu       sync.RWMutex
	cards    map[string]*scorecard.Scorecard // card id -> scorecard
	sessions map[string]string               // session id -> card id

	now      func() time.Time
	logger   *log.Logger
	handlers []ClosedHandler
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		cards:    make(map[string]*scorecard.Scorecard),
		sessions: make(map[string]string),
		now:      time.Now,
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Open creates a scorecard and returns its id.
func (r *Registry) Open(meta scorecard.Meta) string {
	id := uuid.New().String()
	sc := scorecard.New(id, meta, r.now())

	r.mu.Lock()
	r.cards[id] = sc
	r.mu.Unlock()

	r.logger.Info("scorecard opened", "card_id", id, "tags", meta.Tags)
	return id
}

// Bind routes sessionID's events to cardID. It reports false and does
// nothing when cardID is unknown. Rebinding moves the session.
func (r *Registry) Bind(cardID, sessionID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.cards[cardID]; !ok {
		return false
	}
	r.sessions[sessionID] = cardID
	return true
}

// RecordEvent applies ev to the scorecard its session is bound to.
// Events for unbound sessions are dropped and report StateNotPlayed.
// Malformed events are rejected before any state changes.
func (r *Registry) RecordEvent(ev core.StepEvent) (core.GameState, error) {
	if err := ev.Validate(); err != nil {
		return core.StateNotPlayed, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cardID, ok := r.sessions[ev.SessionID]
	if !ok {
		return core.StateNotPlayed, nil
	}
	sc, ok := r.cards[cardID]
	if !ok {
		return core.StateNotPlayed, nil
	}
	return sc.Apply(ev, r.now())
}

// Get returns a snapshot of the scorecard.
func (r *Registry) Get(cardID string, access Access) (scorecard.Snapshot, error) {
	sc, err := r.lookup(cardID, access)
	if err != nil {
		return scorecard.Snapshot{}, err
	}
	return sc.Snapshot(), nil
}

// Report projects the scorecard into a report.
func (r *Registry) Report(cardID string, access Access, games report.Catalog) (report.Report, error) {
	snap, err := r.Get(cardID, access)
	if err != nil {
		return report.Report{}, err
	}
	return report.Project(snap, games), nil
}

// Summary returns the progress view, optionally narrowed to one game.
func (r *Registry) Summary(cardID string, access Access, gameID string) (scorecard.Summary, error) {
	snap, err := r.Get(cardID, access)
	if err != nil {
		return scorecard.Summary{}, err
	}
	return snap.Summary(gameID), nil
}

func (r *Registry) lookup(cardID string, access Access) (*scorecard.Scorecard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sc, ok := r.cards[cardID]
	if !ok || !access.allows(sc.OwnerKey()) {
		return nil, ErrNotFound
	}
	return sc, nil
}

// Close removes the scorecard and detaches its sessions.
// Registered handlers receive the result after the registry lock is released.
func (r *Registry) Close(cardID string, access Access, games report.Catalog) (Closed, error) {
	closed, ok := r.remove(cardID, games, ReasonRequested, func(sc *scorecard.Scorecard) bool {
		return access.allows(sc.OwnerKey())
	})
	if !ok {
		return Closed{}, ErrNotFound
	}
	return closed, nil
}

// closeIdle closes cardID only if it is still idle for at least threshold.
func (r *Registry) closeIdle(cardID string, threshold time.Duration, games report.Catalog) (Closed, bool) {
	return r.remove(cardID, games, ReasonIdle, func(sc *scorecard.Scorecard) bool {
		return r.idle(sc, r.now(), threshold)
	})
}

func (r *Registry) remove(cardID string, games report.Catalog, reason string, allow func(*scorecard.Scorecard) bool) (Closed, bool) {
	r.mu.Lock()
	sc, ok := r.cards[cardID]
	if !ok || !allow(sc) {
		r.mu.Unlock()
		return Closed{}, false
	}

	delete(r.cards, cardID)
	var detached []string
	for sid, cid := range r.sessions {
		if cid == cardID {
			detached = append(detached, sid)
			delete(r.sessions, sid)
		}
	}
	snap := sc.Snapshot()
	r.mu.Unlock()

	sort.Strings(detached)
	closed := Closed{
		Report:          report.Project(snap, games),
		SessionIDs:      detached,
		GameSessionKeys: snap.GameSessionKeys(),
		Reason:          reason,
	}
	r.logger.Info("scorecard closed", "card_id", cardID, "reason", reason,
		"sessions", len(detached), "score", closed.Report.Score)

	for _, h := range r.handlers {
		if err := h.HandleClosed(closed); err != nil {
			r.logger.Error("closed handler failed", "card_id", cardID, "err", err)
		}
	}
	return closed, true
}

// ListIdle returns the ids of scorecards with no activity for at least
// threshold, sorted. It does not change any state.
func (r *Registry) ListIdle(threshold time.Duration) []string {
	now := r.now()

	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, sc := range r.cards {
		if r.idle(sc, now, threshold) {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *Registry) idle(sc *scorecard.Scorecard, now time.Time, threshold time.Duration) bool {
	return now.Sub(sc.LastActivity()) >= threshold
}

// Count returns the number of open scorecards.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.cards)
}

// CardFor returns the card id a session is bound to.
func (r *Registry) CardFor(sessionID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.sessions[sessionID]
	return id, ok
}
