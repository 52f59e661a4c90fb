// Package scorecard tracks plays of many games within one scoring context.
//
// A Scorecard owns one Card per game id and each Card owns the ordered
// plays recorded for that game. Events mutate a Scorecard under its own
// lock; readers take a deep Snapshot and never touch live state.
package scorecard

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/arc-scorecard/internal/core"
)

// Strict makes invariant violations panic instead of being clamped.
var Strict = false

// Meta is the caller-supplied metadata of a scorecard.
type Meta struct {
	OwnerKey  string
	SourceURL string
	Tags      []string
	Opaque    json.RawMessage
}

// Scorecard is a named collection of cards plus metadata.
type Scorecard struct {
	id   string
	meta Meta

	mu           sync.Mutex
	cards        map[string]*Card
	order        []string // game ids in first-seen order
	openedAt     time.Time
	lastActivity time.Time
}

// New creates an empty scorecard opened at now.
func New(id string, meta Meta, now time.Time) *Scorecard {
	meta.Tags = append([]string(nil), meta.Tags...)
	if meta.Opaque != nil {
		meta.Opaque = append(json.RawMessage(nil), meta.Opaque...)
	}
	return &Scorecard{
		id:           id,
		meta:         meta,
		cards:        make(map[string]*Card),
		openedAt:     now,
		lastActivity: now,
	}
}

// ID returns the scorecard identifier.
func (s *Scorecard) ID() string {
	return s.id
}

// OwnerKey returns the key the scorecard was opened with.
func (s *Scorecard) OwnerKey() string {
	return s.meta.OwnerKey
}

// LastActivity returns the time of the last mutating event.
func (s *Scorecard) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Apply records one step event and returns the resulting play state.
//
// The order is fixed: reset bookkeeping, action count, terminal state,
// level transition, activity timestamp. Level bookkeeping must see the
// action count produced by the earlier steps. Events for a session with no
// play under the event's game are dropped and report StateNotPlayed, but
// still count as activity. Malformed events change nothing.
func (s *Scorecard) Apply(ev core.StepEvent, now time.Time) (core.GameState, error) {
	if err := ev.Validate(); err != nil {
		return core.StateNotPlayed, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	card := s.cards[ev.GameID]
	var play *Play
	if card != nil {
		play = card.play(ev.SessionID)
	}

	startsPlay := ev.Action == core.ActionReset && (ev.FreshAttempt || play == nil)
	if play == nil && !startsPlay {
		s.lastActivity = now
		return core.StateNotPlayed, nil
	}
	if !startsPlay && ev.LevelsCompleted < play.LevelsCompleted {
		return play.State, fmt.Errorf("%w: levels_completed went from %d to %d",
			core.ErrMalformedEvent, play.LevelsCompleted, ev.LevelsCompleted)
	}

	switch ev.Action {
	case core.ActionReset:
		if startsPlay {
			if card == nil {
				card = s.addCard(ev.GameID)
			}
			play = card.appendPlay(ev.SessionID)
		} else {
			play.Resets++
			play.Actions++
		}
	case core.ActionPlay:
		play.Actions++
	}

	if ev.State.Terminal() {
		play.State = ev.State
	}

	play.setLevelsCompleted(ev.LevelsCompleted)
	checkPlay(play)

	s.lastActivity = now
	return play.State, nil
}

func (s *Scorecard) addCard(gameID string) *Card {
	card := &Card{GameID: gameID}
	s.cards[gameID] = card
	s.order = append(s.order, gameID)
	return card
}

func checkPlay(p *Play) {
	msg := p.violation()
	if msg == "" {
		return
	}
	if Strict {
		panic(fmt.Sprintf("scorecard: play %s: %s", p.SessionID, msg))
	}
	p.clamp()
}

// SessionIDs returns every session id that has a play on this scorecard.
func (s *Scorecard) SessionIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool)
	var ids []string
	for _, gameID := range s.order {
		for _, p := range s.cards[gameID].Plays {
			if !seen[p.SessionID] {
				seen[p.SessionID] = true
				ids = append(ids, p.SessionID)
			}
		}
	}
	return ids
}

// Snapshot returns a deep copy of the scorecard state.
func (s *Scorecard) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		CardID:       s.id,
		OwnerKey:     s.meta.OwnerKey,
		SourceURL:    s.meta.SourceURL,
		Tags:         append([]string(nil), s.meta.Tags...),
		OpenedAt:     s.openedAt,
		LastActivity: s.lastActivity,
		Cards:        make([]Card, 0, len(s.order)),
	}
	if s.meta.Opaque != nil {
		snap.Opaque = append(json.RawMessage(nil), s.meta.Opaque...)
	}
	for _, gameID := range s.order {
		snap.Cards = append(snap.Cards, s.cards[gameID].clone())
	}
	return snap
}

// Snapshot is an immutable copy of a scorecard.
// Cards are ordered by the first event seen for each game.
type Snapshot struct {
	CardID       string
	OwnerKey     string
	SourceURL    string
	Tags         []string
	Opaque       json.RawMessage
	Cards        []Card
	OpenedAt     time.Time
	LastActivity time.Time
}

// Card returns the card for gameID.
func (s Snapshot) Card(gameID string) (Card, bool) {
	for _, c := range s.Cards {
		if c.GameID == gameID {
			return c, true
		}
	}
	return Card{}, false
}

// GameSessionKeys returns the deduplicated "<session>.<game>" keys of all plays, sorted.
func (s Snapshot) GameSessionKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, c := range s.Cards {
		for _, p := range c.Plays {
			k := p.SessionID + "." + c.GameID
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	return keys
}

// Summary is the per-scorecard progress view without scoring.
type Summary struct {
	Won             int             `json:"won"`
	Played          int             `json:"played"`
	TotalActions    int             `json:"total_actions"`
	LevelsCompleted int             `json:"levels_completed"`
	Cards           map[string]Card `json:"cards"`
}

// Summary computes progress counters over all cards. When gameID is not
// empty only that card is included in Cards; the counters always cover
// every card.
func (s Snapshot) Summary(gameID string) Summary {
	sum := Summary{Cards: make(map[string]Card)}
	for _, c := range s.Cards {
		if c.Won() {
			sum.Won++
		}
		if c.Started() {
			sum.Played++
		}
		sum.TotalActions += c.TotalActions()
		sum.LevelsCompleted += c.MostLevelsCompleted()
		if gameID == "" || gameID == c.GameID {
			sum.Cards[c.GameID] = c
		}
	}
	return sum
}
