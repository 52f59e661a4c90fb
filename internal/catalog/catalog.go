// Package catalog holds the known games, their tags and human baselines.
// Reports look games up here at projection time; an unknown game still
// gets a score, just a diagnostic zero.
package catalog

import (
	"fmt"
	"sort"
	"sync"
)

// Entry describes one known game.
type Entry struct {
	GameID string `yaml:"game_id" json:"game_id"`
	Title  string `yaml:"title" json:"title,omitempty"`
	// Tags group games for aggregate scoring.
	Tags []string `yaml:"tags" json:"tags,omitempty"`
	// BaselineActions holds the reference action count per level.
	// Empty means no baseline is available.
	BaselineActions []int `yaml:"baseline_actions" json:"baseline_actions,omitempty"`
}

// Validate checks an entry before registration.
func (e Entry) Validate() error {
	if e.GameID == "" {
		return fmt.Errorf("catalog: game_id is required")
	}
	for i, b := range e.BaselineActions {
		if b < 0 {
			return fmt.Errorf("catalog: game %q: negative baseline %d for level %d", e.GameID, b, i+1)
		}
	}
	return nil
}

func (e Entry) clone() Entry {
	e.Tags = append([]string(nil), e.Tags...)
	e.BaselineActions = append([]int(nil), e.BaselineActions...)
	return e
}

// Catalog is a thread-safe set of game entries keyed by game id.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a catalog holding the given entries.
func New(entries ...Entry) (*Catalog, error) {
	c := &Catalog{entries: make(map[string]Entry, len(entries))}
	for _, e := range entries {
		if err := c.Register(e); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds an entry. A game id can only be registered once.
func (c *Catalog) Register(e Entry) error {
	if err := e.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[e.GameID]; exists {
		return fmt.Errorf("catalog: game %q already registered", e.GameID)
	}
	c.entries[e.GameID] = e.clone()
	return nil
}

// Lookup returns the entry for gameID.
func (c *Catalog) Lookup(gameID string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[gameID]
	if !ok {
		return Entry{}, false
	}
	return e.clone(), true
}

// Exists checks if a game with the given id is registered.
func (c *Catalog) Exists(gameID string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.entries[gameID]
	return ok
}

// List returns all entries sorted by game id.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		result = append(result, e.clone())
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].GameID < result[j].GameID
	})

	return result
}

// Len returns the number of registered games.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
