// Package report projects a scorecard snapshot into the externally
// consumed benchmark report. Projection is pure: the same snapshot and
// catalog always produce the same report.
package report

import (
	"encoding/json"
	"time"

	"github.com/vovakirdan/arc-scorecard/internal/scoring"
)

// GameScores holds one score per play of a game, in attempt order.
type GameScores struct {
	ID   string          `json:"id"`
	Runs []scoring.Score `json:"runs"`
	// BestRun indexes the play with the most levels completed.
	BestRun int `json:"best_run"`

	Score           float64 `json:"score"`
	LevelsCompleted int     `json:"levels_completed"`
	Actions         int     `json:"actions"`
	Resets          int     `json:"resets"`
	Completed       bool    `json:"completed"`
	LevelCount      int     `json:"level_count"`
}

// Best returns the score of the best play.
func (g GameScores) Best() scoring.Score {
	return g.Runs[g.BestRun]
}

// Report is a snapshot of a scorecard's computed scores.
type Report struct {
	CardID    string          `json:"card_id"`
	OwnerKey  string          `json:"-"`
	SourceURL string          `json:"source_url,omitempty"`
	Tags      []string        `json:"tags,omitempty"`
	Opaque    json.RawMessage `json:"opaque,omitempty"`

	Score        float64         `json:"score"`
	Environments []GameScores    `json:"environments"`
	TagScores    []scoring.Score `json:"tags_scores"`

	TotalEnvironments          int `json:"total_environments"`
	TotalEnvironmentsCompleted int `json:"total_environments_completed"`
	TotalLevels                int `json:"total_levels"`
	TotalLevelsCompleted       int `json:"total_levels_completed"`
	TotalActions               int `json:"total_actions"`

	OpenedAt     time.Time `json:"opened_at"`
	LastActivity time.Time `json:"last_activity_at"`
}

// Game returns the scores of one game.
func (r Report) Game(gameID string) (GameScores, bool) {
	for _, g := range r.Environments {
		if g.ID == gameID {
			return g, true
		}
	}
	return GameScores{}, false
}

// Tag returns the aggregate score of one tag.
func (r Report) Tag(tag string) (scoring.Score, bool) {
	for _, s := range r.TagScores {
		if s.ID == tag {
			return s, true
		}
	}
	return scoring.Score{}, false
}
