// Package scoring normalizes play results against human baseline action counts.
package scoring

import "github.com/vovakirdan/arc-scorecard/internal/core"

// Diagnostic messages carried by scores that could not be computed normally.
// A real zero score never has a message.
const (
	MsgNoCatalogEntry       = "no matching catalog entry"
	MsgBaselinesUnavailable = "baselines not available"
	MsgBaselineMismatch     = "baseline size mismatch"
)

// MaxLevelScore caps the score of a single level.
const MaxLevelScore = 100.0

// Score is the computed result for one play or one tag aggregate.
// Optional fields are nil or empty when they do not apply.
type Score struct {
	ID              string          `json:"id,omitempty"`
	GUID            string          `json:"guid,omitempty"`
	Score           float64         `json:"score"`
	LevelsCompleted int             `json:"levels_completed"`
	Actions         int             `json:"actions"`
	Resets          *int            `json:"resets,omitempty"`
	State           *core.GameState `json:"state,omitempty"`
	Completed       *bool           `json:"completed,omitempty"`
	LevelScores     []float64       `json:"level_scores,omitempty"`
	LevelActions    []int           `json:"level_actions,omitempty"`
	LevelBaselines  []int           `json:"level_baseline_actions,omitempty"`
	Message         string          `json:"message,omitempty"`

	// Tag aggregates only.
	NumberOfLevels       *int `json:"number_of_levels,omitempty"`
	NumberOfEnvironments *int `json:"number_of_environments,omitempty"`
}

// Degraded reports whether the score fell back to a diagnostic zero.
func (s Score) Degraded() bool {
	return s.Message != ""
}

func ptr[T any](v T) *T {
	return &v
}
