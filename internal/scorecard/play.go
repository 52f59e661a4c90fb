package scorecard

import "github.com/vovakirdan/arc-scorecard/internal/core"

// LevelTransition records the action count at the moment levels_completed changed.
type LevelTransition struct {
	Level   int `json:"level"`
	Actions int `json:"actions"`
}

// Play is one attempt at one game by one session id.
type Play struct {
	SessionID       string            `json:"guid"`
	LevelsCompleted int               `json:"levels_completed"`
	Actions         int               `json:"actions"`
	Resets          int               `json:"resets"`
	State           core.GameState    `json:"state"`
	Transitions     []LevelTransition `json:"actions_by_level"`
}

func newPlay(sessionID string) Play {
	return Play{
		SessionID: sessionID,
		State:     core.StateNotFinished,
	}
}

// setLevelsCompleted appends a transition when the value changes.
func (p *Play) setLevelsCompleted(levels int) {
	if levels != p.LevelsCompleted {
		p.Transitions = append(p.Transitions, LevelTransition{Level: levels, Actions: p.Actions})
	}
	p.LevelsCompleted = levels
}

// violation describes the first broken invariant, or "" when the play is consistent.
func (p *Play) violation() string {
	switch {
	case p.Actions < 0:
		return "negative action count"
	case p.Resets > p.Actions:
		return "more resets than actions"
	case len(p.Transitions) > p.LevelsCompleted:
		return "more level transitions than levels completed"
	}
	for i := 1; i < len(p.Transitions); i++ {
		if p.Transitions[i].Actions < p.Transitions[i-1].Actions {
			return "level transitions out of order"
		}
	}
	return ""
}

// clamp restores the invariants after a violation.
func (p *Play) clamp() {
	if p.Actions < 0 {
		p.Actions = 0
	}
	if p.Resets > p.Actions {
		p.Resets = p.Actions
	}
	if len(p.Transitions) > p.LevelsCompleted {
		p.Transitions = p.Transitions[:p.LevelsCompleted]
	}
	for i := 1; i < len(p.Transitions); i++ {
		if p.Transitions[i].Actions < p.Transitions[i-1].Actions {
			p.Transitions[i].Actions = p.Transitions[i-1].Actions
		}
	}
}

func (p Play) clone() Play {
	if p.Transitions != nil {
		p.Transitions = append([]LevelTransition(nil), p.Transitions...)
	}
	return p
}
