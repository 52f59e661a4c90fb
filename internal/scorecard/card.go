package scorecard

import "github.com/vovakirdan/arc-scorecard/internal/core"

// Card holds every play of one game within a scorecard.
// Plays are append-only.
type Card struct {
	GameID string `json:"game_id"`
	Plays  []Play `json:"plays"`
}

// TotalPlays returns the number of attempts recorded.
func (c *Card) TotalPlays() int {
	return len(c.Plays)
}

// Started reports whether at least one play exists.
func (c *Card) Started() bool {
	return len(c.Plays) > 0
}

// MostLevelsCompleted returns the best levels_completed over all plays, 0 if none.
func (c *Card) MostLevelsCompleted() int {
	best := 0
	for _, p := range c.Plays {
		best = max(best, p.LevelsCompleted)
	}
	return best
}

// TotalActions sums the action counts of all plays.
func (c *Card) TotalActions() int {
	total := 0
	for _, p := range c.Plays {
		total += p.Actions
	}
	return total
}

// Won reports whether any play reached the WIN state.
func (c *Card) Won() bool {
	for _, p := range c.Plays {
		if p.State == core.StateWin {
			return true
		}
	}
	return false
}

// indexOf returns the most recently appended play for sessionID, or -1.
// A session id can be reused; the latest play is authoritative.
func (c *Card) indexOf(sessionID string) int {
	for i := len(c.Plays) - 1; i >= 0; i-- {
		if c.Plays[i].SessionID == sessionID {
			return i
		}
	}
	return -1
}

func (c *Card) play(sessionID string) *Play {
	if i := c.indexOf(sessionID); i >= 0 {
		return &c.Plays[i]
	}
	return nil
}

func (c *Card) appendPlay(sessionID string) *Play {
	c.Plays = append(c.Plays, newPlay(sessionID))
	return &c.Plays[len(c.Plays)-1]
}

func (c *Card) clone() Card {
	out := Card{GameID: c.GameID, Plays: make([]Play, len(c.Plays))}
	for i, p := range c.Plays {
		out.Plays[i] = p.clone()
	}
	return out
}
