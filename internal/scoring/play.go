package scoring

import (
	"github.com/vovakirdan/arc-scorecard/internal/core"
	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
)

// ScorePlay scores one play of gameID against the game's baselines.
//
// Per-level actions are rebuilt from the play's level transitions. Every
// baseline level is scored; levels past the last transition take the
// remaining actions and count as not completed. The returned levels are
// the contributions a tag aggregate should receive; they are nil when the
// score degraded.
func ScorePlay(gameID string, baselines []int, play scorecard.Play) (Score, []Level) {
	switch {
	case len(baselines) == 0:
		return Unscored(gameID, play, MsgBaselinesUnavailable), nil
	case len(baselines) < len(play.Transitions):
		return Unscored(gameID, play, MsgBaselineMismatch), nil
	}

	levels := make([]Level, len(baselines))
	prev := 0
	for i, baseline := range baselines {
		lvl := Level{Baseline: baseline}
		if i < len(play.Transitions) {
			at := play.Transitions[i].Actions
			lvl.Completed = true
			lvl.Actions = at - prev
			prev = at
		} else {
			lvl.Actions = play.Actions - prev
			prev = play.Actions
		}
		levels[i] = lvl
	}

	calc := NewCalculator(gameID)
	for _, lvl := range levels {
		calc.AddLevel(lvl, "")
	}
	score := calc.Score()
	fillPlay(&score, play)
	return score, levels
}

// Unscored returns a zero score with the raw per-level breakdown and a diagnostic message.
// Baselines in the breakdown are -1 because none apply.
func Unscored(gameID string, play scorecard.Play, message string) Score {
	score := Score{ID: gameID, Message: message}

	prev := 0
	for _, tr := range play.Transitions {
		score.LevelActions = append(score.LevelActions, tr.Actions-prev)
		score.LevelScores = append(score.LevelScores, 0)
		score.LevelBaselines = append(score.LevelBaselines, -1)
		prev = tr.Actions
	}
	if play.State != core.StateWin {
		score.LevelActions = append(score.LevelActions, play.Actions-prev)
		score.LevelScores = append(score.LevelScores, 0)
		score.LevelBaselines = append(score.LevelBaselines, -1)
	}

	fillPlay(&score, play)
	return score
}

func fillPlay(score *Score, play scorecard.Play) {
	score.GUID = play.SessionID
	score.LevelsCompleted = play.LevelsCompleted
	score.Actions = play.Actions
	score.Resets = ptr(play.Resets)
	score.State = ptr(play.State)
	score.Completed = ptr(play.State == core.StateWin)
}
