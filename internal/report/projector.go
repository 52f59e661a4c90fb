package report

import (
	"github.com/vovakirdan/arc-scorecard/internal/catalog"
	"github.com/vovakirdan/arc-scorecard/internal/scorecard"
	"github.com/vovakirdan/arc-scorecard/internal/scoring"
)

// Catalog resolves game ids to baselines and tags.
type Catalog interface {
	Lookup(gameID string) (catalog.Entry, bool)
}

// Project builds the report for a scorecard snapshot.
//
// Every play is scored, but only the best play of each game feeds the tag
// aggregates so that repeated attempts are not counted twice. Games the
// catalog does not know still get a zero score with a message.
func Project(snap scorecard.Snapshot, games Catalog) Report {
	r := Report{
		CardID:       snap.CardID,
		OwnerKey:     snap.OwnerKey,
		SourceURL:    snap.SourceURL,
		Tags:         snap.Tags,
		Opaque:       snap.Opaque,
		Environments: []GameScores{},
		TagScores:    []scoring.Score{},
		OpenedAt:     snap.OpenedAt,
		LastActivity: snap.LastActivity,
	}

	tags := newTagSet()
	for _, card := range snap.Cards {
		if !card.Started() {
			continue
		}

		entry, known := games.Lookup(card.GameID)
		best := BestPlay(card)

		gs := GameScores{ID: card.GameID, BestRun: best}
		for i, play := range card.Plays {
			if !known {
				gs.Runs = append(gs.Runs, scoring.Unscored(card.GameID, play, scoring.MsgNoCatalogEntry))
				continue
			}
			score, levels := scoring.ScorePlay(card.GameID, entry.BaselineActions, play)
			gs.Runs = append(gs.Runs, score)
			if i == best {
				tags.add(entry.Tags, card.GameID, levels)
			}
		}
		summarize(&gs)
		r.Environments = append(r.Environments, gs)
	}

	r.TagScores = tags.scores()
	totals(&r)
	return r
}

// BestPlay returns the index of the play with the most levels completed.
// Ties go to the earliest play. It returns -1 for a card without plays.
func BestPlay(card scorecard.Card) int {
	best, bestLevels := -1, -1
	for i, p := range card.Plays {
		if p.LevelsCompleted > bestLevels {
			best, bestLevels = i, p.LevelsCompleted
		}
	}
	return best
}

func summarize(gs *GameScores) {
	gs.Score = gs.Runs[gs.BestRun].Score
	for _, run := range gs.Runs {
		gs.LevelsCompleted = max(gs.LevelsCompleted, run.LevelsCompleted)
		gs.Actions += run.Actions
		if run.Resets != nil {
			gs.Resets += *run.Resets
		}
		if run.Completed != nil && *run.Completed {
			gs.Completed = true
		}
		gs.LevelCount = max(gs.LevelCount, len(run.LevelScores))
	}
}

func totals(r *Report) {
	sum := 0.0
	for _, g := range r.Environments {
		sum += g.Score
		r.TotalActions += g.Actions
		r.TotalLevelsCompleted += g.LevelsCompleted
		r.TotalLevels += g.LevelCount
		if g.Completed {
			r.TotalEnvironmentsCompleted++
		}
	}
	r.TotalEnvironments = len(r.Environments)
	if len(r.Environments) > 0 {
		r.Score = sum / float64(len(r.Environments))
	}
}

// tagSet keeps one calculator per tag in first-seen order.
type tagSet struct {
	order []string
	calcs map[string]*scoring.Calculator
}

func newTagSet() *tagSet {
	return &tagSet{calcs: make(map[string]*scoring.Calculator)}
}

// add feeds a game's best-play levels to each of its tags once.
func (t *tagSet) add(tags []string, gameID string, levels []scoring.Level) {
	if len(levels) == 0 {
		return
	}
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		if seen[tag] {
			continue
		}
		seen[tag] = true

		calc, ok := t.calcs[tag]
		if !ok {
			calc = scoring.NewCalculator(tag)
			t.calcs[tag] = calc
			t.order = append(t.order, tag)
		}
		for _, lvl := range levels {
			calc.AddLevel(lvl, gameID)
		}
	}
}

func (t *tagSet) scores() []scoring.Score {
	out := make([]scoring.Score, 0, len(t.order))
	for _, tag := range t.order {
		out = append(out, t.calcs[tag].Aggregate())
	}
	return out
}
