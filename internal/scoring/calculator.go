package scoring

// LevelScore normalizes one level: baseline/actions*100 capped at 100.
// Uncompleted levels and levels completed with zero actions score 0.
func LevelScore(completed bool, actions, baseline int) float64 {
	if !completed || actions <= 0 {
		return 0
	}
	return min(float64(baseline)/float64(actions)*100, MaxLevelScore)
}

// Level is one level's contribution to a calculator.
type Level struct {
	Completed bool
	Actions   int
	Baseline  int
}

// Calculator accumulates level results and averages them.
// The same accumulator scores a single play and a tag spanning many games.
type Calculator struct {
	id              string
	levelScores     []float64
	levelActions    []int
	levelBaselines  []int
	levelsCompleted int
	actions         int
	environments    map[string]struct{}
}

// NewCalculator creates an empty calculator for the given game or tag id.
func NewCalculator(id string) *Calculator {
	return &Calculator{
		id:           id,
		environments: make(map[string]struct{}),
	}
}

// AddLevel adds one level. gameID may be empty when environments are not counted.
func (c *Calculator) AddLevel(lvl Level, gameID string) {
	c.actions += lvl.Actions
	if gameID != "" {
		c.environments[gameID] = struct{}{}
	}
	if lvl.Completed {
		c.levelsCompleted++
	}
	c.levelScores = append(c.levelScores, LevelScore(lvl.Completed, lvl.Actions, lvl.Baseline))
	c.levelActions = append(c.levelActions, lvl.Actions)
	c.levelBaselines = append(c.levelBaselines, lvl.Baseline)
}

// Mean returns the arithmetic mean of the level scores, 0 when empty.
func (c *Calculator) Mean() float64 {
	if len(c.levelScores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range c.levelScores {
		sum += s
	}
	return sum / float64(len(c.levelScores))
}

// Score returns the result with the per-level arrays.
func (c *Calculator) Score() Score {
	return Score{
		ID:              c.id,
		Score:           c.Mean(),
		LevelsCompleted: c.levelsCompleted,
		Actions:         c.actions,
		LevelScores:     append([]float64(nil), c.levelScores...),
		LevelActions:    append([]int(nil), c.levelActions...),
		LevelBaselines:  append([]int(nil), c.levelBaselines...),
	}
}

// Aggregate returns the result with level and environment counts instead of arrays.
func (c *Calculator) Aggregate() Score {
	return Score{
		ID:                   c.id,
		Score:                c.Mean(),
		LevelsCompleted:      c.levelsCompleted,
		Actions:              c.actions,
		NumberOfLevels:       ptr(len(c.levelScores)),
		NumberOfEnvironments: ptr(len(c.environments)),
	}
}
