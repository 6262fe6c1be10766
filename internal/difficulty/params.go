package difficulty

import (
	"math"
	"time"
)

// EngineParams constrain the search engine's strength.
type EngineParams struct {
	Depth          int
	SkillLevel     int
	MoveRandomness float64
	// TimeLimit is zero when the search is bounded by depth only.
	TimeLimit time.Duration
}

// EngineParams derives search constraints from the current level.
func (c *Controller) EngineParams(timeLimit time.Duration) EngineParams {
	rounded := int(math.Round(c.level))
	return EngineParams{
		Depth:          min(max(rounded, 1), 20),
		SkillLevel:     min(max(rounded, 0), 20),
		MoveRandomness: Randomness(c.level),
		TimeLimit:      timeLimit,
	}
}

// Randomness maps a level to a move randomness in [0, 1]. Each band has
// its own slope.
func Randomness(level float64) float64 {
	var r float64
	switch {
	case level <= 5:
		r = 0.5 - (level-1)*0.05
	case level <= 10:
		r = 0.3 - (level-6)*0.04
	case level <= 15:
		r = 0.1 - (level-11)*0.01
	default:
		r = 0.05 - (level-16)*0.01
	}
	return math.Max(0, math.Min(1, r))
}
