package difficulty

import (
	"math"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

// Level bounds and tuning.
const (
	MinLevel     = 1.0
	MaxLevel     = 20.0
	DefaultLevel = 10.0

	maxGameDrift   = 2.0
	maxMoveDelta   = 0.5
	smoothing      = 0.3
	patternRate    = 0.3
	patternBoost   = 0.3
	trendThreshold = 0.1
	drawNudge      = 0.3
)

var moveAdjustments = map[model.MoveQuality]float64{
	model.QualityBlunder:    -0.5,
	model.QualityMistake:    -0.3,
	model.QualityInaccuracy: -0.1,
	model.QualityGood:       0.1,
	model.QualityExcellent:  0.3,
	model.QualityBook:       0.2,
}

// Trend is the direction of the latest adjustment.
type Trend string

// Trends.
const (
	TrendIncreasing Trend = "increasing"
	TrendDecreasing Trend = "decreasing"
	TrendStable     Trend = "stable"
)

// Seed carries the inputs used to pick a starting level, in priority order.
type Seed struct {
	// Level is an explicit starting level.
	Level *float64
	// Rating is a profile rating; zero means none.
	Rating float64
	// History is a legacy aggregate used when no rating is known.
	History *stats.Stats
}

// Controller tracks the current difficulty level.
type Controller struct {
	level          float64
	gameStartLevel float64
	min, max       float64
	window         *Window
	trend          Trend
	wins, losses   int
}

// New returns a controller bounded to [minLevel, maxLevel] within [1, 20].
func New(seed Seed, minLevel, maxLevel float64, windowSize int) *Controller {
	c := &Controller{
		min:    math.Max(MinLevel, minLevel),
		max:    math.Min(MaxLevel, maxLevel),
		window: NewWindow(windowSize),
		trend:  TrendStable,
	}
	if c.min > c.max {
		c.min, c.max = c.max, c.min
	}
	c.level = c.clamp(c.initialLevel(seed))
	c.gameStartLevel = c.level
	return c
}

func (c *Controller) initialLevel(seed Seed) float64 {
	switch {
	case seed.Level != nil:
		return *seed.Level
	case seed.Rating > 0:
		return LevelForRating(seed.Rating)
	case seed.History != nil && seed.History.GamesPlayed > 0:
		return levelFromHistory(*seed.History)
	default:
		return DefaultLevel
	}
}

// LevelForRating maps a rating onto the level scale.
func LevelForRating(rating float64) float64 {
	if rating <= 400 {
		return MinLevel
	}
	return math.Min(MaxLevel, (rating-400)/110+1)
}

func levelFromHistory(s stats.Stats) float64 {
	base := 5 + s.Accuracy()/100*10
	winTerm := (s.WinRate() - 50) / 50 * 3
	var lossTerm float64
	switch avg := s.AverageLoss(); {
	case avg < 20:
		lossTerm = 2
	case avg < 50:
		lossTerm = 1
	case avg > 100:
		lossTerm = -2
	case avg > 70:
		lossTerm = -1
	}
	return base + winTerm + lossTerm
}

func (c *Controller) clamp(level float64) float64 {
	return math.Max(c.min, math.Min(c.max, level))
}

// RecordMove nudges the level after a player move.
func (c *Controller) RecordMove(q model.MoveQuality) {
	c.window.Record(q)

	delta := moveAdjustments[q]
	switch {
	case q == model.QualityBlunder && c.window.BlunderRate() > patternRate:
		delta -= patternBoost
	case q == model.QualityExcellent && c.window.ExcellentRate() > patternRate:
		delta += patternBoost
	}
	delta = math.Max(-maxMoveDelta, math.Min(maxMoveDelta, delta))

	next := c.level + delta*smoothing
	next = math.Max(c.gameStartLevel-maxGameDrift, math.Min(c.gameStartLevel+maxGameDrift, next))
	c.level = c.clamp(next)

	switch {
	case delta > trendThreshold:
		c.trend = TrendIncreasing
	case delta < -trendThreshold:
		c.trend = TrendDecreasing
	default:
		c.trend = TrendStable
	}
}

// AdjustForResult applies the end-of-game adjustment and starts a new game.
func (c *Controller) AdjustForResult(r model.GameResult) {
	var delta float64
	switch r {
	case model.ResultWin:
		c.wins++
		c.losses = 0
		delta = 1 + streakBonus(c.wins)
	case model.ResultLoss:
		c.losses++
		c.wins = 0
		delta = -1 - streakBonus(c.losses)
	default:
		c.wins, c.losses = 0, 0
		switch c.trend {
		case TrendIncreasing:
			delta = drawNudge
		case TrendDecreasing:
			delta = -drawNudge
		}
	}
	c.level = c.clamp(c.level + delta)
	c.BeginGame()
}

func streakBonus(streak int) float64 {
	var bonus float64
	if streak >= 3 {
		bonus += 0.5
	}
	if streak >= 5 {
		bonus += 0.5
	}
	return bonus
}

// BeginGame snapshots the level as the new game's anchor and clears the
// recent window.
func (c *Controller) BeginGame() {
	c.gameStartLevel = c.level
	c.window.Clear()
	c.trend = TrendStable
}

// SetLevel overrides the level without smoothing.
func (c *Controller) SetLevel(level float64) {
	c.level = c.clamp(level)
	c.gameStartLevel = c.level
}

// SetBounds narrows the allowed range, re-clamping the current level.
func (c *Controller) SetBounds(minLevel, maxLevel float64) {
	lo, hi := math.Min(minLevel, maxLevel), math.Max(minLevel, maxLevel)
	c.min = math.Max(MinLevel, lo)
	c.max = math.Min(MaxLevel, hi)
	c.level = c.clamp(c.level)
}

// Reset returns to the default level and clears streaks.
func (c *Controller) Reset() {
	c.level = c.clamp(DefaultLevel)
	c.wins, c.losses = 0, 0
	c.BeginGame()
}

// Level returns the level rounded to the nearest integer.
func (c *Controller) Level() int { return int(math.Round(c.level)) }

// PreciseLevel returns the continuous level.
func (c *Controller) PreciseLevel() float64 { return c.level }

// GameStartLevel returns the level the current game started at.
func (c *Controller) GameStartLevel() float64 { return c.gameStartLevel }

// Trend returns the direction of the latest move adjustment.
func (c *Controller) Trend() Trend { return c.trend }

// WindowLen returns the number of moves in the recent window.
func (c *Controller) WindowLen() int { return c.window.Len() }

// Status is a snapshot for display.
type Status struct {
	Level             int     `json:"level"`
	PreciseLevel      float64 `json:"precise_level"`
	Trend             Trend   `json:"trend"`
	ConsecutiveWins   int     `json:"consecutive_wins"`
	ConsecutiveLosses int     `json:"consecutive_losses"`
	RecentAccuracy    float64 `json:"recent_accuracy"`
	MinLevel          float64 `json:"min_level"`
	MaxLevel          float64 `json:"max_level"`
}

// Status reports the controller state.
func (c *Controller) Status() Status {
	return Status{
		Level:             c.Level(),
		PreciseLevel:      math.Round(c.level*100) / 100,
		Trend:             c.trend,
		ConsecutiveWins:   c.wins,
		ConsecutiveLosses: c.losses,
		RecentAccuracy:    math.Round(c.window.Accuracy()*1000) / 10,
		MinLevel:          c.min,
		MaxLevel:          c.max,
	}
}
