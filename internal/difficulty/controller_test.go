package difficulty

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

func fresh() *Controller {
	return New(Seed{}, MinLevel, MaxLevel, DefaultWindowSize)
}

func TestWindowNeverExceedsCapacity(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 10; i++ {
		w.Record(model.QualityBlunder)
		require.LessOrEqual(t, w.Len(), 3)
	}
	w.Record(model.QualityGood)
	assert.InDelta(t, 2.0/3, w.BlunderRate(), 1e-9)
	assert.InDelta(t, 1.0/3, w.Accuracy(), 1e-9)
}

func TestWindowEmptyDefaults(t *testing.T) {
	w := NewWindow(0)
	assert.Equal(t, DefaultWindowSize, w.Cap())
	assert.Equal(t, 0.5, w.Accuracy())
	assert.Equal(t, 0.0, w.BlunderRate())
	assert.Equal(t, 0.0, w.ExcellentRate())
}

func TestBlunderStreakStopsAtGameDriftBound(t *testing.T) {
	c := fresh()
	require.Equal(t, 10.0, c.PreciseLevel())

	prev := c.PreciseLevel()
	for i := 0; i < 6; i++ {
		c.RecordMove(model.QualityBlunder)
		require.Less(t, c.PreciseLevel(), prev, "move %d", i)
		require.GreaterOrEqual(t, c.PreciseLevel(), 8.0)
		prev = c.PreciseLevel()
	}
	assert.InDelta(t, 9.1, c.PreciseLevel(), 1e-9)
	assert.Equal(t, TrendDecreasing, c.Trend())

	for i := 0; i < 30; i++ {
		c.RecordMove(model.QualityBlunder)
	}
	assert.InDelta(t, 8.0, c.PreciseLevel(), 1e-9)
}

func TestExcellentPatternIsCappedPerMove(t *testing.T) {
	c := fresh()
	c.RecordMove(model.QualityExcellent)
	// 0.3 base + 0.3 pattern is capped at 0.5, then smoothed.
	assert.InDelta(t, 10.15, c.PreciseLevel(), 1e-9)
	assert.Equal(t, TrendIncreasing, c.Trend())

	c.RecordMove(model.QualityGood)
	assert.Equal(t, TrendStable, c.Trend())
}

func TestLevelStaysBoundedForRandomPlay(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	c := New(Seed{}, 4, 16, DefaultWindowSize)
	results := []model.GameResult{model.ResultWin, model.ResultLoss, model.ResultDraw}
	for game := 0; game < 40; game++ {
		start := c.GameStartLevel()
		for m := 0; m < 30; m++ {
			c.RecordMove(model.Qualities[rnd.Intn(len(model.Qualities))])
			lvl := c.PreciseLevel()
			require.GreaterOrEqual(t, lvl, 4.0)
			require.LessOrEqual(t, lvl, 16.0)
			require.LessOrEqual(t, lvl-start, 2.0+1e-9)
			require.LessOrEqual(t, start-lvl, 2.0+1e-9)
			require.LessOrEqual(t, c.WindowLen(), DefaultWindowSize)
		}
		c.AdjustForResult(results[rnd.Intn(len(results))])
		require.Equal(t, 0, c.WindowLen())
	}
}

func TestWinStreakBonuses(t *testing.T) {
	start := 5.0
	c := New(Seed{Level: &start}, MinLevel, MaxLevel, DefaultWindowSize)
	want := []float64{6, 7, 8.5, 10, 12}
	for i, w := range want {
		c.AdjustForResult(model.ResultWin)
		require.InDelta(t, w, c.PreciseLevel(), 1e-9, "win %d", i+1)
	}
	assert.Equal(t, 5, c.Status().ConsecutiveWins)
	assert.Equal(t, c.PreciseLevel(), c.GameStartLevel())
}

func TestWinStreakClampedAtMax(t *testing.T) {
	start := 19.0
	c := New(Seed{Level: &start}, MinLevel, MaxLevel, DefaultWindowSize)
	for i := 0; i < 5; i++ {
		c.AdjustForResult(model.ResultWin)
	}
	assert.Equal(t, MaxLevel, c.PreciseLevel())
}

func TestLossStreakAndDrawResetStreaks(t *testing.T) {
	c := fresh()
	for i := 0; i < 3; i++ {
		c.AdjustForResult(model.ResultLoss)
	}
	assert.InDelta(t, 6.5, c.PreciseLevel(), 1e-9)

	c.AdjustForResult(model.ResultDraw)
	st := c.Status()
	assert.Equal(t, 0, st.ConsecutiveLosses)
	assert.Equal(t, 0, st.ConsecutiveWins)
	assert.InDelta(t, 6.5, c.PreciseLevel(), 1e-9)
}

func TestDrawFollowsTrend(t *testing.T) {
	c := fresh()
	c.RecordMove(model.QualityExcellent)
	before := c.PreciseLevel()
	c.AdjustForResult(model.ResultDraw)
	assert.InDelta(t, before+0.3, c.PreciseLevel(), 1e-9)
	assert.Equal(t, TrendStable, c.Trend())

	c.RecordMove(model.QualityMistake)
	before = c.PreciseLevel()
	c.AdjustForResult(model.ResultDraw)
	assert.InDelta(t, before-0.3, c.PreciseLevel(), 1e-9)
}

func TestInitialLevelPriority(t *testing.T) {
	explicit := 3.0
	history := stats.New("p", time.Time{})
	history.Quality = stats.QualityCounts{Total: 10, Good: 10}
	history.Loss = stats.EvalLoss{TotalCentipawnLoss: 100, MoveCount: 10}
	history.GamesPlayed, history.Wins = 2, 2

	cases := []struct {
		name string
		seed Seed
		want float64
	}{
		{"explicit", Seed{Level: &explicit, Rating: 1500, History: history}, 3},
		{"rating", Seed{Rating: 1500, History: history}, 11},
		{"low rating", Seed{Rating: 300}, 1},
		{"history", Seed{History: history}, 20},
		{"default", Seed{}, 10},
		{"empty history", Seed{History: stats.New("p", time.Time{})}, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := New(tc.seed, MinLevel, MaxLevel, DefaultWindowSize)
			assert.InDelta(t, tc.want, c.PreciseLevel(), 1e-9)
		})
	}
}

func TestInitialLevelClampedToBounds(t *testing.T) {
	c := New(Seed{Rating: 2800}, 2, 12, DefaultWindowSize)
	assert.Equal(t, 12.0, c.PreciseLevel())
}

func TestSetLevelAndBounds(t *testing.T) {
	c := fresh()
	c.SetLevel(25)
	assert.Equal(t, MaxLevel, c.PreciseLevel())
	assert.Equal(t, MaxLevel, c.GameStartLevel())

	c.SetBounds(15, 5)
	st := c.Status()
	assert.Equal(t, 5.0, st.MinLevel)
	assert.Equal(t, 15.0, st.MaxLevel)
	assert.Equal(t, 15.0, c.PreciseLevel())

	c.Reset()
	assert.Equal(t, DefaultLevel, c.PreciseLevel())
	assert.Equal(t, 50.0, c.Status().RecentAccuracy)
}

func TestEngineParamsBands(t *testing.T) {
	cases := []struct {
		level      float64
		randomness float64
	}{
		{1, 0.5}, {5, 0.3}, {6, 0.3}, {10, 0.14}, {11, 0.1}, {15, 0.06}, {16, 0.05}, {20, 0.01},
	}
	for _, tc := range cases {
		c := fresh()
		c.SetLevel(tc.level)
		p := c.EngineParams(500 * time.Millisecond)
		assert.InDelta(t, tc.randomness, p.MoveRandomness, 1e-9, "level %.0f", tc.level)
		assert.Equal(t, int(tc.level), p.Depth)
		assert.Equal(t, int(tc.level), p.SkillLevel)
		assert.Equal(t, 500*time.Millisecond, p.TimeLimit)
	}
}
