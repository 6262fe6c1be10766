package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/difficulty"
	"github.com/verte-zerg/chesscoach/internal/emotion"
	"github.com/verte-zerg/chesscoach/internal/generator"
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time         { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fakeEngine struct {
	illegal     map[string]bool
	analysis    map[string]model.MoveAnalysis
	classifyErr error
	executeErr  error
	bestMove    string
	bestErr     error
	overAfter   int
	outcome     Outcome
	resultFails int

	executed   []string
	requests   []SearchRequest
	onClassify func()
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{analysis: map[string]model.MoveAnalysis{}, illegal: map[string]bool{}}
}

func (e *fakeEngine) IsLegal(move string) (bool, error) { return !e.illegal[move], nil }

func (e *fakeEngine) Classify(move string) (model.MoveAnalysis, error) {
	if e.onClassify != nil {
		e.onClassify()
	}
	if e.classifyErr != nil {
		return model.MoveAnalysis{}, e.classifyErr
	}
	if a, ok := e.analysis[move]; ok {
		return a, nil
	}
	return model.MoveAnalysis{Quality: model.QualityGood, Phase: model.PhaseOpening}, nil
}

func (e *fakeEngine) Execute(move string) (CommittedMove, error) {
	if e.executeErr != nil {
		return CommittedMove{}, e.executeErr
	}
	e.executed = append(e.executed, move)
	return CommittedMove{Move: move}, nil
}

func (e *fakeEngine) IsGameOver() bool {
	return e.overAfter > 0 && len(e.executed) >= e.overAfter
}

func (e *fakeEngine) Result() (Outcome, error) {
	if !e.IsGameOver() {
		return Outcome{}, errors.New("game in progress")
	}
	if e.resultFails > 0 {
		e.resultFails--
		return Outcome{}, errors.New("result lookup timed out")
	}
	return e.outcome, nil
}

func (e *fakeEngine) BestMove(_ context.Context, req SearchRequest) (string, error) {
	e.requests = append(e.requests, req)
	return e.bestMove, e.bestErr
}

type fixture struct {
	orch   *Orchestrator
	engine *fakeEngine
	repo   *profile.MemoryRepository
	clock  *fakeClock
}

func newFixture(t *testing.T, mutate func(*Options)) fixture {
	t.Helper()
	level := 10.0
	f := fixture{
		engine: newFakeEngine(),
		repo:   profile.NewMemoryRepository(),
		clock:  &fakeClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)},
	}
	opts := Options{
		PlayerID:    "alice",
		PlayerColor: model.ColorWhite,
		Level:       &level,
		Repository:  f.repo,
		Rand:        generator.NewSeeded(7),
		Clock:       f.clock,
	}
	if mutate != nil {
		mutate(&opts)
	}
	orch, err := New(context.Background(), f.engine, opts)
	require.NoError(t, err)
	f.orch = orch
	return f
}

func TestProcessPlayerMoveUpdatesModel(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.analysis["e4"] = model.MoveAnalysis{Quality: model.QualityExcellent, Phase: model.PhaseOpening, CentipawnLoss: 0}

	f.clock.Advance(3 * time.Second)
	res, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.NoError(t, err)

	assert.True(t, res.Legal)
	assert.Equal(t, "e4", res.Move)
	assert.Equal(t, model.QualityExcellent, res.Quality)
	assert.NotEmpty(t, res.Feedback)
	assert.False(t, res.GameOver)
	assert.Empty(t, res.Error)

	s := f.orch.SessionStats()
	assert.Equal(t, 1, s.Quality.Total)
	assert.Equal(t, 1, s.Quality.Excellent)
	assert.Greater(t, f.orch.GetStatus().Difficulty.PreciseLevel, 10.0)
	assert.Equal(t, difficulty.TrendIncreasing, f.orch.GetStatus().Trend)
}

func TestIllegalMoveChangesNothing(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.illegal["e5"] = true

	res, err := f.orch.ProcessPlayerMove(context.Background(), "e5")
	require.NoError(t, err)
	assert.False(t, res.Legal)
	assert.Contains(t, res.Error, ErrInvalidMove.Error())
	assert.Empty(t, res.Feedback)
	assert.Empty(t, f.engine.executed)
	assert.Zero(t, f.orch.SessionStats().Quality.Total)
	assert.Equal(t, 10.0, f.orch.GetStatus().Difficulty.PreciseLevel)
}

func TestClassifyFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.classifyErr = errors.New("evaluator crashed")

	before := f.orch.GetStatus()
	res, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.ErrorIs(t, err, ErrAnalysisFailure)
	assert.False(t, res.Legal)
	assert.NotEmpty(t, res.Error)
	assert.Empty(t, f.engine.executed)
	assert.Zero(t, f.orch.SessionStats().Quality.Total)

	after := f.orch.GetStatus()
	assert.Equal(t, before.Difficulty, after.Difficulty)
	assert.Equal(t, before.Mood, after.Mood)
}

func TestInvalidClassificationIsAnalysisFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.analysis["e4"] = model.MoveAnalysis{Quality: "brilliant", Phase: model.PhaseOpening}

	_, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.ErrorIs(t, err, ErrAnalysisFailure)
	assert.Empty(t, f.engine.executed)
}

func TestExecuteFailureLeavesStateUntouched(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.executeErr = errors.New("board desynced")

	_, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Zero(t, f.orch.SessionStats().Quality.Total)
	assert.Equal(t, 10.0, f.orch.GetStatus().Difficulty.PreciseLevel)
}

func TestGameEndFinalizesProfileOnce(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.overAfter = 2
	f.engine.outcome = Outcome{Winner: model.ColorWhite, Reason: "checkmate"}
	ctx := context.Background()

	res, err := f.orch.ProcessPlayerMove(ctx, "e4")
	require.NoError(t, err)
	require.False(t, res.GameOver)

	res, err = f.orch.ProcessPlayerMove(ctx, "Qxf7#")
	require.NoError(t, err)
	assert.True(t, res.GameOver)
	assert.Equal(t, model.ResultWin, res.Result)
	assert.Contains(t, res.Feedback, "GAME SUMMARY")
	assert.Contains(t, res.Feedback, "Accuracy: 100.0%")

	p := f.orch.Profile()
	require.Len(t, p.GameHistory, 1)
	assert.Equal(t, 10, p.GameHistory[0].DifficultyLevel)
	assert.Equal(t, 2, p.GameHistory[0].MovesPlayed)
	assert.InDelta(t, 1200, p.Rating, 1e-9)
	assert.Equal(t, 1, p.Stats.GamesPlayed)
	assert.Equal(t, 1, p.Stats.Wins)
	assert.Equal(t, 1, f.repo.Saves())

	stored, err := f.repo.Load(ctx, "alice")
	require.NoError(t, err)
	assert.InDelta(t, 1200, stored.Rating, 1e-9)

	session, err := f.repo.LoadSession(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, 2, session.Quality.Total)
	assert.Equal(t, 1, session.Wins)

	_, err = f.orch.ProcessPlayerMove(ctx, "Kh1")
	require.ErrorIs(t, err, ErrGameOver)
	_, err = f.orch.RequestAIMove(ctx)
	require.ErrorIs(t, err, ErrGameOver)
	assert.Equal(t, 1, f.repo.Saves())
	assert.Len(t, f.orch.Profile().GameHistory, 1)

	// Session state resets and the win lifts the level for the next game.
	assert.Zero(t, f.orch.SessionStats().Quality.Total)
	assert.Greater(t, f.orch.GetStatus().Difficulty.PreciseLevel, 11.0)
}

func TestResultFailureIsRetried(t *testing.T) {
	ctx := context.Background()
	retries := map[string]func(*Orchestrator) (model.GameResult, error){
		"player move": func(o *Orchestrator) (model.GameResult, error) {
			res, err := o.ProcessPlayerMove(ctx, "Kh1")
			assert.False(t, res.Legal)
			assert.True(t, res.GameOver)
			assert.Contains(t, res.Feedback, "GAME SUMMARY")
			return res.Result, err
		},
		"ai move": func(o *Orchestrator) (model.GameResult, error) {
			mv, err := o.RequestAIMove(ctx)
			assert.True(t, mv.GameOver)
			assert.Empty(t, mv.Move)
			return mv.Result, err
		},
		"finalize": func(o *Orchestrator) (model.GameResult, error) {
			result, _, err := o.Finalize(ctx)
			return result, err
		},
	}
	for name, retry := range retries {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.engine.overAfter = 1
			f.engine.resultFails = 1
			f.engine.outcome = Outcome{Winner: model.ColorWhite, Reason: "checkmate"}

			res, err := f.orch.ProcessPlayerMove(ctx, "Qxf7#")
			require.ErrorIs(t, err, ErrEngineUnavailable)
			assert.True(t, res.Legal)
			assert.True(t, res.GameOver)
			assert.Zero(t, f.repo.Saves())
			assert.Empty(t, f.orch.Profile().GameHistory)

			result, err := retry(f.orch)
			require.NoError(t, err)
			assert.Equal(t, model.ResultWin, result)
			assert.Equal(t, 1, f.repo.Saves())
			p := f.orch.Profile()
			require.Len(t, p.GameHistory, 1)
			assert.Equal(t, 1, p.GameHistory[0].MovesPlayed)

			// Recorded exactly once.
			_, err = f.orch.ProcessPlayerMove(ctx, "Kh1")
			require.ErrorIs(t, err, ErrGameOver)
			_, _, err = f.orch.Finalize(ctx)
			require.NoError(t, err)
			assert.Equal(t, 1, f.repo.Saves())
			assert.Len(t, f.orch.Profile().GameHistory, 1)
			assert.Equal(t, []string{"Qxf7#"}, f.engine.executed)
		})
	}
}

func TestFinalizeWhilePlayingIsNoop(t *testing.T) {
	f := newFixture(t, nil)
	result, summary, err := f.orch.Finalize(context.Background())
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Empty(t, summary)
	assert.Zero(t, f.repo.Saves())
}

func TestResultAttributedByPlayerColor(t *testing.T) {
	tests := []struct {
		name   string
		player model.Color
		winner model.Color
		want   model.GameResult
	}{
		{"white wins as white", model.ColorWhite, model.ColorWhite, model.ResultWin},
		{"white wins as black", model.ColorBlack, model.ColorWhite, model.ResultLoss},
		{"black wins as black", model.ColorBlack, model.ColorBlack, model.ResultWin},
		{"draw", model.ColorBlack, model.ColorNone, model.ResultDraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(o *Options) { o.PlayerColor = tt.player })
			f.engine.overAfter = 1
			f.engine.outcome = Outcome{Winner: tt.winner, Reason: "checkmate"}
			if tt.winner == model.ColorNone {
				f.engine.outcome.Reason = "stalemate"
			}

			res, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Result)
			if tt.want == model.ResultDraw {
				assert.Contains(t, res.Feedback, "(stalemate)")
			}
		})
	}
}

func TestRequestAIMoveForwardsEngineParams(t *testing.T) {
	f := newFixture(t, func(o *Options) { o.TimeLimit = 2 * time.Second })
	f.engine.bestMove = "e5"

	mv, err := f.orch.RequestAIMove(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "e5", mv.Move)
	assert.False(t, mv.GameOver)
	require.Len(t, f.engine.requests, 1)
	assert.Equal(t, SearchRequest{Depth: 10, SkillLevel: 10, MoveRandomness: difficulty.Randomness(10), TimeLimit: 2 * time.Second}, f.engine.requests[0])
	assert.Equal(t, []string{"e5"}, f.engine.executed)
}

func TestRequestAIMoveSurfacesEngineFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.bestErr = errors.New("engine process exited")

	mv, err := f.orch.RequestAIMove(context.Background())
	require.ErrorIs(t, err, ErrEngineUnavailable)
	assert.Empty(t, mv.Move)
	assert.Empty(t, f.engine.executed)

	f.engine.bestErr = nil
	_, err = f.orch.RequestAIMove(context.Background())
	require.ErrorIs(t, err, ErrEngineUnavailable)
}

func TestAIMoveEndingGameFinalizes(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.bestMove = "Qh4#"
	f.engine.overAfter = 1
	f.engine.outcome = Outcome{Winner: model.ColorBlack, Reason: "checkmate"}

	mv, err := f.orch.RequestAIMove(context.Background())
	require.NoError(t, err)
	assert.True(t, mv.GameOver)
	assert.Equal(t, model.ResultLoss, mv.Result)
	assert.Contains(t, mv.Summary, "GAME SUMMARY")
	assert.Equal(t, 1, f.repo.Saves())
	assert.Less(t, f.orch.GetStatus().Difficulty.PreciseLevel, 10.0)
}

func TestNewGameAfterFinish(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.overAfter = 1
	f.engine.outcome = Outcome{Winner: model.ColorWhite, Reason: "checkmate"}
	ctx := context.Background()

	_, err := f.orch.ProcessPlayerMove(ctx, "e4")
	require.NoError(t, err)
	assert.True(t, f.orch.GetStatus().GameOver)

	f.orch.NewGame()
	f.engine.executed = nil
	f.engine.overAfter = 0

	res, err := f.orch.ProcessPlayerMove(ctx, "d4")
	require.NoError(t, err)
	assert.True(t, res.Legal)
	assert.False(t, f.orch.GetStatus().GameOver)
	assert.Equal(t, 1, f.orch.SessionStats().Quality.Total)
}

func TestGetCoachTip(t *testing.T) {
	f := newFixture(t, nil)
	for range 20 {
		assert.NotEmpty(t, f.orch.GetCoachTip())
	}

	f.engine.overAfter = 1
	f.engine.outcome = Outcome{Reason: "insufficient material"}
	_, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.NoError(t, err)
	assert.Empty(t, f.orch.GetCoachTip())
}

func TestIdleCheckAndWake(t *testing.T) {
	f := newFixture(t, nil)

	f.clock.Advance(90 * time.Second)
	assert.False(t, f.orch.CheckEngagement())

	f.clock.Advance(time.Minute)
	assert.True(t, f.orch.CheckEngagement())
	status := f.orch.GetStatus()
	assert.Equal(t, emotion.Disengaged, status.Emotion)
	assert.Equal(t, emotion.Engaging, status.Personality)

	f.orch.GetCoachTip()
	assert.Equal(t, emotion.Calm, f.orch.GetStatus().Emotion)
}

func TestSlowMoveDisengages(t *testing.T) {
	f := newFixture(t, nil)
	f.clock.Advance(3 * time.Minute)

	_, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.NoError(t, err)
	assert.Equal(t, emotion.Disengaged, f.orch.GetStatus().Emotion)
}

func TestFastBlundersFrustrate(t *testing.T) {
	f := newFixture(t, nil)
	f.engine.analysis["Qh5"] = model.MoveAnalysis{Quality: model.QualityBlunder, Phase: model.PhaseMiddlegame, CentipawnLoss: 400, MaterialChange: -9}

	for range 3 {
		f.clock.Advance(time.Second)
		res, err := f.orch.ProcessPlayerMove(context.Background(), "Qh5")
		require.NoError(t, err)
		assert.Contains(t, res.Feedback, "queen")
	}
	status := f.orch.GetStatus()
	assert.Equal(t, emotion.Frustrated, status.Emotion)
	assert.Equal(t, emotion.Empathetic, status.Personality)
	assert.GreaterOrEqual(t, status.Difficulty.PreciseLevel, 8.0)
}

func TestReentrantMoveIsBusy(t *testing.T) {
	f := newFixture(t, nil)
	var inner error
	f.engine.onClassify = func() {
		_, inner = f.orch.ProcessPlayerMove(context.Background(), "d4")
	}

	_, err := f.orch.ProcessPlayerMove(context.Background(), "e4")
	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrBusy)
	assert.Equal(t, 1, f.orch.SessionStats().Quality.Total)
}

func TestCorruptProfileFailsLoudly(t *testing.T) {
	repo := profile.NewMemoryRepository()
	repo.Put("alice", []byte(`{"player_id": "alice", "rating": "high"}`))

	_, err := New(context.Background(), newFakeEngine(), Options{
		PlayerID:   "alice",
		Repository: repo,
		Rand:       generator.NewSeeded(1),
	})
	require.ErrorIs(t, err, profile.ErrCorruptProfile)
}

func TestStartingLevelFromProfileRating(t *testing.T) {
	repo := profile.NewMemoryRepository()
	p := profile.New("bob", time.Now())
	p.Rating = 1500
	require.NoError(t, repo.Save(context.Background(), p))

	orch, err := New(context.Background(), newFakeEngine(), Options{
		PlayerID:   "bob",
		Repository: repo,
		Rand:       generator.NewSeeded(1),
	})
	require.NoError(t, err)
	assert.InDelta(t, 11.0, orch.GetStatus().Difficulty.PreciseLevel, 1e-9)
}
