// Package session sequences the player model for each move and finalizes
// the profile when a game ends.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/verte-zerg/chesscoach/internal/coach"
	"github.com/verte-zerg/chesscoach/internal/difficulty"
	"github.com/verte-zerg/chesscoach/internal/emotion"
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/stats"
	"github.com/verte-zerg/chesscoach/internal/tips"
)

// Options configure an Orchestrator.
type Options struct {
	PlayerID    string
	PlayerColor model.Color
	// Level forces the starting level; nil derives it from the profile.
	Level         *float64
	MinLevel      float64
	MaxLevel      float64
	WindowSize    int
	TimeLimit     time.Duration
	IdleThreshold time.Duration

	Repository profile.Repository
	Rand       coach.Rand
	Tips       *tips.Pack
	Clock      Clock
	Logger     *slog.Logger
}

// MoveResult is the outcome of a player move.
type MoveResult struct {
	Legal    bool              `json:"legal"`
	Move     string            `json:"move"`
	Feedback string            `json:"feedback"`
	GameOver bool              `json:"game_over"`
	Result   model.GameResult  `json:"result,omitempty"`
	Quality  model.MoveQuality `json:"quality,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// AIMove is the outcome of an engine move.
type AIMove struct {
	Move     string           `json:"move"`
	GameOver bool             `json:"game_over"`
	Result   model.GameResult `json:"result,omitempty"`
	Summary  string           `json:"summary,omitempty"`
}

// Status is the presentation snapshot.
type Status struct {
	PlayerID      string              `json:"player_id"`
	Level         int                 `json:"level"`
	Trend         difficulty.Trend    `json:"trend"`
	Emotion       emotion.State       `json:"emotion"`
	Personality   emotion.Personality `json:"personality"`
	Rating        float64             `json:"rating"`
	GameOver      bool                `json:"game_over"`
	MovesThisGame int                 `json:"moves_this_game"`
	Difficulty    difficulty.Status   `json:"difficulty"`
	Mood          emotion.Status      `json:"mood"`
}

// Orchestrator runs the per-move pipeline for one player. Moves are
// processed one at a time.
type Orchestrator struct {
	mu sync.Mutex

	engine  Engine
	repo    profile.Repository
	clock   Clock
	log     *slog.Logger
	coach   *coach.Coach
	rnd     coach.Rand
	color   model.Color
	timeout time.Duration

	profile    profile.Profile
	stats      *stats.Stats
	difficulty *difficulty.Controller
	emotion    *emotion.Machine

	lastPhase  model.GamePhase
	lastMoveAt time.Time
	gameOver   bool
	finalized  bool
}

// New loads or creates the player's profile and returns a ready
// orchestrator. A corrupt profile is an error.
func New(ctx context.Context, engine Engine, opts Options) (*Orchestrator, error) {
	if engine == nil {
		return nil, errors.New("session: nil engine")
	}
	if opts.Repository == nil {
		return nil, errors.New("session: nil repository")
	}
	if opts.Rand == nil {
		return nil, errors.New("session: nil randomness source")
	}
	if opts.PlayerColor == model.ColorNone {
		opts.PlayerColor = model.ColorWhite
	}
	if opts.MinLevel == 0 {
		opts.MinLevel = difficulty.MinLevel
	}
	if opts.MaxLevel == 0 {
		opts.MaxLevel = difficulty.MaxLevel
	}
	if opts.WindowSize <= 0 {
		opts.WindowSize = difficulty.DefaultWindowSize
	}
	if opts.Clock == nil {
		opts.Clock = systemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	now := opts.Clock.Now()
	p, err := profile.LoadOrCreate(ctx, opts.Repository, opts.PlayerID, now)
	if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	c := coach.New(opts.Rand)
	if opts.Tips != nil {
		for phase, lines := range opts.Tips.Phase {
			c.AddTips(phase, lines...)
		}
		c.AddEncouragements(opts.Tips.General...)
	}

	mood := emotion.New(now)
	mood.SetIdleThreshold(opts.IdleThreshold)
	level := difficulty.New(difficulty.Seed{Level: opts.Level, Rating: p.Rating},
		opts.MinLevel, opts.MaxLevel, opts.WindowSize)

	o := &Orchestrator{
		engine:     engine,
		repo:       opts.Repository,
		clock:      opts.Clock,
		log:        opts.Logger.With("player", p.PlayerID),
		coach:      c,
		rnd:        opts.Rand,
		color:      opts.PlayerColor,
		timeout:    opts.TimeLimit,
		profile:    *p,
		stats:      stats.New(p.PlayerID, now),
		difficulty: level,
		emotion:    mood,
		lastPhase:  model.PhaseOpening,
		lastMoveAt: now,
	}
	o.log.Debug("session started", "rating", p.Rating, "level", o.difficulty.PreciseLevel(), "color", o.color)
	return o, nil
}

// ProcessPlayerMove validates, classifies, and commits a player move, then
// updates the player model and returns feedback. An illegal move yields
// Legal=false and a nil error. Classification and execution failures leave
// the model untouched. After the game ends, a call only retries a pending
// finalization; the move itself is not played.
func (o *Orchestrator) ProcessPlayerMove(ctx context.Context, move string) (MoveResult, error) {
	if !o.mu.TryLock() {
		return MoveResult{Move: move, Error: ErrBusy.Error()}, ErrBusy
	}
	defer o.mu.Unlock()

	res := MoveResult{Move: move}
	if o.gameOver {
		res.GameOver = true
		if !o.finalized {
			return o.finishMove(ctx, res)
		}
		res.Error = ErrGameOver.Error()
		return res, ErrGameOver
	}

	legal, err := o.engine.IsLegal(move)
	if err != nil {
		return failed(res, fmt.Errorf("%w: legality check: %v", ErrEngineUnavailable, err))
	}
	if !legal {
		res.Error = fmt.Sprintf("%v: %s", ErrInvalidMove, move)
		o.log.Debug("move rejected", "move", move)
		return res, nil
	}

	analysis, err := o.engine.Classify(move)
	if err != nil {
		return failed(res, fmt.Errorf("%w: %v", ErrAnalysisFailure, err))
	}
	if !analysis.Quality.Valid() || !analysis.Phase.Valid() {
		return failed(res, fmt.Errorf("%w: quality %q phase %q", ErrAnalysisFailure, analysis.Quality, analysis.Phase))
	}

	committed, err := o.engine.Execute(move)
	if err != nil {
		return failed(res, fmt.Errorf("%w: execute: %v", ErrEngineUnavailable, err))
	}

	now := o.clock.Now()
	think := now.Sub(o.lastMoveAt)
	o.stats.RecordMove(analysis, now)
	o.emotion.RecordMove(analysis.Quality, think, now)
	o.difficulty.RecordMove(analysis.Quality)
	o.lastPhase = analysis.Phase
	o.lastMoveAt = now

	res.Legal = true
	if committed.Move != "" {
		res.Move = committed.Move
	}
	res.Quality = analysis.Quality
	res.Feedback = o.coach.CommentOnMove(coach.MoveContext{
		Move:           res.Move,
		Quality:        analysis.Quality,
		Phase:          analysis.Phase,
		CentipawnLoss:  analysis.CentipawnLoss,
		MaterialChange: analysis.MaterialChange,
		IsCapture:      analysis.IsCapture || committed.IsCapture,
		IsCheck:        analysis.IsCheck || committed.IsCheck,
		BestMove:       analysis.BestMove,
	}, o.emotion.Personality())

	o.log.Debug("move processed",
		"move", res.Move,
		"quality", analysis.Quality,
		"think", think,
		"level", o.difficulty.PreciseLevel(),
		"emotion", o.emotion.State(),
	)

	if !o.engine.IsGameOver() {
		return res, nil
	}
	res.GameOver = true
	return o.finishMove(ctx, res)
}

// finishMove finalizes the game and folds the outcome into res.
func (o *Orchestrator) finishMove(ctx context.Context, res MoveResult) (MoveResult, error) {
	result, summary, err := o.finish(ctx)
	res.Result = result
	if summary != "" {
		res.Feedback = strings.TrimPrefix(res.Feedback+"\n\n"+summary, "\n\n")
	}
	if err != nil {
		res.Error = err.Error()
		return res, err
	}
	return res, nil
}

func failed(res MoveResult, err error) (MoveResult, error) {
	res.Error = err.Error()
	return res, err
}

// RequestAIMove asks the engine for a move at the current strength and
// commits it.
func (o *Orchestrator) RequestAIMove(ctx context.Context) (AIMove, error) {
	if !o.mu.TryLock() {
		return AIMove{}, ErrBusy
	}
	defer o.mu.Unlock()

	if o.gameOver {
		out := AIMove{GameOver: true}
		if o.finalized {
			return out, ErrGameOver
		}
		var err error
		out.Result, out.Summary, err = o.finish(ctx)
		return out, err
	}

	params := o.difficulty.EngineParams(o.timeout)
	move, err := o.engine.BestMove(ctx, SearchRequest{
		Depth:          params.Depth,
		SkillLevel:     params.SkillLevel,
		MoveRandomness: params.MoveRandomness,
		TimeLimit:      params.TimeLimit,
	})
	if err != nil {
		return AIMove{}, fmt.Errorf("%w: best move: %v", ErrEngineUnavailable, err)
	}
	if move == "" {
		return AIMove{}, fmt.Errorf("%w: no move returned", ErrEngineUnavailable)
	}
	if _, err := o.engine.Execute(move); err != nil {
		return AIMove{}, fmt.Errorf("%w: execute: %v", ErrEngineUnavailable, err)
	}
	o.lastMoveAt = o.clock.Now()
	o.log.Debug("engine moved", "move", move, "depth", params.Depth, "skill", params.SkillLevel)

	out := AIMove{Move: move}
	if !o.engine.IsGameOver() {
		return out, nil
	}
	out.GameOver = true
	out.Result, out.Summary, err = o.finish(ctx)
	return out, err
}

// Finalize retries recording a finished game whose result lookup failed.
// It does nothing while the game is running or once the game is recorded.
func (o *Orchestrator) Finalize(ctx context.Context) (model.GameResult, string, error) {
	if !o.mu.TryLock() {
		return "", "", ErrBusy
	}
	defer o.mu.Unlock()

	if !o.gameOver || o.finalized {
		return "", "", nil
	}
	return o.finish(ctx)
}

// finish attributes the result, folds the game into the profile, persists
// it, and resets per-game state. It runs once per game; a failed result
// lookup leaves the game pending so the next call retries it.
func (o *Orchestrator) finish(ctx context.Context) (model.GameResult, string, error) {
	o.gameOver = true
	if o.finalized {
		return "", "", nil
	}
	outcome, err := o.engine.Result()
	if err != nil {
		o.log.Warn("game result unavailable", "err", err)
		return "", "", fmt.Errorf("%w: result: %v", ErrEngineUnavailable, err)
	}

	now := o.clock.Now()
	result := model.ResultFor(o.color, outcome.Winner)
	level := o.difficulty.Level()
	o.stats.RecordResult(result, now)
	session := o.stats.Clone()

	updated := profile.Update(o.profile, profile.Game{
		Result:          result,
		DifficultyLevel: level,
		Session:         session,
	}, now)
	o.difficulty.AdjustForResult(result)
	o.emotion.RecordResult(result, now)
	o.emotion.ResetGame()
	o.profile = updated
	o.stats = stats.New(o.profile.PlayerID, now)
	o.finalized = true

	summary := o.summary(result, outcome, session)
	o.log.Info("game finished",
		"result", result,
		"reason", outcome.Reason,
		"accuracy", session.Accuracy(),
		"rating", updated.Rating,
		"next_level", o.difficulty.PreciseLevel(),
	)

	var errs []error
	if err := o.repo.Save(ctx, &updated); err != nil {
		o.log.Warn("profile not saved", "err", err)
		errs = append(errs, fmt.Errorf("save profile: %w", err))
	}
	if err := o.repo.SaveSession(ctx, &session); err != nil {
		o.log.Warn("session stats not saved", "err", err)
		errs = append(errs, fmt.Errorf("save session: %w", err))
	}
	return result, summary, errors.Join(errs...)
}

func (o *Orchestrator) summary(result model.GameResult, outcome Outcome, s stats.Stats) string {
	var lead string
	switch {
	case result == model.ResultDraw:
		lead = o.coach.DrawComment(outcome.Reason)
	case strings.EqualFold(outcome.Reason, "checkmate"):
		lead = o.coach.CheckmateComment(result == model.ResultWin)
	}
	body := coach.Summary(coach.GameSummary{
		Result:         result,
		TotalMoves:     s.Quality.Total,
		Blunders:       s.Quality.Blunders,
		Mistakes:       s.Quality.Mistakes,
		ExcellentMoves: s.Quality.Excellent,
		Accuracy:       s.Accuracy(),
	})
	if lead == "" {
		return body
	}
	return lead + "\n" + body
}

// NewGame starts a fresh game. An unfinished game is abandoned without
// touching the profile.
func (o *Orchestrator) NewGame() {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := o.clock.Now()
	switch {
	case o.gameOver && !o.finalized:
		o.log.Warn("finished game dropped without a result", "moves", o.stats.Quality.Total)
	case !o.gameOver && o.stats.Quality.Total > 0:
		o.log.Info("game abandoned", "moves", o.stats.Quality.Total)
	}
	o.stats = stats.New(o.profile.PlayerID, now)
	o.difficulty.BeginGame()
	o.emotion.ResetGame()
	o.emotion.RecordInteraction(now)
	o.lastPhase = model.PhaseOpening
	o.lastMoveAt = now
	o.gameOver = false
	o.finalized = false
}

// CheckEngagement runs the idle check and reports whether the player just
// became disengaged. Hosts call it periodically.
func (o *Orchestrator) CheckEngagement() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.checkEngagement()
}

func (o *Orchestrator) checkEngagement() bool {
	changed := o.emotion.CheckEngagement(o.clock.Now())
	if changed {
		o.log.Debug("player idle", "emotion", o.emotion.State())
	}
	return changed
}

// GetStatus reports level, trend, mood, and rating after an idle check.
func (o *Orchestrator) GetStatus() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.checkEngagement()
	return Status{
		PlayerID:      o.profile.PlayerID,
		Level:         o.difficulty.Level(),
		Trend:         o.difficulty.Trend(),
		Emotion:       o.emotion.State(),
		Personality:   o.emotion.Personality(),
		Rating:        o.profile.Rating,
		GameOver:      o.gameOver,
		MovesThisGame: o.stats.Quality.Total,
		Difficulty:    o.difficulty.Status(),
		Mood:          o.emotion.Status(),
	}
}

// GetCoachTip returns a profile or phase tip, or "" once the game is over.
// Asking counts as an interaction.
func (o *Orchestrator) GetCoachTip() string {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.gameOver {
		return ""
	}
	o.emotion.RecordInteraction(o.clock.Now())
	if o.rnd.Chance(0.5) {
		return o.coach.ProfileTip(o.profile.Strengths, o.profile.FocusAreas())
	}
	return o.coach.PhaseTip(o.lastPhase)
}

// Profile returns a copy of the player's profile.
func (o *Orchestrator) Profile() profile.Profile {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.profile
}

// SessionStats returns a copy of the current game's statistics.
func (o *Orchestrator) SessionStats() stats.Stats {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stats.Clone()
}

// EngineParams returns the constraints the next engine move will use.
func (o *Orchestrator) EngineParams() difficulty.EngineParams {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.difficulty.EngineParams(o.timeout)
}
