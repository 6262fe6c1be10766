package session

import (
	"context"
	"errors"
	"time"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// Error taxonomy surfaced by the orchestrator.
var (
	ErrInvalidMove       = errors.New("invalid move")
	ErrEngineUnavailable = errors.New("engine unavailable")
	ErrAnalysisFailure   = errors.New("analysis failure")
	ErrGameOver          = errors.New("game is over")
	ErrBusy              = errors.New("another move is being processed")
)

// CommittedMove is a move applied to the board, with post-move flags.
type CommittedMove struct {
	Move      string
	IsCapture bool
	IsCheck   bool
}

// Outcome describes a finished game. Winner is ColorNone for a draw.
type Outcome struct {
	Winner model.Color
	Reason string
}

// SearchRequest constrains a best-move lookup.
type SearchRequest struct {
	Depth          int
	SkillLevel     int
	MoveRandomness float64
	TimeLimit      time.Duration
}

// Engine is the rules and search collaborator. Classify is called before
// Execute for the same move.
type Engine interface {
	IsLegal(move string) (bool, error)
	Classify(move string) (model.MoveAnalysis, error)
	Execute(move string) (CommittedMove, error)
	IsGameOver() bool
	Result() (Outcome, error)
	BestMove(ctx context.Context, req SearchRequest) (string, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
