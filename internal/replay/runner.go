package replay

import (
	"context"
	"io"
	"time"

	"github.com/verte-zerg/chesscoach/internal/difficulty"
	"github.com/verte-zerg/chesscoach/internal/session"
)

// Event is the outcome of one replayed ply.
type Event struct {
	// Game is one-based.
	Game int
	Ply  Ply
	// Move is set for player plies, AI for engine plies.
	Move   *session.MoveResult
	AI     *session.AIMove
	Params difficulty.EngineParams
	Err    error
}

// GameOver reports whether the ply ended its game.
func (e Event) GameOver() bool {
	return (e.Move != nil && e.Move.GameOver) || (e.AI != nil && e.AI.GameOver)
}

// Runner feeds a board's plies through an orchestrator.
type Runner struct {
	board *Board
	orch  *session.Orchestrator
	// clock is nil when think time is measured on the wall clock.
	clock   *ManualClock
	between bool
}

// NewRunner returns a runner. With a manual clock, each ply advances it
// by the ply's recorded think time.
func NewRunner(board *Board, orch *session.Orchestrator, clock *ManualClock) *Runner {
	return &Runner{board: board, orch: orch, clock: clock}
}

// Board returns the board being replayed.
func (r *Runner) Board() *Board { return r.board }

// Step plays the next ply. Per-ply failures are reported in Event.Err;
// io.EOF marks the end of the script.
func (r *Runner) Step(ctx context.Context) (Event, error) {
	if err := ctx.Err(); err != nil {
		return Event{}, err
	}
	if r.between {
		if !r.board.NextGame() {
			return Event{}, io.EOF
		}
		r.orch.NewGame()
		r.between = false
	}
	ply, ok := r.board.Peek()
	if !ok {
		r.between = true
		if r.board.GameIndex()+1 >= r.board.Games() {
			return Event{}, io.EOF
		}
		return r.Step(ctx)
	}

	ev := Event{Game: r.board.GameIndex() + 1, Ply: ply}
	if r.clock != nil {
		r.clock.Advance(time.Duration(ply.ThinkSeconds * float64(time.Second)))
	}
	switch ply.Side {
	case SidePlayer:
		res, err := r.orch.ProcessPlayerMove(ctx, ply.Move)
		ev.Move, ev.Err = &res, err
		if !res.Legal {
			r.board.Skip()
		}
	default:
		ev.Params = r.orch.EngineParams()
		mv, err := r.orch.RequestAIMove(ctx)
		ev.AI, ev.Err = &mv, err
		if mv.Move == "" {
			r.board.Skip()
		}
	}
	if ev.GameOver() {
		r.between = true
	}
	return ev, nil
}

// Run replays the whole script, calling fn after every ply.
func (r *Runner) Run(ctx context.Context, fn func(Event)) error {
	for {
		ev, err := r.Step(ctx)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if fn != nil {
			fn(ev)
		}
	}
}
