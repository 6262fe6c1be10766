package replay

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/session"
)

var _ session.Engine = (*Board)(nil)

// Board plays back a script one ply at a time.
type Board struct {
	script   *Script
	game     int
	cursor   int
	requests []session.SearchRequest
}

// NewBoard positions a board at the first ply of the first game.
func NewBoard(s *Script) *Board {
	return &Board{script: s}
}

// GameIndex returns the zero-based index of the current game.
func (b *Board) GameIndex() int { return b.game }

// Games returns the number of games in the script.
func (b *Board) Games() int { return len(b.script.Games) }

// Position returns the current ply index within the game and its length.
func (b *Board) Position() (int, int) {
	return b.cursor, len(b.script.Games[b.game].Plies)
}

// Peek returns the next ply without consuming it.
func (b *Board) Peek() (Ply, bool) {
	plies := b.script.Games[b.game].Plies
	if b.cursor >= len(plies) {
		return Ply{}, false
	}
	return plies[b.cursor], true
}

// Skip consumes the next ply without playing it.
func (b *Board) Skip() {
	if _, ok := b.Peek(); ok {
		b.cursor++
	}
}

// NextGame moves to the start of the next game. It reports false when the
// script is exhausted.
func (b *Board) NextGame() bool {
	if b.game+1 >= len(b.script.Games) {
		return false
	}
	b.game++
	b.cursor = 0
	return true
}

// Requests returns the search constraints received so far.
func (b *Board) Requests() []session.SearchRequest {
	return append([]session.SearchRequest(nil), b.requests...)
}

// IsLegal accepts only the scripted player move.
func (b *Board) IsLegal(move string) (bool, error) {
	p, ok := b.Peek()
	if !ok {
		return false, nil
	}
	return p.Side == SidePlayer && !p.Illegal && p.Move == move, nil
}

// Classify returns the recorded analysis for the next player move.
func (b *Board) Classify(move string) (model.MoveAnalysis, error) {
	p, ok := b.Peek()
	if !ok || p.Side != SidePlayer || p.Move != move {
		return model.MoveAnalysis{}, fmt.Errorf("no analysis recorded for %s", move)
	}
	if p.Analysis == nil {
		return model.MoveAnalysis{}, fmt.Errorf("ply %d has no analysis", b.cursor+1)
	}
	return *p.Analysis, nil
}

// Execute consumes the next ply if it matches move.
func (b *Board) Execute(move string) (session.CommittedMove, error) {
	p, ok := b.Peek()
	if !ok {
		return session.CommittedMove{}, fmt.Errorf("game %d is finished", b.game+1)
	}
	if p.Illegal || p.Move != move {
		return session.CommittedMove{}, fmt.Errorf("script expects %s, got %s", p.Move, move)
	}
	b.cursor++
	committed := session.CommittedMove{Move: move}
	if p.Analysis != nil {
		committed.IsCapture = p.Analysis.IsCapture
		committed.IsCheck = p.Analysis.IsCheck
	}
	return committed, nil
}

// IsGameOver reports whether every ply of the current game was played.
func (b *Board) IsGameOver() bool {
	_, ok := b.Peek()
	return !ok
}

// Result returns the recorded outcome once the game is over.
func (b *Board) Result() (session.Outcome, error) {
	if !b.IsGameOver() {
		return session.Outcome{}, fmt.Errorf("game %d is still in progress", b.game+1)
	}
	r := b.script.Games[b.game].Result
	reason := r.Reason
	if reason == "" && r.Winner == model.ColorNone {
		reason = "agreement"
	}
	return session.Outcome{Winner: r.Winner, Reason: reason}, nil
}

// BestMove returns the scripted engine reply.
func (b *Board) BestMove(ctx context.Context, req session.SearchRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p, ok := b.Peek()
	if !ok || p.Side != SideEngine {
		return "", fmt.Errorf("script expects a player move at ply %d", b.cursor+1)
	}
	b.requests = append(b.requests, req)
	return p.Move, nil
}

// ManualClock is a clock advanced explicitly by the replay.
type ManualClock struct {
	now time.Time
}

// NewManualClock returns a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) {
	if d > 0 {
		c.now = c.now.Add(d)
	}
}
