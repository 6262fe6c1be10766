package replay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/generator"
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/session"
)

func TestParseRejectsBrokenScripts(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{"no games", `{"player":"a","games":[]}`, "no games"},
		{"unknown field", `{"player":"a","colour":"white"}`, "unknown field"},
		{"bad side", `{"games":[{"plies":[{"side":"ref","move":"e4"}]}]}`, `unknown side "ref"`},
		{"missing analysis", `{"games":[{"plies":[{"side":"player","move":"e4"}]}]}`, "without analysis"},
		{"empty move", `{"games":[{"plies":[{"side":"engine","move":""}]}]}`, "empty move"},
		{"bad winner", `{"games":[{"plies":[{"side":"engine","move":"e5"}],"result":{"winner":"red"}}]}`, "game 1"},
		{"illegal last", `{"games":[{"plies":[{"side":"player","move":"Ke9","illegal":true}]}]}`, "last ply is illegal"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.script))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScript(t *testing.T) {
	s, err := Load("testdata/two_games.json")
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Player)
	assert.Equal(t, model.ColorWhite, s.PlayerColor)
	require.Len(t, s.Games, 2)
	assert.Len(t, s.Games[0].Plies, 8)
}

func TestBoardFollowsScript(t *testing.T) {
	s, err := Load("testdata/two_games.json")
	require.NoError(t, err)
	b := NewBoard(s)

	ok, err := b.IsLegal("d4")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = b.IsLegal("e4")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = b.Execute("d4")
	require.Error(t, err)
	_, err = b.BestMove(context.Background(), session.SearchRequest{})
	require.Error(t, err)

	a, err := b.Classify("e4")
	require.NoError(t, err)
	assert.Equal(t, model.QualityBook, a.Quality)
	_, err = b.Execute("e4")
	require.NoError(t, err)

	_, err = b.Result()
	require.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = b.BestMove(ctx, session.SearchRequest{})
	require.ErrorIs(t, err, context.Canceled)

	mv, err := b.BestMove(context.Background(), session.SearchRequest{Depth: 4})
	require.NoError(t, err)
	assert.Equal(t, "e5", mv)
	assert.Equal(t, []session.SearchRequest{{Depth: 4}}, b.Requests())
}

func TestRunnerReplaysScript(t *testing.T) {
	s, err := Load("testdata/two_games.json")
	require.NoError(t, err)

	start := time.Date(2024, 5, 1, 18, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	repo := profile.NewMemoryRepository()
	board := NewBoard(s)
	level := 10.0
	orch, err := session.New(context.Background(), board, session.Options{
		PlayerID:    s.Player,
		PlayerColor: s.PlayerColor,
		Level:       &level,
		Repository:  repo,
		Rand:        generator.NewSeeded(3),
		Clock:       clock,
	})
	require.NoError(t, err)

	var events []Event
	err = NewRunner(board, orch, clock).Run(context.Background(), func(ev Event) {
		events = append(events, ev)
	})
	require.NoError(t, err)
	require.Len(t, events, 12)

	for _, ev := range events {
		assert.NoError(t, ev.Err, "game %d ply %s", ev.Game, ev.Ply.Move)
	}

	illegal := events[4]
	require.NotNil(t, illegal.Move)
	assert.False(t, illegal.Move.Legal)

	mate := events[7]
	require.NotNil(t, mate.Move)
	assert.True(t, mate.GameOver())
	assert.Equal(t, model.ResultWin, mate.Move.Result)
	assert.Contains(t, mate.Move.Feedback, "GAME SUMMARY")

	resign := events[11]
	require.NotNil(t, resign.AI)
	assert.Equal(t, 2, resign.Game)
	assert.True(t, resign.GameOver())
	assert.Equal(t, model.ResultLoss, resign.AI.Result)

	requests := board.Requests()
	require.Len(t, requests, 5)
	assert.Equal(t, 10, requests[0].Depth)
	assert.Equal(t, 11, requests[3].Depth)
	assert.Equal(t, 10, events[1].Params.Depth)

	p := orch.Profile()
	require.Len(t, p.GameHistory, 2)
	assert.Equal(t, model.ResultWin, p.GameHistory[0].Result)
	assert.Equal(t, model.ResultLoss, p.GameHistory[1].Result)
	assert.Equal(t, 4, p.GameHistory[0].MovesPlayed)
	assert.Equal(t, 2, repo.Saves())
	assert.True(t, p.GameHistory[1].Date.After(start))
}

func TestRunnerStopsOnCanceledContext(t *testing.T) {
	s, err := Load("testdata/two_games.json")
	require.NoError(t, err)
	board := NewBoard(s)
	orch, err := session.New(context.Background(), board, session.Options{
		PlayerID:   "alice",
		Repository: profile.NewMemoryRepository(),
		Rand:       generator.NewSeeded(1),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewRunner(board, orch, nil).Run(ctx, nil)
	require.ErrorIs(t, err, context.Canceled)
}
