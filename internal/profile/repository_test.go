package profile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/model"
)

func playedProfile() *Profile {
	p := *New("alice", t0)
	p = Update(p, Game{Result: model.ResultWin, DifficultyLevel: 10, Session: session(8)}, t0)
	p = Update(p, Game{Result: model.ResultLoss, DifficultyLevel: 11, Session: session(3)}, t0)
	return &p
}

func repositories(t *testing.T) map[string]Repository {
	return map[string]Repository{
		"file":   NewFileRepository(filepath.Join(t.TempDir(), "profiles")),
		"memory": NewMemoryRepository(),
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			want := playedProfile()
			require.NoError(t, repo.Save(ctx, want))

			got, err := repo.Load(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, want.Rating, got.Rating)
			assert.Equal(t, want.RatingHistory, got.RatingHistory)
			assert.Equal(t, want.Stats, got.Stats)
			assert.Equal(t, want.GameHistory, got.GameHistory)
			assert.Equal(t, want.Strengths, got.Strengths)
			assert.Equal(t, want.Weaknesses, got.Weaknesses)
			assert.Equal(t, want.StyleTags, got.StyleTags)

			ids, err := repo.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"alice"}, ids)
		})
	}
}

func TestLoadOrCreateFresh(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			p, err := LoadOrCreate(ctx, repo, "bob", t0)
			require.NoError(t, err)
			assert.Equal(t, InitialRating, p.Rating)
			assert.Equal(t, []float64{InitialRating}, p.RatingHistory)

			s, err := LoadOrCreateSession(ctx, repo, "bob", t0)
			require.NoError(t, err)
			assert.Equal(t, 0, s.Quality.Total)
		})
	}
}

func TestSessionRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			s := session(6)
			require.NoError(t, repo.SaveSession(ctx, &s))
			got, err := repo.LoadSession(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, s, *got)
		})
	}
}

func TestCorruptFileFailsLoudly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo := NewFileRepository(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "alice.profile.json"), []byte(`{"player_id": "alice", "rating": `), 0o644))

	_, err := LoadOrCreate(ctx, repo, "alice", t0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCorruptProfile))
}

func TestCorruptContentsFailLoudly(t *testing.T) {
	cases := map[string]string{
		"unknown field":   `{"player_id":"alice","rating":1000,"rating_history":[1000],"mystery":1}`,
		"rating too low":  `{"player_id":"alice","rating":12,"rating_history":[12]}`,
		"wrong player":    `{"player_id":"mallory","rating":1000,"rating_history":[1000]}`,
		"empty history":   `{"player_id":"alice","rating":1000,"rating_history":[]}`,
		"bad game result": `{"player_id":"alice","rating":1000,"rating_history":[1000],"game_history":[{"result":"resigned"}]}`,
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			repo := NewMemoryRepository()
			repo.Put("alice", []byte(raw))
			_, err := LoadOrCreate(context.Background(), repo, "alice", t0)
			assert.ErrorIs(t, err, ErrCorruptProfile)
		})
	}
}

func TestRejectsUnsafePlayerIDs(t *testing.T) {
	repo := NewFileRepository(t.TempDir())
	_, err := repo.Load(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrInvalidPlayerID)
	err = repo.Save(context.Background(), New(".hidden", t0))
	assert.ErrorIs(t, err, ErrInvalidPlayerID)
}

func TestListMissingDir(t *testing.T) {
	repo := NewFileRepository(filepath.Join(t.TempDir(), "missing"))
	ids, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
