package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/chesscoach/internal/difficulty"
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/replay"
	"github.com/verte-zerg/chesscoach/internal/session"
)

func validConfig() model.Config {
	return model.Config{
		PlayerID:      "alice",
		PlayerColor:   model.ColorWhite,
		MinLevel:      difficulty.MinLevel,
		MaxLevel:      difficulty.MaxLevel,
		WindowSize:    10,
		TimeLimit:     2 * time.Second,
		StorageKind:   storageJSON,
		IdleThreshold: 2 * time.Minute,
	}
}

func TestValidateConfig(t *testing.T) {
	level := 25.0
	cases := map[string]func(*model.Config){
		"bad player": func(c *model.Config) { c.PlayerID = "../x" },
		"bounds":     func(c *model.Config) { c.MinLevel, c.MaxLevel = 12, 4 },
		"level":      func(c *model.Config) { c.Level = &level },
		"window":     func(c *model.Config) { c.WindowSize = 0 },
		"time limit": func(c *model.Config) { c.TimeLimit = 0 },
		"idle":       func(c *model.Config) { c.IdleThreshold = 0 },
		"storage":    func(c *model.Config) { c.StorageKind = "redis" },
	}
	require.NoError(t, validateConfig(validConfig()))
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(&cfg)
		assert.Error(t, validateConfig(cfg), name)
	}
}

func TestEventPrinterPlainTranscript(t *testing.T) {
	var buf bytes.Buffer
	p := newEventPrinter(&buf, false)
	p.print(replay.Event{
		Game: 1,
		Ply:  replay.Ply{Side: replay.SidePlayer, Move: "e4"},
		Move: &session.MoveResult{Legal: true, Move: "e4", Quality: model.QualityBook, Feedback: "Book move."},
	})
	p.print(replay.Event{
		Game: 1,
		Ply:  replay.Ply{Side: replay.SidePlayer, Move: "Ke3"},
		Move: &session.MoveResult{Move: "Ke3", Error: "invalid move: Ke3"},
	})
	p.print(replay.Event{
		Game:   1,
		Ply:    replay.Ply{Side: replay.SideEngine, Move: "e5"},
		AI:     &session.AIMove{Move: "e5"},
		Params: difficulty.EngineParams{Depth: 10, SkillLevel: 10, MoveRandomness: 0.1},
	})
	p.print(replay.Event{
		Game: 1,
		Ply:  replay.Ply{Side: replay.SideEngine, Move: "Nf6"},
		AI:   &session.AIMove{},
		Err:  errors.New("engine unavailable"),
	})
	require.NoError(t, p.err)
	want := []string{
		"[game 1] you e4 (book) Book move.",
		"[game 1] you Ke3 invalid move: Ke3",
		"[game 1] engine e5 (level 10, depth 10, randomness 0.10)",
		"[game 1] engine error: engine unavailable",
	}
	assert.Equal(t, want, strings.Split(strings.TrimRight(buf.String(), "\n"), "\n"))
}

func TestDefaultConfigTemplateMentionsSections(t *testing.T) {
	tmpl := defaultConfigTemplate()
	for _, section := range []string{"[player]", "[difficulty]", "[engine]", "[coach]", "[storage]"} {
		assert.Contains(t, tmpl, section)
	}
}
