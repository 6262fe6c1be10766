// Package replay drives a session from a recorded script of classified
// moves, standing in for a live rules and search engine.
package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// Ply sides.
const (
	SidePlayer = "player"
	SideEngine = "engine"
)

// Script is a recorded series of games for one player.
type Script struct {
	Player      string      `json:"player"`
	PlayerColor model.Color `json:"player_color"`
	Games       []Game      `json:"games"`
}

// Game is one recorded game and its final outcome.
type Game struct {
	Plies  []Ply  `json:"plies"`
	Result Result `json:"result"`
}

// Result names the winning color, empty for a draw.
type Result struct {
	Winner model.Color `json:"winner"`
	Reason string      `json:"reason"`
}

// Ply is a single scripted half-move. Illegal plies are attempted and
// rejected without advancing the board.
type Ply struct {
	Side         string              `json:"side"`
	Move         string              `json:"move"`
	ThinkSeconds float64             `json:"think_seconds,omitempty"`
	Illegal      bool                `json:"illegal,omitempty"`
	Analysis     *model.MoveAnalysis `json:"analysis,omitempty"`
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	s, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes and validates a script.
func Parse(r io.Reader) (*Script, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var s Script
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks that every ply can be replayed.
func (s *Script) Validate() error {
	if s.PlayerColor != model.ColorNone {
		if _, err := model.ParseColor(string(s.PlayerColor)); err != nil {
			return err
		}
	}
	if len(s.Games) == 0 {
		return errors.New("script has no games")
	}
	for gi, g := range s.Games {
		if len(g.Plies) == 0 {
			return fmt.Errorf("game %d: no plies", gi+1)
		}
		if g.Result.Winner != model.ColorNone {
			if _, err := model.ParseColor(string(g.Result.Winner)); err != nil {
				return fmt.Errorf("game %d: %w", gi+1, err)
			}
		}
		for pi, p := range g.Plies {
			if err := p.validate(); err != nil {
				return fmt.Errorf("game %d ply %d: %w", gi+1, pi+1, err)
			}
		}
		if g.Plies[len(g.Plies)-1].Illegal {
			return fmt.Errorf("game %d: last ply is illegal", gi+1)
		}
	}
	return nil
}

func (p Ply) validate() error {
	if p.Move == "" {
		return errors.New("empty move")
	}
	if p.ThinkSeconds < 0 {
		return errors.New("negative think time")
	}
	switch p.Side {
	case SidePlayer:
		if p.Illegal {
			return nil
		}
		if p.Analysis == nil {
			return errors.New("player move without analysis")
		}
	case SideEngine:
		if p.Illegal {
			return errors.New("engine moves cannot be illegal")
		}
	default:
		return fmt.Errorf("unknown side %q", p.Side)
	}
	return nil
}
