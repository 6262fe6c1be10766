package model

import (
	"fmt"
	"strings"
)

// MoveQuality is the classifier's verdict for a move.
type MoveQuality string

// Move quality labels.
const (
	QualityBlunder    MoveQuality = "blunder"
	QualityMistake    MoveQuality = "mistake"
	QualityInaccuracy MoveQuality = "inaccuracy"
	QualityGood       MoveQuality = "good"
	QualityExcellent  MoveQuality = "excellent"
	QualityBook       MoveQuality = "book"
)

// Qualities lists every move quality in severity order.
var Qualities = []MoveQuality{
	QualityBlunder,
	QualityMistake,
	QualityInaccuracy,
	QualityGood,
	QualityExcellent,
	QualityBook,
}

// Valid reports whether q is a known quality.
func (q MoveQuality) Valid() bool {
	for _, known := range Qualities {
		if q == known {
			return true
		}
	}
	return false
}

// IsSetback reports whether q is a blunder or mistake.
func (q MoveQuality) IsSetback() bool {
	return q == QualityBlunder || q == QualityMistake
}

// ParseQuality parses a quality label case-insensitively.
func ParseQuality(raw string) (MoveQuality, error) {
	q := MoveQuality(strings.ToLower(strings.TrimSpace(raw)))
	if !q.Valid() {
		return "", fmt.Errorf("unknown move quality %q", raw)
	}
	return q, nil
}

// GamePhase is the stage of the game a move was played in.
type GamePhase string

// Game phases.
const (
	PhaseOpening    GamePhase = "opening"
	PhaseMiddlegame GamePhase = "middlegame"
	PhaseEndgame    GamePhase = "endgame"
)

// Phases lists the game phases in order of play.
var Phases = []GamePhase{PhaseOpening, PhaseMiddlegame, PhaseEndgame}

// Valid reports whether p is a known phase.
func (p GamePhase) Valid() bool {
	return p == PhaseOpening || p == PhaseMiddlegame || p == PhaseEndgame
}

// Title returns the capitalized phase name.
func (p GamePhase) Title() string {
	if p == "" {
		return ""
	}
	return strings.ToUpper(string(p[:1])) + string(p[1:])
}

// ParsePhase parses a phase name case-insensitively.
func ParsePhase(raw string) (GamePhase, error) {
	p := GamePhase(strings.ToLower(strings.TrimSpace(raw)))
	if !p.Valid() {
		return "", fmt.Errorf("unknown game phase %q", raw)
	}
	return p, nil
}

// GameResult is a finished game's outcome from the player's perspective.
type GameResult string

// Game results.
const (
	ResultWin  GameResult = "win"
	ResultLoss GameResult = "loss"
	ResultDraw GameResult = "draw"
)

// Valid reports whether r is a known result.
func (r GameResult) Valid() bool {
	return r == ResultWin || r == ResultLoss || r == ResultDraw
}

// Color is a side of the board.
type Color string

// Board sides. ColorNone marks the absence of a winner.
const (
	ColorNone  Color = ""
	ColorWhite Color = "white"
	ColorBlack Color = "black"
)

// Opponent returns the other side.
func (c Color) Opponent() Color {
	switch c {
	case ColorWhite:
		return ColorBlack
	case ColorBlack:
		return ColorWhite
	default:
		return ColorNone
	}
}

// ParseColor parses a side name case-insensitively.
func ParseColor(raw string) (Color, error) {
	switch Color(strings.ToLower(strings.TrimSpace(raw))) {
	case ColorWhite:
		return ColorWhite, nil
	case ColorBlack:
		return ColorBlack, nil
	default:
		return ColorNone, fmt.Errorf("unknown color %q (use white or black)", raw)
	}
}

// ResultFor attributes a winner to the player's perspective.
func ResultFor(player, winner Color) GameResult {
	switch {
	case winner == ColorNone:
		return ResultDraw
	case winner == player:
		return ResultWin
	default:
		return ResultLoss
	}
}
