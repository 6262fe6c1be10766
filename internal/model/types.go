// Package model defines shared data structures.
package model

import "time"

// Config defines coaching session settings.
type Config struct {
	PlayerID      string
	PlayerColor   Color
	Level         *float64
	MinLevel      float64
	MaxLevel      float64
	WindowSize    int
	TimeLimit     time.Duration
	Seed          int64
	TipsFile      string
	StorageKind   string
	ProfileDir    string
	DBPath        string
	IdleThreshold time.Duration
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	PlayerID    string
	Since       *time.Time
	Last        int
	CurveWindow int
}

// MoveAnalysis is the external classifier's verdict on one player move.
type MoveAnalysis struct {
	Quality        MoveQuality `json:"quality"`
	CentipawnLoss  float64     `json:"centipawn_loss"`
	Phase          GamePhase   `json:"phase"`
	MaterialChange int         `json:"material_change"`
	IsCapture      bool        `json:"is_capture"`
	IsCheck        bool        `json:"is_check"`
	BestMove       string      `json:"best_move,omitempty"`
	IsBestMove     bool        `json:"is_best_move"`
	Style          *StyleFlags `json:"style,omitempty"`
}

// StyleFlags are optional explicit style indicators for a move.
type StyleFlags struct {
	Attacking bool `json:"attacking"`
	Risky     bool `json:"risky"`
	Active    bool `json:"active"`
}

// Styles returns the move's style indicators, deriving them from the
// analysis when the classifier did not supply any.
func (a MoveAnalysis) Styles() StyleFlags {
	if a.Style != nil {
		return *a.Style
	}
	return StyleFlags{
		Attacking: a.IsCheck || a.IsCapture,
		Risky:     a.MaterialChange < 0,
		Active:    a.IsCheck || a.IsCapture || a.Quality == QualityGood || a.Quality == QualityExcellent,
	}
}

// GameRecord summarizes one finished game in a player's history.
type GameRecord struct {
	Date            time.Time  `json:"date"`
	Result          GameResult `json:"result"`
	Accuracy        float64    `json:"accuracy"`
	DifficultyLevel int        `json:"difficulty_level"`
	MovesPlayed     int        `json:"moves_played"`
	Blunders        int        `json:"blunders"`
	Mistakes        int        `json:"mistakes"`
}
