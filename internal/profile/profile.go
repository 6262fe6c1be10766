// Package profile maintains a player's long-term rating, history, and
// detected strengths and weaknesses.
package profile

import (
	"math"
	"time"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

// Rating constants.
const (
	InitialRating = 1000.0
	RatingFloor   = 100.0

	earlyGames  = 5
	earlyWeight = 0.5
	lateWeight  = 0.15
)

var resultTerms = map[model.GameResult]float64{
	model.ResultWin:  200,
	model.ResultLoss: -200,
	model.ResultDraw: 0,
}

// Profile is a player's persistent record.
type Profile struct {
	PlayerID      string             `json:"player_id"`
	Rating        float64            `json:"rating"`
	RatingHistory []float64          `json:"rating_history"`
	Stats         stats.Stats        `json:"lifetime_stats"`
	GameHistory   []model.GameRecord `json:"game_history"`
	Strengths     []string           `json:"strengths"`
	Weaknesses    []string           `json:"weaknesses"`
	StyleTags     []string           `json:"style_tags"`
	CreatedAt     time.Time          `json:"created_at"`
	LastUpdated   time.Time          `json:"last_updated"`
}

// New returns a fresh profile at the initial rating.
func New(playerID string, now time.Time) *Profile {
	return &Profile{
		PlayerID:      playerID,
		Rating:        InitialRating,
		RatingHistory: []float64{InitialRating},
		Stats:         *stats.New(playerID, now),
		GameHistory:   []model.GameRecord{},
		Strengths:     []string{},
		Weaknesses:    []string{},
		StyleTags:     []string{},
		CreatedAt:     now,
		LastUpdated:   now,
	}
}

// Game is a finished game ready to be folded into a profile.
type Game struct {
	Result          model.GameResult
	DifficultyLevel int
	Session         stats.Stats
}

// Performance is the rating a single game was played at.
func Performance(level int, result model.GameResult, accuracy float64) float64 {
	return float64(level)*100 + resultTerms[result] + (accuracy-50)*4
}

// Update folds a finished game into p and returns the new profile. p is
// not modified.
func Update(p Profile, g Game, now time.Time) Profile {
	accuracy := g.Session.Accuracy()
	record := model.GameRecord{
		Date:            now,
		Result:          g.Result,
		Accuracy:        math.Round(accuracy*10) / 10,
		DifficultyLevel: g.DifficultyLevel,
		MovesPlayed:     g.Session.Quality.Total,
		Blunders:        g.Session.Quality.Blunders,
		Mistakes:        g.Session.Quality.Mistakes,
	}
	out := p
	out.GameHistory = append(append(make([]model.GameRecord, 0, len(p.GameHistory)+1), p.GameHistory...), record)

	w := lateWeight
	if len(out.GameHistory) <= earlyGames {
		w = earlyWeight
	}
	perf := Performance(g.DifficultyLevel, g.Result, accuracy)
	out.Rating = math.Max(RatingFloor, p.Rating*(1-w)+perf*w)
	out.RatingHistory = append(append(make([]float64, 0, len(p.RatingHistory)+1), p.RatingHistory...), math.Round(out.Rating*10)/10)

	out.Stats = stats.Merge(p.Stats, g.Session, g.Result, now)
	out.Strengths, out.Weaknesses, out.StyleTags = Tags(out.Stats)
	out.LastUpdated = now
	return out
}

// Summary is a short view of a profile.
type Summary struct {
	PlayerID    string   `json:"player_id"`
	Rating      int      `json:"rating"`
	GamesPlayed int      `json:"games_played"`
	WinRate     float64  `json:"win_rate"`
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Style       []string `json:"style"`
}

// Summary returns the headline numbers.
func (p Profile) Summary() Summary {
	return Summary{
		PlayerID:    p.PlayerID,
		Rating:      int(math.Round(p.Rating)),
		GamesPlayed: p.Stats.GamesPlayed,
		WinRate:     math.Round(p.Stats.WinRate()*10) / 10,
		Strengths:   p.Strengths,
		Weaknesses:  p.Weaknesses,
		Style:       p.StyleTags,
	}
}
