package stats

import (
	"github.com/verte-zerg/chesscoach/internal/model"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Games    []model.GameRecord
	Ratings  []float64
	Accuracy []float64
}

// BuildReport filters a player's history and prepares the plotted series.
// The rating series is trimmed to the same tail as the games, plus the
// rating the first selected game started from.
func BuildReport(games []model.GameRecord, ratings []float64, cfg model.StatsConfig) Report {
	start := 0
	if cfg.Since != nil {
		for start < len(games) && games[start].Date.Before(*cfg.Since) {
			start++
		}
	}
	if cfg.Last > 0 && len(games)-start > cfg.Last {
		start = len(games) - cfg.Last
	}
	selected := append([]model.GameRecord(nil), games[start:]...)

	// Ratings hold the initial value followed by one entry per game.
	var ratingTail []float64
	if offset := len(ratings) - len(games); offset >= 1 {
		ratingTail = append(ratingTail, ratings[offset-1+start:]...)
	} else {
		ratingTail = append(ratingTail, ratings...)
	}

	acc := make([]float64, len(selected))
	for i, g := range selected {
		acc[i] = g.Accuracy
	}
	return Report{
		Games:    selected,
		Ratings:  ratingTail,
		Accuracy: MovingAverage(acc, cfg.CurveWindow),
	}
}
