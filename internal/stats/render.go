package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/chesscoach/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := bounds(values)
	if math.Abs(hi-lo) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * float64(len(sparkChars)-1)))
		b.WriteByte(sparkChars[min(max(idx, 0), len(sparkChars)-1)])
	}
	return b.String()
}

// RenderSummary prints the headline numbers of an aggregate.
func RenderSummary(w io.Writer, s Stats) error {
	if s.Quality.Total == 0 && s.GamesPlayed == 0 {
		_, err := fmt.Fprintln(w, "No games recorded.")
		return err
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Games: %d (W %d / L %d / D %d)", s.GamesPlayed, s.Wins, s.Losses, s.Draws),
		fmt.Sprintf("Win rate: %.1f%%", s.WinRate()),
		fmt.Sprintf("Moves: %d", s.Quality.Total),
		fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy()),
		fmt.Sprintf("Error rate: %.1f%%", s.ErrorRate()),
		fmt.Sprintf("Avg centipawn loss: %.1f", s.AverageLoss()),
		fmt.Sprintf("Strongest phase: %s", StrongestPhase(s)),
		fmt.Sprintf("Weakest phase: %s", WeakestPhase(s)),
		fmt.Sprintf("Style: aggression %.2f, risk %.2f, activity %.2f",
			s.Style.Aggression(), s.Style.RiskTolerance(), s.Style.PieceActivity()),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// PhaseRows returns one table row per phase.
func PhaseRows(s Stats) [][]string {
	rows := make([][]string, 0, len(model.Phases))
	for _, p := range model.Phases {
		ps := s.Phases[p]
		rows = append(rows, []string{
			p.Title(),
			fmt.Sprintf("%d", ps.Moves()),
			fmt.Sprintf("%.1f%%", ps.Quality.Accuracy()),
			fmt.Sprintf("%.1f", ps.Loss.Average()),
			fmt.Sprintf("%d", ps.Quality.Blunders),
			fmt.Sprintf("%d", ps.Quality.Mistakes),
			fmt.Sprintf("%d", ps.Quality.Inaccuracies),
		})
	}
	return rows
}

// PhaseHeaders are the column titles for PhaseRows.
var PhaseHeaders = []string{"Phase", "Moves", "Accuracy", "Avg Loss", "Blunders", "Mistakes", "Inaccuracies"}

// RenderPhaseTable prints the per-phase breakdown.
func RenderPhaseTable(w io.Writer, s Stats) error {
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	return RenderTable(w, "Per-Phase", PhaseHeaders, PhaseRows(s), rightAlign)
}

// RenderTable prints a titled table with aligned columns.
func RenderTable(w io.Writer, title string, headers []string, rows [][]string, rightAlign map[int]bool) error {
	if _, err := fmt.Fprintln(w, title); err != nil {
		return err
	}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// GameHeaders are the column titles for GameRows.
var GameHeaders = []string{"Date", "Result", "Accuracy", "Level", "Moves", "Blunders", "Mistakes"}

// GameRows returns one table row per game, newest first.
func GameRows(games []model.GameRecord) [][]string {
	rows := make([][]string, 0, len(games))
	for i := len(games) - 1; i >= 0; i-- {
		g := games[i]
		rows = append(rows, []string{
			g.Date.Local().Format("2006-01-02 15:04"),
			string(g.Result),
			fmt.Sprintf("%.1f%%", g.Accuracy),
			fmt.Sprintf("%d", g.DifficultyLevel),
			fmt.Sprintf("%d", g.MovesPlayed),
			fmt.Sprintf("%d", g.Blunders),
			fmt.Sprintf("%d", g.Mistakes),
		})
	}
	return rows
}

// RenderGames prints the game history table.
func RenderGames(w io.Writer, games []model.GameRecord) error {
	if len(games) == 0 {
		_, err := fmt.Fprintln(w, "No games found.")
		return err
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	return RenderTable(w, "Games", GameHeaders, GameRows(games), rightAlign)
}

// RenderCurves plots the rating history and the smoothed per-game accuracy.
func RenderCurves(w io.Writer, r Report, totalWidth, height int, useColor bool) error {
	width := 0
	if totalWidth > 0 {
		width = CurveWidthFor(totalWidth, 6)
	}
	if err := PlotCurve(w, Curve{Title: "Rating", Values: r.Ratings}, width, height, useColor); err != nil {
		return err
	}
	return PlotCurve(w, Curve{Title: "Accuracy (moving average)", Values: r.Accuracy, Format: "%.0f%%"}, width, height, useColor)
}
