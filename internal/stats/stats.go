// Package stats contains statistics calculations and reporting.
package stats

import (
	"time"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// QualityCounts tallies moves by classified quality.
type QualityCounts struct {
	Total        int `json:"total_moves"`
	Blunders     int `json:"blunders"`
	Mistakes     int `json:"mistakes"`
	Inaccuracies int `json:"inaccuracies"`
	Good         int `json:"good_moves"`
	Excellent    int `json:"excellent_moves"`
	Book         int `json:"book_moves"`
}

func (c *QualityCounts) record(q model.MoveQuality) {
	c.Total++
	switch q {
	case model.QualityBlunder:
		c.Blunders++
	case model.QualityMistake:
		c.Mistakes++
	case model.QualityInaccuracy:
		c.Inaccuracies++
	case model.QualityGood:
		c.Good++
	case model.QualityExcellent:
		c.Excellent++
	case model.QualityBook:
		c.Book++
	}
}

// Accuracy is the percentage of good, excellent, and book moves.
func (c QualityCounts) Accuracy() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Good+c.Excellent+c.Book) / float64(c.Total) * 100
}

// ErrorRate is the percentage of blunders, mistakes, and inaccuracies.
func (c QualityCounts) ErrorRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Blunders+c.Mistakes+c.Inaccuracies) / float64(c.Total) * 100
}

func (c QualityCounts) plus(o QualityCounts) QualityCounts {
	return QualityCounts{
		Total:        c.Total + o.Total,
		Blunders:     c.Blunders + o.Blunders,
		Mistakes:     c.Mistakes + o.Mistakes,
		Inaccuracies: c.Inaccuracies + o.Inaccuracies,
		Good:         c.Good + o.Good,
		Excellent:    c.Excellent + o.Excellent,
		Book:         c.Book + o.Book,
	}
}

// EvalLoss accumulates centipawn loss. Improvements count as moves but add nothing.
type EvalLoss struct {
	TotalCentipawnLoss float64 `json:"total_centipawn_loss"`
	MoveCount          int     `json:"move_count"`
}

func (e *EvalLoss) record(loss float64) {
	e.MoveCount++
	if loss > 0 {
		e.TotalCentipawnLoss += loss
	}
}

// Average returns the mean centipawn loss per move.
func (e EvalLoss) Average() float64 {
	if e.MoveCount == 0 {
		return 0
	}
	return e.TotalCentipawnLoss / float64(e.MoveCount)
}

// PhaseStats holds the per-phase breakdown.
type PhaseStats struct {
	Quality QualityCounts `json:"quality"`
	Loss    EvalLoss      `json:"eval_loss"`
}

// Moves returns the number of moves played in the phase.
func (p PhaseStats) Moves() int { return p.Quality.Total }

// Style counts style indicators across evaluated moves.
type Style struct {
	AttackingMoves int `json:"attacking_moves"`
	EvaluatedMoves int `json:"evaluated_moves"`
	RiskyMoves     int `json:"risky_moves"`
	SafeMoves      int `json:"safe_moves"`
	ActiveMoves    int `json:"active_moves"`
	PassiveMoves   int `json:"passive_moves"`
}

func (s *Style) record(f model.StyleFlags) {
	s.EvaluatedMoves++
	if f.Attacking {
		s.AttackingMoves++
	}
	if f.Risky {
		s.RiskyMoves++
	} else {
		s.SafeMoves++
	}
	if f.Active {
		s.ActiveMoves++
	} else {
		s.PassiveMoves++
	}
}

// Aggression is the share of attacking moves, 0.5 with no data.
func (s Style) Aggression() float64 {
	return ratio(s.AttackingMoves, s.EvaluatedMoves)
}

// RiskTolerance is the share of risky moves, 0.5 with no data.
func (s Style) RiskTolerance() float64 {
	return ratio(s.RiskyMoves, s.RiskyMoves+s.SafeMoves)
}

// PieceActivity is the share of active moves, 0.5 with no data.
func (s Style) PieceActivity() float64 {
	return ratio(s.ActiveMoves, s.ActiveMoves+s.PassiveMoves)
}

func ratio(n, total int) float64 {
	if total == 0 {
		return 0.5
	}
	return float64(n) / float64(total)
}

// Stats aggregates one session's moves, or a player's lifetime when merged.
type Stats struct {
	PlayerID    string                         `json:"player_id"`
	GamesPlayed int                            `json:"games_played"`
	Wins        int                            `json:"wins"`
	Losses      int                            `json:"losses"`
	Draws       int                            `json:"draws"`
	Quality     QualityCounts                  `json:"move_quality"`
	Loss        EvalLoss                       `json:"eval_loss"`
	Phases      map[model.GamePhase]PhaseStats `json:"phase_stats"`
	Style       Style                          `json:"style"`
	CreatedAt   time.Time                      `json:"created_at"`
	LastUpdated time.Time                      `json:"last_updated"`
}

// New returns empty stats for a player.
func New(playerID string, now time.Time) *Stats {
	return &Stats{
		PlayerID:    playerID,
		Phases:      emptyPhases(),
		CreatedAt:   now,
		LastUpdated: now,
	}
}

func emptyPhases() map[model.GamePhase]PhaseStats {
	phases := make(map[model.GamePhase]PhaseStats, len(model.Phases))
	for _, p := range model.Phases {
		phases[p] = PhaseStats{}
	}
	return phases
}

// RecordMove adds one classified move.
func (s *Stats) RecordMove(a model.MoveAnalysis, now time.Time) {
	s.Quality.record(a.Quality)
	s.Loss.record(a.CentipawnLoss)
	if s.Phases == nil {
		s.Phases = emptyPhases()
	}
	if a.Phase.Valid() {
		ps := s.Phases[a.Phase]
		ps.Quality.record(a.Quality)
		ps.Loss.record(a.CentipawnLoss)
		s.Phases[a.Phase] = ps
	}
	s.Style.record(a.Styles())
	s.LastUpdated = now
}

// RecordResult counts a finished game.
func (s *Stats) RecordResult(r model.GameResult, now time.Time) {
	s.GamesPlayed++
	switch r {
	case model.ResultWin:
		s.Wins++
	case model.ResultLoss:
		s.Losses++
	case model.ResultDraw:
		s.Draws++
	}
	s.LastUpdated = now
}

// Accuracy returns overall accuracy in percent.
func (s Stats) Accuracy() float64 { return s.Quality.Accuracy() }

// ErrorRate returns the overall error rate in percent.
func (s Stats) ErrorRate() float64 { return s.Quality.ErrorRate() }

// AverageLoss returns the mean centipawn loss per move.
func (s Stats) AverageLoss() float64 { return s.Loss.Average() }

// Phase returns the breakdown for a phase.
func (s Stats) Phase(p model.GamePhase) PhaseStats { return s.Phases[p] }

// PhaseAccuracy returns a phase's accuracy in percent.
func (s Stats) PhaseAccuracy(p model.GamePhase) float64 {
	return s.Phases[p].Quality.Accuracy()
}

// WinRate returns the share of games won in percent.
func (s Stats) WinRate() float64 {
	if s.GamesPlayed == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.GamesPlayed) * 100
}

// Clone returns a deep copy.
func (s Stats) Clone() Stats {
	out := s
	out.Phases = make(map[model.GamePhase]PhaseStats, len(s.Phases))
	for k, v := range s.Phases {
		out.Phases[k] = v
	}
	return out
}

// Merge folds a finished session into a lifetime aggregate and returns the
// new aggregate. Neither input is modified.
func Merge(lifetime, session Stats, result model.GameResult, now time.Time) Stats {
	out := lifetime.Clone()
	if out.Phases == nil {
		out.Phases = emptyPhases()
	}
	out.Quality = lifetime.Quality.plus(session.Quality)
	out.Loss = EvalLoss{
		TotalCentipawnLoss: lifetime.Loss.TotalCentipawnLoss + session.Loss.TotalCentipawnLoss,
		MoveCount:          lifetime.Loss.MoveCount + session.Loss.MoveCount,
	}
	for p, sp := range session.Phases {
		lp := out.Phases[p]
		out.Phases[p] = PhaseStats{
			Quality: lp.Quality.plus(sp.Quality),
			Loss: EvalLoss{
				TotalCentipawnLoss: lp.Loss.TotalCentipawnLoss + sp.Loss.TotalCentipawnLoss,
				MoveCount:          lp.Loss.MoveCount + sp.Loss.MoveCount,
			},
		}
	}
	out.Style = Style{
		AttackingMoves: lifetime.Style.AttackingMoves + session.Style.AttackingMoves,
		EvaluatedMoves: lifetime.Style.EvaluatedMoves + session.Style.EvaluatedMoves,
		RiskyMoves:     lifetime.Style.RiskyMoves + session.Style.RiskyMoves,
		SafeMoves:      lifetime.Style.SafeMoves + session.Style.SafeMoves,
		ActiveMoves:    lifetime.Style.ActiveMoves + session.Style.ActiveMoves,
		PassiveMoves:   lifetime.Style.PassiveMoves + session.Style.PassiveMoves,
	}
	out.RecordResult(result, now)
	return out
}
