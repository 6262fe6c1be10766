// Package coach turns move classifications into conversational feedback.
package coach

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/chesscoach/internal/emotion"
	"github.com/verte-zerg/chesscoach/internal/model"
)

// Rand is the randomness the coach draws phrasings from.
type Rand interface {
	Pick(options []string) string
	Chance(p float64) bool
}

// MoveContext describes the move being commented on.
type MoveContext struct {
	Move           string
	Quality        model.MoveQuality
	Phase          model.GamePhase
	CentipawnLoss  float64
	MaterialChange int
	IsCapture      bool
	IsCheck        bool
	BestMove       string
}

// Coach generates feedback text.
type Coach struct {
	rnd            Rand
	tips           map[model.GamePhase][]string
	encouragements []string
}

// New returns a coach drawing randomness from rnd.
func New(rnd Rand) *Coach {
	c := &Coach{
		rnd:            rnd,
		tips:           make(map[model.GamePhase][]string, len(phaseTips)),
		encouragements: append([]string(nil), encouragements...),
	}
	for phase, tips := range phaseTips {
		c.tips[phase] = append([]string(nil), tips...)
	}
	return c
}

// AddTips extends the tips offered for a phase.
func (c *Coach) AddTips(phase model.GamePhase, tips ...string) {
	c.tips[phase] = append(c.tips[phase], tips...)
}

// AddEncouragements extends the generic encouragement pool.
func (c *Coach) AddEncouragements(lines ...string) {
	c.encouragements = append(c.encouragements, lines...)
}

// CommentOnMove builds feedback for a move in the given voice.
func (c *Coach) CommentOnMove(mc MoveContext, p emotion.Personality) string {
	parts := []string{c.opener(mc.Quality, p), reason(mc)}
	if mc.Quality == model.QualityGood || mc.Quality == model.QualityExcellent {
		if c.rnd.Chance(0.5) {
			parts = append(parts, c.rnd.Pick(phaseNotes[mc.Phase]))
		}
	}
	switch {
	case mc.MaterialChange >= 3:
		parts = append(parts, c.rnd.Pick(gainedMaterial))
	case mc.MaterialChange <= -3:
		parts = append(parts, c.rnd.Pick(lostMaterial))
	}
	return join(parts...)
}

func (c *Coach) opener(q model.MoveQuality, p emotion.Personality) string {
	if options, ok := standardTemplates[q]; ok {
		return c.rnd.Pick(options)
	}
	set, ok := personalityTemplates[p]
	if !ok {
		set = personalityTemplates[emotion.Supportive]
	}
	if q.IsSetback() {
		return c.rnd.Pick(set[setback])
	}
	return c.rnd.Pick(set[positive])
}

func reason(mc MoveContext) string {
	switch mc.Quality {
	case model.QualityBlunder, model.QualityMistake:
		switch {
		case mc.MaterialChange <= -9:
			return "You lost your queen!"
		case mc.MaterialChange <= -5:
			return "You lost a rook!"
		case mc.MaterialChange <= -3:
			return "You lost a piece!"
		case mc.MaterialChange < 0:
			return "You lost material."
		case mc.BestMove != "":
			return mc.BestMove + " was better."
		}
	case model.QualityGood, model.QualityExcellent:
		switch {
		case mc.IsCheck:
			return "Creating threats!"
		case mc.IsCapture && mc.MaterialChange > 0:
			return "Nice capture!"
		case mc.Phase == model.PhaseOpening:
			return "Developing nicely."
		}
	}
	return ""
}

func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// PhaseTip returns a tip for the phase.
func (c *Coach) PhaseTip(phase model.GamePhase) string {
	tips, ok := c.tips[phase]
	if !ok {
		tips = c.tips[model.PhaseEndgame]
	}
	return "Tip: " + c.rnd.Pick(tips)
}

// CheckmateComment reacts to a checkmate.
func (c *Coach) CheckmateComment(playerWon bool) string {
	if playerWon {
		return c.rnd.Pick(checkmateWin)
	}
	return c.rnd.Pick(checkmateLoss)
}

// DrawComment reacts to a draw, naming the reason when known.
func (c *Coach) DrawComment(reason string) string {
	base := c.rnd.Pick(drawComments)
	if reason != "" {
		return fmt.Sprintf("%s (%s)", base, reason)
	}
	return base
}

// Encourage returns a generic encouragement.
func (c *Coach) Encourage() string {
	return c.rnd.Pick(c.encouragements)
}

// ProfileTip targets a weakness most of the time, otherwise reinforces a
// strength.
func (c *Coach) ProfileTip(strengths, weaknesses []string) string {
	if len(strengths) == 0 && len(weaknesses) == 0 {
		return c.Encourage()
	}
	if len(weaknesses) > 0 && c.rnd.Chance(0.7) {
		if tip := c.matchTip(weaknessTips, c.rnd.Pick(weaknesses)); tip != "" {
			return tip
		}
	}
	if len(strengths) > 0 {
		if tip := c.matchTip(strengthTips, c.rnd.Pick(strengths)); tip != "" {
			return tip
		}
	}
	return c.Encourage()
}

func (c *Coach) matchTip(table []keywordTip, tag string) string {
	for _, kt := range table {
		if strings.Contains(tag, kt.keyword) {
			return kt.tip(c)
		}
	}
	return ""
}

// GameSummary holds the numbers reported at the end of a game.
type GameSummary struct {
	Result         model.GameResult
	TotalMoves     int
	Blunders       int
	Mistakes       int
	ExcellentMoves int
	Accuracy       float64
}

// Summary renders a deterministic end-of-game report.
func Summary(s GameSummary) string {
	rule := strings.Repeat("=", 40)
	lines := []string{
		rule,
		"GAME SUMMARY",
		rule,
		resultLines[s.Result],
		fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy),
		fmt.Sprintf("Total moves: %d", s.TotalMoves),
		fmt.Sprintf("Excellent moves: %d", s.ExcellentMoves),
	}
	if s.Blunders > 0 {
		lines = append(lines, fmt.Sprintf("Blunders: %d", s.Blunders))
	}
	if s.Mistakes > 0 {
		lines = append(lines, fmt.Sprintf("Mistakes: %d", s.Mistakes))
	}
	lines = append(lines, "")
	for _, r := range summaryRemarks {
		if s.Accuracy >= r.minAccuracy {
			lines = append(lines, r.remark)
			break
		}
	}
	lines = append(lines, rule)
	return strings.Join(lines, "\n")
}
