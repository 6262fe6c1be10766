package profile

import (
	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

// Tag labels.
const (
	TagOpeningSpecialist = "Opening Specialist"
	TagWeakOpenings      = "Weak Openings"
	TagEndgameExpert     = "Endgame Expert"
	TagPoorEndgame       = "Poor Endgame"
	TagSolid             = "Solid Player"
	TagBlunderProne      = "Prone to Blunders"
	TagAggressive        = "Aggressive"
	TagPassive           = "Passive"
	TagGambler           = "Gambler"
	TagConservative      = "Conservative"
)

type phaseRule struct {
	phase        model.GamePhase
	strongAbove  float64
	weakBelow    float64
	strong, weak string
}

var phaseRules = []phaseRule{
	{phase: model.PhaseOpening, strongAbove: 5, weakBelow: -10, strong: TagOpeningSpecialist, weak: TagWeakOpenings},
	{phase: model.PhaseEndgame, strongAbove: 8, weakBelow: -10, strong: TagEndgameExpert, weak: TagPoorEndgame},
}

// Tags derives strength, weakness, and style tags from a lifetime
// aggregate. The result depends only on s.
func Tags(s stats.Stats) (strengths, weaknesses, style []string) {
	strengths, weaknesses, style = []string{}, []string{}, []string{}
	overall := s.Accuracy()

	for _, r := range phaseRules {
		ps := s.Phase(r.phase)
		if ps.Moves() == 0 {
			continue
		}
		diff := ps.Quality.Accuracy() - overall
		switch {
		case diff > r.strongAbove:
			strengths = append(strengths, r.strong)
		case diff < r.weakBelow:
			weaknesses = append(weaknesses, r.weak)
		}
	}

	errRate := s.ErrorRate()
	switch {
	case errRate < 5 && s.GamesPlayed > 2:
		strengths = append(strengths, TagSolid)
	case errRate > 20:
		weaknesses = append(weaknesses, TagBlunderProne)
	}

	switch aggression := s.Style.Aggression(); {
	case aggression > 0.6:
		style = append(style, TagAggressive)
	case aggression < 0.3:
		style = append(style, TagPassive)
	}
	switch risk := s.Style.RiskTolerance(); {
	case risk > 0.6:
		style = append(style, TagGambler)
	case risk < 0.3:
		style = append(style, TagConservative)
	}
	return strengths, weaknesses, style
}

// FocusAreas returns the weaknesses a coaching tip should target. A passive
// style counts as one.
func (p Profile) FocusAreas() []string {
	areas := append([]string(nil), p.Weaknesses...)
	for _, tag := range p.StyleTags {
		if tag == TagPassive {
			areas = append(areas, tag)
		}
	}
	return areas
}
