package stats

import (
	"sort"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// PhaseScore pairs a phase with its accuracy.
type PhaseScore struct {
	Phase    model.GamePhase
	Moves    int
	Accuracy float64
}

// RankPhases orders played phases from most to least accurate. Phases
// without moves are left out; ties keep play order.
func RankPhases(s Stats) []PhaseScore {
	scores := make([]PhaseScore, 0, len(model.Phases))
	for _, p := range model.Phases {
		ps := s.Phases[p]
		if ps.Moves() == 0 {
			continue
		}
		scores = append(scores, PhaseScore{Phase: p, Moves: ps.Moves(), Accuracy: ps.Quality.Accuracy()})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Accuracy > scores[j].Accuracy
	})
	return scores
}

// StrongestPhase returns the most accurate played phase, opening when none.
func StrongestPhase(s Stats) model.GamePhase {
	ranked := RankPhases(s)
	if len(ranked) == 0 {
		return model.PhaseOpening
	}
	return ranked[0].Phase
}

// WeakestPhase returns the least accurate played phase, opening when none.
func WeakestPhase(s Stats) model.GamePhase {
	ranked := RankPhases(s)
	if len(ranked) == 0 {
		return model.PhaseOpening
	}
	weakest := ranked[len(ranked)-1]
	// Earliest phase wins ties.
	for _, r := range ranked {
		if r.Accuracy == weakest.Accuracy {
			return r.Phase
		}
	}
	return weakest.Phase
}
