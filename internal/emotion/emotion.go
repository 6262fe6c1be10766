// Package emotion infers the player's mood from move timing and results
// and picks the coaching personality that fits it.
package emotion

import (
	"time"

	"github.com/verte-zerg/chesscoach/internal/model"
)

// State is the inferred mood. Exactly one is active at a time.
type State string

// Moods.
const (
	Calm       State = "calm"
	Frustrated State = "frustrated"
	Confident  State = "confident"
	Disengaged State = "disengaged"
)

// Personality is the coaching voice.
type Personality string

// Coaching voices.
const (
	Supportive   Personality = "supportive"
	Empathetic   Personality = "empathetic"
	Enthusiastic Personality = "enthusiastic"
	Engaging     Personality = "engaging"
)

// Personalities lists every voice.
var Personalities = []Personality{Supportive, Empathetic, Enthusiastic, Engaging}

var personalities = map[State]Personality{
	Calm:       Supportive,
	Frustrated: Empathetic,
	Confident:  Enthusiastic,
	Disengaged: Engaging,
}

// PersonalityFor maps a mood to its voice.
func PersonalityFor(s State) Personality {
	if p, ok := personalities[s]; ok {
		return p
	}
	return Supportive
}

// Timing thresholds.
const (
	IdleThreshold     = 120 * time.Second
	fastBlunder       = 2 * time.Second
	fastGoodMove      = 10 * time.Second
	recoveryThinkTime = 5 * time.Second
	moveSamples       = 5
)

// Machine is the mood state machine. It has no timer of its own; callers
// drive idle detection through CheckEngagement.
type Machine struct {
	state           State
	moveTimes       []time.Duration
	recentBlunders  int
	fastBlunders    int
	goodFastMoves   int
	recentWins      int
	lastInteraction time.Time
	idleAfter       time.Duration
}

// New returns a calm machine whose idle clock starts at now.
func New(now time.Time) *Machine {
	return &Machine{state: Calm, lastInteraction: now, idleAfter: IdleThreshold}
}

// SetIdleThreshold overrides how long a player may be idle before
// being considered disengaged.
func (m *Machine) SetIdleThreshold(d time.Duration) {
	if d > 0 {
		m.idleAfter = d
	}
}

// State returns the current mood.
func (m *Machine) State() State { return m.state }

// Personality returns the voice for the current mood.
func (m *Machine) Personality() Personality { return PersonalityFor(m.state) }

// RecordMove updates signals for a player move that took think time.
func (m *Machine) RecordMove(q model.MoveQuality, think time.Duration, now time.Time) {
	m.lastInteraction = now
	m.moveTimes = append(m.moveTimes, think)
	if len(m.moveTimes) > moveSamples {
		m.moveTimes = m.moveTimes[len(m.moveTimes)-moveSamples:]
	}

	if q == model.QualityBlunder {
		m.recentBlunders++
		if think < fastBlunder {
			m.fastBlunders++
		} else {
			m.fastBlunders = 0
		}
	} else {
		m.recentBlunders = 0
		m.fastBlunders = 0
	}

	good := q == model.QualityGood || q == model.QualityExcellent
	if good && think < fastGoodMove {
		m.goodFastMoves++
	} else {
		m.goodFastMoves = 0
	}

	m.evaluate(think)
}

// RecordResult updates the win streak after a game.
func (m *Machine) RecordResult(r model.GameResult, now time.Time) {
	m.lastInteraction = now
	if r == model.ResultWin {
		m.recentWins++
	} else {
		m.recentWins = 0
	}
	m.evaluate(0)
}

// RecordInteraction marks the player as present, waking a disengaged player.
func (m *Machine) RecordInteraction(now time.Time) {
	m.lastInteraction = now
	if m.state == Disengaged {
		m.state = Calm
	}
}

// CheckEngagement marks the player disengaged once idle past the threshold.
// It reports whether the state changed.
func (m *Machine) CheckEngagement(now time.Time) bool {
	if now.Sub(m.lastInteraction) <= m.idleAfter || m.state == Disengaged {
		return false
	}
	m.state = Disengaged
	return true
}

// ResetGame clears per-game signals. Mood and the win streak carry over.
func (m *Machine) ResetGame() {
	m.moveTimes = m.moveTimes[:0]
	m.recentBlunders = 0
	m.fastBlunders = 0
	m.goodFastMoves = 0
}

// First matching rule wins.
func (m *Machine) evaluate(think time.Duration) {
	switch {
	case think > m.idleAfter:
		m.state = Disengaged
	case m.fastBlunders >= 2 || m.recentBlunders >= 3:
		m.state = Frustrated
	case m.recentWins >= 2 || m.goodFastMoves >= 3:
		m.state = Confident
	case m.state == Frustrated:
		if m.recentBlunders == 0 || think > recoveryThinkTime {
			m.state = Calm
		}
	case m.state == Confident:
		if m.recentBlunders > 0 {
			m.state = Calm
		}
	case m.state == Disengaged:
		m.state = Calm
	}
}

// Status is a debug snapshot of the machine.
type Status struct {
	State          State         `json:"state"`
	Personality    Personality   `json:"personality"`
	RecentBlunders int           `json:"recent_blunders"`
	FastBlunders   int           `json:"fast_blunders"`
	GoodFastMoves  int           `json:"good_fast_moves"`
	RecentWins     int           `json:"recent_wins"`
	AvgThinkTime   time.Duration `json:"avg_think_time"`
}

// Status reports the machine's counters.
func (m *Machine) Status() Status {
	var avg time.Duration
	if n := len(m.moveTimes); n > 0 {
		var sum time.Duration
		for _, d := range m.moveTimes {
			sum += d
		}
		avg = sum / time.Duration(n)
	}
	return Status{
		State:          m.state,
		Personality:    m.Personality(),
		RecentBlunders: m.recentBlunders,
		FastBlunders:   m.fastBlunders,
		GoodFastMoves:  m.goodFastMoves,
		RecentWins:     m.recentWins,
		AvgThinkTime:   avg,
	}
}
