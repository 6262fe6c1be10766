package coach

import (
	"github.com/verte-zerg/chesscoach/internal/emotion"
	"github.com/verte-zerg/chesscoach/internal/model"
)

type bucket int

const (
	setback bucket = iota
	positive
)

var personalityTemplates = map[emotion.Personality]map[bucket][]string{
	emotion.Supportive: {
		setback: {
			"Oops, that's a blunder!",
			"That was a mistake, but we can recover.",
			"Be careful! That move loses material.",
		},
		positive: {
			"Good move!",
			"Solid choice.",
			"Well played.",
		},
	},
	emotion.Empathetic: {
		setback: {
			"That's tough. Take a deep breath.",
			"It happens to everyone. Let's focus on the next move.",
			"Don't worry about that mistake. Reset and focus.",
		},
		positive: {
			"Nice recovery!",
			"Great, you're back on track.",
			"Steady play. That helps stabilize things.",
		},
	},
	emotion.Enthusiastic: {
		setback: {
			"Whoops! Even champions miss those.",
			"A rare slip up! You'll get it back.",
			"Ah! A missed opportunity. Keep the energy up!",
		},
		positive: {
			"Yes! Crushing it!",
			"You are on fire!",
			"Brilliant! Keep attacking!",
		},
	},
	emotion.Engaging: {
		setback: {
			"Wait, look closely... see why that's a blunder?",
			"Hold on, what did we miss there?",
			"Let's pause. Can you spot the tactical error?",
		},
		positive: {
			"There we go! You're focused now.",
			"Nice one. What's your plan after this?",
			"Good. Now, how do we follow up?",
		},
	},
}

// Neutral qualities ignore the personality.
var standardTemplates = map[model.MoveQuality][]string{
	model.QualityInaccuracy: {
		"Slight inaccuracy.",
		"There was a stronger move available.",
		"A minor slip.",
		"Not quite optimal.",
		"Close, but not the best.",
	},
	model.QualityBook: {
		"Standard opening theory.",
		"A well-known book move.",
		"Following established opening principles.",
		"Textbook play.",
	},
}

var phaseNotes = map[model.GamePhase][]string{
	model.PhaseOpening:    {"Keep developing!", "Good opening play.", "Fight for the center."},
	model.PhaseMiddlegame: {"Look for tactics!", "Keep the pressure on.", "Stay alert for combinations."},
	model.PhaseEndgame:    {"Technique is key now.", "Activate your king!", "Push those pawns."},
}

var phaseTips = map[model.GamePhase][]string{
	model.PhaseOpening: {
		"Control the center with pawns and pieces.",
		"Develop your knights before bishops.",
		"Castle early to protect your king.",
		"Don't move the same piece twice in the opening.",
		"Connect your rooks by developing all minor pieces.",
		"Don't bring your queen out too early.",
		"Fight for central squares: e4, d4, e5, d5.",
		"Develop with a purpose: each move should improve your position.",
	},
	model.PhaseMiddlegame: {
		"Look for tactical opportunities: forks, pins, skewers.",
		"Keep your pieces active and coordinated.",
		"Create pressure on your opponent's weaknesses.",
		"Think about pawn structure. It defines the position.",
		"Consider piece exchanges carefully.",
		"Control open files with your rooks.",
		"Knights love outposts, squares where pawns can't chase them.",
		"Look for checks, captures, and threats before each move.",
	},
	model.PhaseEndgame: {
		"Activate your king! It's a fighting piece in the endgame.",
		"Passed pawns must be pushed.",
		"Rooks belong behind passed pawns.",
		"In king and pawn endgames, opposition is key.",
		"Centralize your king in the endgame.",
		"The side with more active pieces usually wins.",
		"Don't rush. Calculate carefully in the endgame.",
		"Cut off the enemy king from your passed pawns.",
	},
}

var (
	gainedMaterial = []string{
		"Nice! You won material.",
		"Good capture, you're up in material now.",
		"You picked up some material there.",
	}
	lostMaterial = []string{
		"You lost material on that exchange.",
		"That cost you some material.",
		"Be careful, you're down material now.",
	}
	checkmateWin = []string{
		"Checkmate! Well played!",
		"That's checkmate! Great game!",
		"You got them! Checkmate!",
	}
	checkmateLoss = []string{
		"Checkmate. Better luck next time!",
		"You got checkmated. Let's review what went wrong.",
		"That's checkmate against you. Keep practicing!",
	}
	drawComments = []string{
		"The game is a draw. A hard-fought battle!",
		"It's a draw. Neither side could break through.",
		"Draw! Sometimes that's the right result.",
	}
	encouragements = []string{
		"You've got this!",
		"Keep thinking ahead.",
		"Stay focused!",
		"Trust your instincts.",
		"Every move is a chance to learn.",
		"Chess is a journey. Enjoy the game!",
	}
)

type keywordTip struct {
	keyword string
	tip     func(c *Coach) string
}

var weaknessTips = []keywordTip{
	{"Opening", func(c *Coach) string { return "Coach Tip: " + c.rnd.Pick(c.tips[model.PhaseOpening]) }},
	{"Endgame", func(c *Coach) string { return "Coach Tip: " + c.rnd.Pick(c.tips[model.PhaseEndgame]) }},
	{"Blunders", func(*Coach) string {
		return "Coach Tip: Take an extra moment to check for hanging pieces before every move."
	}},
	{"Passive", func(*Coach) string {
		return "Coach Tip: Look for ways to improve your piece activity. Passive play leads to difficult positions."
	}},
}

var strengthTips = []keywordTip{
	{"Endgame", func(*Coach) string { return "You're strong in the endgame. Try to simplify the position!" }},
	{"Solid", func(*Coach) string { return "Your play is steady. Look for complex tactical lines, that's where you shine!" }},
	{"Opening", func(*Coach) string {
		return "Your openings are solid. Use that advantage to build a strong middlegame plan."
	}},
}

var summaryRemarks = []struct {
	minAccuracy float64
	remark      string
}{
	{90, "Outstanding performance! You played like a master."},
	{75, "Good game! Keep practicing to reduce those small errors."},
	{60, "Decent effort. Focus on calculating a bit deeper before each move."},
	{0, "Keep at it! Review your blunders to learn from them."},
}

var resultLines = map[model.GameResult]string{
	model.ResultWin:  "Result: Victory!",
	model.ResultLoss: "Result: Defeat",
	model.ResultDraw: "Result: Draw",
}
