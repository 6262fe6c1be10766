// Package difficulty adapts engine strength to the player's recent play.
package difficulty

import "github.com/verte-zerg/chesscoach/internal/model"

// DefaultWindowSize is the number of recent moves the controller looks at.
const DefaultWindowSize = 10

// Window is a bounded FIFO of recent move qualities.
type Window struct {
	size  int
	moves []model.MoveQuality
}

// NewWindow returns an empty window holding at most size moves.
func NewWindow(size int) *Window {
	if size <= 0 {
		size = DefaultWindowSize
	}
	return &Window{size: size, moves: make([]model.MoveQuality, 0, size)}
}

// Record appends a quality, evicting the oldest once full.
func (w *Window) Record(q model.MoveQuality) {
	if len(w.moves) == w.size {
		copy(w.moves, w.moves[1:])
		w.moves = w.moves[:w.size-1]
	}
	w.moves = append(w.moves, q)
}

// Len returns the number of recorded moves.
func (w *Window) Len() int { return len(w.moves) }

// Cap returns the window capacity.
func (w *Window) Cap() int { return w.size }

// Clear drops all recorded moves.
func (w *Window) Clear() { w.moves = w.moves[:0] }

// BlunderRate is the share of blunders, 0 when empty.
func (w *Window) BlunderRate() float64 {
	return w.share(func(q model.MoveQuality) bool { return q == model.QualityBlunder }, 0)
}

// ExcellentRate is the share of excellent moves, 0 when empty.
func (w *Window) ExcellentRate() float64 {
	return w.share(func(q model.MoveQuality) bool { return q == model.QualityExcellent }, 0)
}

// Accuracy is the share of good, excellent, and book moves, 0.5 when empty.
func (w *Window) Accuracy() float64 {
	return w.share(func(q model.MoveQuality) bool {
		return q == model.QualityGood || q == model.QualityExcellent || q == model.QualityBook
	}, 0.5)
}

func (w *Window) share(match func(model.MoveQuality) bool, empty float64) float64 {
	if len(w.moves) == 0 {
		return empty
	}
	n := 0
	for _, q := range w.moves {
		if match(q) {
			n++
		}
	}
	return float64(n) / float64(len(w.moves))
}
