// Package generator provides the seedable randomness behind coaching text.
package generator

import (
	"math/rand"
	"time"
)

// Generator picks phrasings and rolls chances from one random source.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Pick returns a uniformly chosen option, or "" when there are none.
func (g *Generator) Pick(options []string) string {
	if len(options) == 0 {
		return ""
	}
	return options[g.rnd.Intn(len(options))]
}

// Chance reports true with probability p.
func (g *Generator) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	return g.rnd.Float64() < p
}
