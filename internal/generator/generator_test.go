package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeededIsDeterministic(t *testing.T) {
	options := []string{"a", "b", "c", "d"}
	a, b := NewSeeded(42), NewSeeded(42)
	for i := 0; i < 20; i++ {
		require.Equal(t, a.Pick(options), b.Pick(options), "pick %d", i)
		require.Equal(t, a.Chance(0.5), b.Chance(0.5), "chance %d", i)
	}
}

func TestChanceBounds(t *testing.T) {
	g := NewSeeded(1)
	for i := 0; i < 100; i++ {
		require.False(t, g.Chance(0))
		require.True(t, g.Chance(1))
	}
}

func TestPickEmpty(t *testing.T) {
	assert.Empty(t, NewSeeded(1).Pick(nil))
}
