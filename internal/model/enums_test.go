package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultForIsColorAware(t *testing.T) {
	assert.Equal(t, ResultWin, ResultFor(ColorBlack, ColorBlack))
	assert.Equal(t, ResultLoss, ResultFor(ColorBlack, ColorWhite))
	assert.Equal(t, ResultDraw, ResultFor(ColorWhite, ColorNone))
}

func TestParseQuality(t *testing.T) {
	q, err := ParseQuality(" Blunder ")
	require.NoError(t, err)
	assert.Equal(t, QualityBlunder, q)

	_, err = ParseQuality("brilliant")
	assert.Error(t, err)
}

func TestStylesDerivedWhenAbsent(t *testing.T) {
	a := MoveAnalysis{Quality: QualityInaccuracy, MaterialChange: -1}
	assert.Equal(t, StyleFlags{Risky: true}, a.Styles())

	a.Style = &StyleFlags{Active: true}
	assert.Equal(t, StyleFlags{Active: true}, a.Styles())
}
