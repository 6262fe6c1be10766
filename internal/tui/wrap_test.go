package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	plain := lipgloss.NewStyle()
	cases := []struct {
		name  string
		text  string
		width int
		want  []string
	}{
		{"fits", "good move", 20, []string{"good move"}},
		{"exact then space", "one two three", 7, []string{"one two", "three"}},
		{"back to last space", "Nice capture here", 10, []string{"Nice", "capture", "here"}},
		{"long word", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"hard break", "summary\nAccuracy: 80%", 40, []string{"summary", "Accuracy: 80%"}},
		{"blank line kept", "a\n\nb", 40, []string{"a", "", "b"}},
		{"no width", "one two three", 0, []string{"one two three"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, wrapText(c.text, plain, c.width))
		})
	}
}

func TestWrapTextWideRunes(t *testing.T) {
	assert.Equal(t, []string{"王手", "王手"}, wrapText("王手 王手", lipgloss.NewStyle(), 4))
}

func TestWrapPrefixedIndentsContinuation(t *testing.T) {
	got := wrapPrefixed("coach: ", 7, "keep your pieces active", lipgloss.NewStyle(), 20)
	assert.Equal(t, []string{"coach: keep your", "       pieces active"}, got)
}
