package tui

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// wrapText splits text on newlines and packs each paragraph greedily into
// lines of at most width cells. Words wider than a line are split. A width
// <= 0 only honours the newlines. Each line is rendered with style.
func wrapText(text string, style lipgloss.Style, width int) []string {
	var out []string
	for _, para := range strings.Split(text, "\n") {
		if width <= 0 {
			out = append(out, render(para, style))
			continue
		}
		for _, line := range packWords(strings.Fields(para), width) {
			out = append(out, render(line, style))
		}
	}
	return out
}

func render(line string, style lipgloss.Style) string {
	if line == "" {
		return ""
	}
	return style.Render(line)
}

// packWords always returns at least one line so blank paragraphs survive.
func packWords(words []string, width int) []string {
	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}
	for _, word := range words {
		w := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+w <= width {
			cur.WriteByte(' ')
			cur.WriteString(word)
			curWidth += 1 + w
			continue
		}
		if curWidth > 0 {
			flush()
		}
		for w > width {
			head := runewidth.Truncate(word, width, "")
			if head == "" {
				// A single rune wider than the line.
				_, size := utf8.DecodeRuneInString(word)
				head = word[:size]
			}
			cur.WriteString(head)
			flush()
			word = word[len(head):]
			w = runewidth.StringWidth(word)
		}
		cur.WriteString(word)
		curWidth = w
	}
	if curWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
