package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

const (
	plotHeight   = 8
	cardWidth    = 16
	formGames    = 10
	maxBarWidth  = 30
	phaseLabelsW = 12
)

var (
	boardLight = lipgloss.Color("#EEEED2")
	boardDark  = lipgloss.Color("#769656")
	accent     = lipgloss.Color("#BACA44")
	muted      = lipgloss.Color("#7A7A7A")

	tabStyle       = lipgloss.NewStyle().Foreground(muted).Padding(0, 1)
	activeTabStyle = lipgloss.NewStyle().Foreground(boardLight).Background(boardDark).Bold(true).Padding(0, 1)
	mutedStyle     = lipgloss.NewStyle().Foreground(muted)
	titleStyle     = lipgloss.NewStyle().Foreground(accent).Bold(true)
	formLabelStyle = lipgloss.NewStyle().Foreground(accent)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	strengthStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#98C379"))
	weaknessStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#E06C75"))
	cardLabelStyle = lipgloss.NewStyle().Foreground(muted)
	cardValueStyle = lipgloss.NewStyle().Foreground(boardLight).Bold(true)
)

var cardStyle = lipgloss.NewStyle().
	Width(cardWidth).
	Padding(0, 1).
	Border(lipgloss.NormalBorder()).
	BorderForeground(boardDark)

func overviewPane(p *profile.Profile, r stats.Report, width int) string {
	if p == nil || len(p.GameHistory) == 0 {
		return mutedStyle.Render("No games recorded.")
	}
	s := p.Stats
	cards := []string{
		card("Rating", fmt.Sprintf("%.0f%s", p.Rating, ratingDelta(p.RatingHistory))),
		card("Games", fmt.Sprintf("%d", s.GamesPlayed)),
		card("W / L / D", fmt.Sprintf("%d / %d / %d", s.Wins, s.Losses, s.Draws)),
		card("Win rate", fmt.Sprintf("%.1f%%", s.WinRate())),
		card("Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy())),
		card("Avg loss", fmt.Sprintf("%.1f cp", s.AverageLoss())),
		card("Form", recentForm(p.GameHistory)),
	}
	var plot bytes.Buffer
	if err := stats.RenderCurves(&plot, r, width, plotHeight, true); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render curves: %v", err))
	}
	return cardGrid(cards, width) + "\n\n" + strings.TrimRight(plot.String(), "\n")
}

func card(label, value string) string {
	return cardStyle.Render(cardLabelStyle.Render(label) + "\n" + cardValueStyle.Render(value))
}

// cardGrid lays cards out left to right, wrapping when the row is full.
func cardGrid(cards []string, width int) string {
	if len(cards) == 0 {
		return ""
	}
	perRow := max(1, width/lipgloss.Width(cards[0]))
	rows := make([]string, 0, len(cards)/perRow+1)
	for start := 0; start < len(cards); start += perRow {
		end := min(start+perRow, len(cards))
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards[start:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func ratingDelta(history []float64) string {
	if len(history) < 2 {
		return ""
	}
	return fmt.Sprintf(" (%+.0f)", history[len(history)-1]-history[len(history)-2])
}

// recentForm is a sparkline of accuracy over the last few games.
func recentForm(games []model.GameRecord) string {
	games = games[max(0, len(games)-formGames):]
	values := make([]float64, len(games))
	for i, g := range games {
		values[i] = g.Accuracy
	}
	return stats.Sparkline(values)
}

func phasesPane(p *profile.Profile, width int) string {
	if p == nil || p.Stats.Quality.Total == 0 {
		return mutedStyle.Render("No moves recorded.")
	}
	s := p.Stats
	var buf bytes.Buffer
	if err := stats.RenderPhaseTable(&buf, s); err != nil {
		return errorStyle.Render(fmt.Sprintf("Failed to render phases: %v", err))
	}
	lines := []string{strings.TrimRight(buf.String(), "\n"), "", titleStyle.Render("Accuracy by phase")}
	lines = append(lines, phaseBars(s, width)...)
	lines = append(lines, "",
		tagLine("Strengths", p.Strengths, strengthStyle),
		tagLine("Weaknesses", p.Weaknesses, weaknessStyle),
		tagLine("Style", p.StyleTags, cardValueStyle),
		"",
		mutedStyle.Render(fmt.Sprintf("aggression %.2f · risk %.2f · activity %.2f",
			s.Style.Aggression(), s.Style.RiskTolerance(), s.Style.PieceActivity())),
	)
	return strings.Join(lines, "\n")
}

// phaseBars draws one accuracy bar per played phase, marking the strongest
// and weakest.
func phaseBars(s stats.Stats, width int) []string {
	barWidth := min(maxBarWidth, max(width-phaseLabelsW-10, 5))
	strongest, weakest := stats.StrongestPhase(s), stats.WeakestPhase(s)
	var lines []string
	for _, phase := range model.Phases {
		if s.Phase(phase).Moves() == 0 {
			continue
		}
		acc := s.PhaseAccuracy(phase)
		filled := int(acc / 100 * float64(barWidth))
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		style := mutedStyle
		switch phase {
		case strongest:
			style = strengthStyle
		case weakest:
			style = weaknessStyle
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %5.1f%%", phaseLabelsW, phase.Title(), style.Render(bar), acc))
	}
	return lines
}

func tagLine(label string, tags []string, style lipgloss.Style) string {
	value := mutedStyle.Render("none yet")
	if len(tags) > 0 {
		value = style.Render(strings.Join(tags, ", "))
	}
	return cardLabelStyle.Render(label+": ") + value
}

func newGamesTable() table.Model {
	columns := make([]table.Column, len(stats.GameHeaders))
	for i, title := range stats.GameHeaders {
		columns[i] = table.Column{Title: title, Width: max(ansi.StringWidth(title), 8)}
	}
	columns[0].Width = 16
	t := table.New(table.WithColumns(columns), table.WithFocused(true))
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(accent).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(boardDark).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(boardLight).
		Background(boardDark).
		Bold(false)
	t.SetStyles(styles)
	return t
}

func gameRows(games []model.GameRecord) []table.Row {
	rows := make([]table.Row, 0, len(games))
	for _, r := range stats.GameRows(games) {
		rows = append(rows, table.Row(r))
	}
	return rows
}
