// Package tui provides the Bubble Tea replay viewer.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/replay"
	"github.com/verte-zerg/chesscoach/internal/session"
)

const (
	idleCheckInterval = 5 * time.Second
	autoStepInterval  = 800 * time.Millisecond
)

type entry struct {
	label string
	text  string
	style lipgloss.Style
}

// Model implements the Bubble Tea replay UI.
type Model struct {
	ctx    context.Context
	runner *replay.Runner
	orch   *session.Orchestrator

	width  int
	height int

	entries []entry
	status  session.Status
	game    int
	games   int
	ply     int
	plies   int

	busy   bool
	auto   bool
	done   bool
	errMsg string
}

type stepMsg struct {
	ev    replay.Event
	err   error
	game  int
	ply   int
	plies int
}

type tickMsg time.Time

type autoStepMsg struct{}

var (
	labelStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	engineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	coachStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	illegalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#D9D9D9"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	qualityStyles = map[model.MoveQuality]lipgloss.Style{
		model.QualityBlunder:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
		model.QualityMistake:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FA8C16")),
		model.QualityInaccuracy: lipgloss.NewStyle().Foreground(lipgloss.Color("#FADB14")),
		model.QualityGood:       lipgloss.NewStyle().Foreground(lipgloss.Color("#95DE64")),
		model.QualityExcellent:  lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A")).Bold(true),
		model.QualityBook:       lipgloss.NewStyle().Foreground(lipgloss.Color("#69C0FF")),
	}
)

// NewModel constructs a replay viewer over runner.
func NewModel(ctx context.Context, runner *replay.Runner, orch *session.Orchestrator) *Model {
	m := &Model{
		ctx:    ctx,
		runner: runner,
		orch:   orch,
		game:   1,
		games:  runner.Board().Games(),
	}
	m.ply, m.plies = runner.Board().Position()
	m.status = orch.GetStatus()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return idleTick()
}

func idleTick() tea.Cmd {
	return tea.Tick(idleCheckInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ", "enter", "n":
			return m, m.step()
		case "a":
			m.auto = !m.auto
			if m.auto {
				return m, m.step()
			}
			return m, nil
		case "t":
			if tip := m.orch.GetCoachTip(); tip != "" {
				m.entries = append(m.entries, entry{label: "coach", text: tip, style: coachStyle})
			}
			m.status = m.orch.GetStatus()
			return m, nil
		}
		return m, nil
	case stepMsg:
		m.busy = false
		m.game, m.ply, m.plies = msg.game, msg.ply, msg.plies
		switch {
		case errors.Is(msg.err, io.EOF):
			m.done = true
			m.auto = false
			m.entries = append(m.entries, entry{text: "Replay finished. Press q to quit.", style: footerStyle})
		case msg.err != nil:
			m.auto = false
			m.errMsg = msg.err.Error()
		default:
			m.record(msg.ev)
		}
		m.status = m.orch.GetStatus()
		if m.auto && !m.done {
			return m, tea.Tick(autoStepInterval, func(time.Time) tea.Msg { return autoStepMsg{} })
		}
		return m, nil
	case autoStepMsg:
		if m.auto {
			return m, m.step()
		}
		return m, nil
	case tickMsg:
		if m.orch.CheckEngagement() {
			m.entries = append(m.entries, entry{label: "coach", text: "Still there? Press t for a tip or space to continue.", style: coachStyle})
		}
		m.status = m.orch.GetStatus()
		return m, idleTick()
	}
	return m, nil
}

func (m *Model) step() tea.Cmd {
	if m.busy || m.done {
		return nil
	}
	m.busy = true
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		ev, err := runner.Step(ctx)
		board := runner.Board()
		ply, plies := board.Position()
		return stepMsg{ev: ev, err: err, game: board.GameIndex() + 1, ply: ply, plies: plies}
	}
}

func (m *Model) record(ev replay.Event) {
	switch {
	case ev.Move != nil:
		label := fmt.Sprintf("you %s", ev.Ply.Move)
		switch {
		case !ev.Move.Legal && ev.Err == nil:
			m.entries = append(m.entries, entry{label: label, text: "Illegal move, try again.", style: illegalStyle})
		case ev.Err != nil && !ev.Move.Legal:
			m.entries = append(m.entries, entry{label: label, text: ev.Err.Error(), style: illegalStyle})
		default:
			style, ok := qualityStyles[ev.Move.Quality]
			if !ok {
				style = coachStyle
			}
			feedback, summary, _ := strings.Cut(ev.Move.Feedback, "\n\n")
			m.entries = append(m.entries, entry{label: fmt.Sprintf("%s (%s)", label, ev.Move.Quality), text: feedback, style: style})
			if summary != "" {
				m.entries = append(m.entries, entry{text: summary, style: summaryStyle})
			}
			if ev.Err != nil {
				m.entries = append(m.entries, entry{label: "warning", text: ev.Err.Error(), style: illegalStyle})
			}
		}
	case ev.AI != nil:
		if ev.Err != nil {
			m.entries = append(m.entries, entry{label: "engine", text: ev.Err.Error(), style: illegalStyle})
			return
		}
		text := fmt.Sprintf("plays %s (depth %d, skill %d, randomness %.2f)",
			ev.AI.Move, ev.Params.Depth, ev.Params.SkillLevel, ev.Params.MoveRandomness)
		m.entries = append(m.entries, entry{label: "engine", text: text, style: engineStyle})
		if ev.AI.Summary != "" {
			m.entries = append(m.entries, entry{text: ev.AI.Summary, style: summaryStyle})
		}
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	title := titleStyle.Render(fmt.Sprintf("chesscoach replay  game %d/%d  ply %d/%d", m.game, m.games, m.ply, m.plies))
	lines := m.transcript(width)
	if m.height > 3 {
		bodyHeight := m.height - 3
		if len(lines) > bodyHeight {
			lines = lines[len(lines)-bodyHeight:]
		}
		for len(lines) < bodyHeight {
			lines = append(lines, "")
		}
	}
	return strings.Join(append(append([]string{title}, lines...), "", m.renderFooter()), "\n")
}

func (m *Model) transcript(width int) []string {
	var lines []string
	for _, e := range m.entries {
		if e.label == "" {
			lines = append(lines, wrapText(e.text, e.style, width)...)
			continue
		}
		prefix := e.label + ": "
		lines = append(lines, wrapPrefixed(labelStyle.Render(prefix), lipgloss.Width(prefix), e.text, e.style, width)...)
	}
	if m.errMsg != "" {
		lines = append(lines, wrapText("error: "+m.errMsg, illegalStyle, width)...)
	}
	return lines
}

func wrapPrefixed(prefix string, prefixWidth int, text string, style lipgloss.Style, width int) []string {
	body := wrapText(text, style, max(width-prefixWidth, 10))
	pad := strings.Repeat(" ", prefixWidth)
	for i := range body {
		if i == 0 {
			body[i] = prefix + body[i]
		} else {
			body[i] = pad + body[i]
		}
	}
	return body
}

func (m *Model) renderFooter() string {
	s := m.status
	segments := []string{
		fmt.Sprintf("Level %d (%s)", s.Level, s.Trend),
		fmt.Sprintf("Mood %s · %s", s.Emotion, s.Personality),
		fmt.Sprintf("Rating %.0f", s.Rating),
	}
	if m.auto {
		segments = append(segments, "auto")
	}
	segments = append(segments, "space: next  a: auto  t: tip  q: quit")
	return footerStyle.Render(strings.Join(segments, "  "))
}
