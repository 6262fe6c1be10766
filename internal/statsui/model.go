// Package statsui provides the Bubble Tea profile dashboard.
package statsui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/verte-zerg/chesscoach/internal/model"
	"github.com/verte-zerg/chesscoach/internal/profile"
	"github.com/verte-zerg/chesscoach/internal/stats"
)

type tab int

const (
	tabOverview tab = iota
	tabPhases
	tabGames
	tabCount
)

var tabTitles = [tabCount]string{"Overview", "Phases", "Games"}

// headerLines is the tab bar plus the filter summary.
const headerLines = 2

// Source loads a player's profile.
type Source interface {
	Load(ctx context.Context, playerID string) (*profile.Profile, error)
}

type loadedMsg struct {
	profile *profile.Profile
	err     error
}

// Model is the dashboard. The profile is loaded once per reload; filters
// only re-derive the report from it.
type Model struct {
	src  Source
	cfg  model.StatsConfig
	keys keyMap
	help help.Model

	profile *profile.Profile
	report  stats.Report
	errMsg  string
	loading bool

	active tab
	panes  [tabGames]viewport.Model
	games  table.Model

	filter    filterForm
	filtering bool

	width  int
	height int
}

// NewModel returns a dashboard for cfg.PlayerID. Loading starts in Init.
func NewModel(src Source, cfg model.StatsConfig) *Model {
	cfg.CurveWindow = max(cfg.CurveWindow, 1)
	return &Model{
		src:     src,
		cfg:     cfg,
		keys:    newKeyMap(),
		help:    help.New(),
		loading: true,
		panes:   [tabGames]viewport.Model{viewport.New(0, 0), viewport.New(0, 0)},
		games:   newGamesTable(),
		filter:  newFilterForm(),
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.loadCmd()
}

func (m *Model) loadCmd() tea.Cmd {
	src, id := m.src, m.cfg.PlayerID
	return func() tea.Msg {
		p, err := src.Load(context.Background(), id)
		return loadedMsg{profile: p, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resize()
		m.render()
		return m, nil
	case loadedMsg:
		m.applyLoaded(msg)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.filtering {
			return m, m.updateFilter(msg)
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.PrevTab):
		m.switchTab(-1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.NextTab):
		m.switchTab(1)
		return tea.ClearScreen
	case key.Matches(msg, m.keys.Wider):
		m.cfg.CurveWindow = nextCurveWindow(m.cfg.CurveWindow)
		m.rebuild()
	case key.Matches(msg, m.keys.Narrower):
		m.cfg.CurveWindow = prevCurveWindow(m.cfg.CurveWindow)
		m.rebuild()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m.loadCmd()
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		return m.filter.open(m.cfg)
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.resize()
	case key.Matches(msg, m.keys.Top):
		m.scroll(true)
	case key.Matches(msg, m.keys.Bottom):
		m.scroll(false)
	default:
		var cmd tea.Cmd
		if m.active == tabGames {
			m.games, cmd = m.games.Update(msg)
		} else {
			m.panes[m.active], cmd = m.panes[m.active].Update(msg)
		}
		return cmd
	}
	return nil
}

func (m *Model) updateFilter(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.filtering = false
		return nil
	case key.Matches(msg, m.keys.Apply):
		cfg, err := m.filter.parse(m.cfg)
		if err != nil {
			m.filter.err = err.Error()
			return nil
		}
		m.cfg = cfg
		m.filtering = false
		m.rebuild()
		return nil
	case key.Matches(msg, m.keys.NextField):
		return m.filter.focusOn(m.filter.focus + 1)
	case key.Matches(msg, m.keys.PrevField):
		return m.filter.focusOn(m.filter.focus - 1)
	}
	return m.filter.update(msg)
}

func (m *Model) switchTab(delta int) {
	m.active = tab((int(m.active) + delta + int(tabCount)) % int(tabCount))
}

func (m *Model) scroll(top bool) {
	switch {
	case m.active == tabGames && top:
		m.games.GotoTop()
	case m.active == tabGames:
		m.games.GotoBottom()
	case top:
		m.panes[m.active].GotoTop()
	default:
		m.panes[m.active].GotoBottom()
	}
}

func (m *Model) applyLoaded(msg loadedMsg) {
	m.loading = false
	m.profile, m.errMsg = nil, ""
	switch {
	case errors.Is(msg.err, profile.ErrNotFound):
	case msg.err != nil:
		m.errMsg = msg.err.Error()
	default:
		m.profile = msg.profile
	}
	m.rebuild()
}

// rebuild derives the report from the loaded profile and refreshes panes.
func (m *Model) rebuild() {
	m.report = stats.Report{}
	if m.profile != nil {
		m.report = stats.BuildReport(m.profile.GameHistory, m.profile.RatingHistory, m.cfg)
	}
	m.games.SetRows(gameRows(m.report.Games))
	m.games.GotoTop()
	m.render()
}

func (m *Model) render() {
	if m.errMsg != "" {
		for i := range m.panes {
			m.panes[i].SetContent(errorStyle.Render("Failed to load profile."))
		}
		return
	}
	width := m.contentWidth()
	m.panes[tabOverview].SetContent(overviewPane(m.profile, m.report, width))
	m.panes[tabPhases].SetContent(phasesPane(m.profile, width))
}

func (m *Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func (m *Model) resize() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	m.help.Width = m.width
	body := m.bodyHeight()
	for i := range m.panes {
		m.panes[i].Width = m.width
		m.panes[i].Height = body
	}
	m.games.SetWidth(m.width)
	m.games.SetHeight(max(body, 2))
	m.filter.setWidth(m.width)
}

func (m *Model) bodyHeight() int {
	return max(m.height-headerLines-lipgloss.Height(m.footer()), 1)
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	return strings.Join([]string{
		fitBlock(m.tabBar()+"\n"+m.filterSummary(), m.width, headerLines),
		fitBlock(m.body(), m.width, m.bodyHeight()),
		m.footer(),
	}, "\n")
}

func (m *Model) tabBar() string {
	parts := make([]string, 0, len(tabTitles))
	for i, title := range tabTitles {
		if tab(i) == m.active {
			parts = append(parts, activeTabStyle.Render(title))
		} else {
			parts = append(parts, tabStyle.Render(title))
		}
	}
	return strings.Join(parts, mutedStyle.Render("│"))
}

func (m *Model) filterSummary() string {
	since, last := "any", "all"
	if m.cfg.Since != nil {
		since = m.cfg.Since.Format(dateLayout)
	}
	if m.cfg.Last > 0 {
		last = strconv.Itoa(m.cfg.Last)
	}
	return mutedStyle.Render(fmt.Sprintf("Player: %s · since %s · last %s · window %d",
		m.cfg.PlayerID, since, last, m.cfg.CurveWindow))
}

func (m *Model) body() string {
	switch {
	case m.filtering:
		return m.filter.view()
	case m.loading:
		return mutedStyle.Render("Loading profile...")
	case m.active != tabGames:
		return m.panes[m.active].View()
	case m.errMsg != "":
		return errorStyle.Render("Failed to load profile.")
	case len(m.report.Games) == 0:
		return mutedStyle.Render("No games found.")
	}
	return m.games.View()
}

func (m *Model) footer() string {
	if m.filtering {
		return m.help.ShortHelpView(m.keys.filterHelp())
	}
	out := m.help.View(m.keys)
	if m.errMsg != "" {
		out += "\n" + errorStyle.Render(ansi.Truncate(m.errMsg, m.contentWidth(), "…"))
	}
	return out
}

// fitBlock clips or pads s to exactly height lines of width cells.
func fitBlock(s string, width, height int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		line = ansi.Truncate(line, width, "…")
		if gap := width - ansi.StringWidth(line); gap > 0 {
			line += strings.Repeat(" ", gap)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}
