package statsui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/chesscoach/internal/model"
)

const dateLayout = "2006-01-02"

const (
	fieldSince = iota
	fieldLast
	fieldWindow
	fieldCount
)

// filterForm edits the report filters. Values are only applied by parse.
type filterForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
	err    string
}

func newFilterForm() filterForm {
	labels := [fieldCount]string{"Since", "Last", "Window"}
	hints := [fieldCount]string{dateLayout, "all games", "games averaged"}
	var f filterForm
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = fmt.Sprintf("%-8s", labels[i])
		in.PromptStyle = formLabelStyle
		in.Placeholder = hints[i]
		in.Cursor.SetMode(cursor.CursorStatic)
		f.inputs[i] = in
	}
	return f
}

// open fills the fields from cfg and focuses the first one.
func (f *filterForm) open(cfg model.StatsConfig) tea.Cmd {
	f.err = ""
	since, last := "", ""
	if cfg.Since != nil {
		since = cfg.Since.Format(dateLayout)
	}
	if cfg.Last > 0 {
		last = strconv.Itoa(cfg.Last)
	}
	f.inputs[fieldSince].SetValue(since)
	f.inputs[fieldLast].SetValue(last)
	f.inputs[fieldWindow].SetValue(strconv.Itoa(cfg.CurveWindow))
	return f.focusOn(fieldSince)
}

func (f *filterForm) focusOn(i int) tea.Cmd {
	f.focus = (i + fieldCount) % fieldCount
	for j := range f.inputs {
		f.inputs[j].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *filterForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *filterForm) setWidth(width int) {
	for i := range f.inputs {
		f.inputs[i].Width = max(10, width-lipgloss.Width(f.inputs[i].Prompt)-2)
	}
}

func (f filterForm) view() string {
	lines := []string{titleStyle.Render("Filters"), ""}
	for _, in := range f.inputs {
		lines = append(lines, in.View())
	}
	if f.err != "" {
		lines = append(lines, "", errorStyle.Render(f.err))
	}
	return strings.Join(lines, "\n")
}

// parse returns base with the form values applied. Empty since and last
// clear those filters; an empty window keeps the current one.
func (f filterForm) parse(base model.StatsConfig) (model.StatsConfig, error) {
	cfg := base
	cfg.Since, cfg.Last = nil, 0

	if v := strings.TrimSpace(f.inputs[fieldSince].Value()); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, time.Local)
		if err != nil {
			return base, fmt.Errorf("since: want a date like %s", dateLayout)
		}
		cfg.Since = &t
	}
	if v := strings.TrimSpace(f.inputs[fieldLast].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return base, errors.New("last: want a game count >= 0")
		}
		cfg.Last = n
	}
	if v := strings.TrimSpace(f.inputs[fieldWindow].Value()); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return base, errors.New("window: want a size >= 1")
		}
		cfg.CurveWindow = n
	}
	return cfg, nil
}

const windowStep = 5

func nextCurveWindow(n int) int {
	return (n/windowStep + 1) * windowStep
}

func prevCurveWindow(n int) int {
	return max((n-1)/windowStep*windowStep, 1)
}
