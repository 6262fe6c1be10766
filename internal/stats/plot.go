package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

const (
	defaultCurveHeight = 8
	minCurveWidth      = 10
	axisGap            = " ┤ "
	fallbackTermWidth  = 80
)

var curveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

// Curve is a titled series of values plotted over time.
type Curve struct {
	Title  string
	Values []float64
	// Format renders axis values, "%.0f" when empty.
	Format string
}

// PlotCurve renders a braille line chart with a labelled value axis.
// A width <= 0 fits the chart to the terminal.
func PlotCurve(w io.Writer, c Curve, width, height int, useColor bool) error {
	if len(c.Values) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultCurveHeight
	}
	format := c.Format
	if format == "" {
		format = "%.0f"
	}
	lo, hi := bounds(c.Values)
	if hi-lo < 1e-9 {
		lo, hi = lo-1, hi+1
	}
	labels, labelWidth := axisLabels(format, lo, hi, height)
	if width <= 0 {
		width = CurveWidthFor(terminalWidth(), labelWidth)
	}
	width = max(width, minCurveWidth)

	cv := newCanvas(width, height)
	prev := -1
	for x, v := range resample(c.Values, width) {
		y := scaleRow(v, lo, hi, cv.dotRows())
		cv.column(x, prev, y)
		prev = y
	}

	if c.Title != "" {
		if _, err := fmt.Fprintln(w, c.Title); err != nil {
			return err
		}
	}
	for y, row := range cv.rows() {
		if useColor {
			row = curveStyle.Render(row)
		}
		if _, err := fmt.Fprintln(w, runewidth.FillLeft(labels[y], labelWidth)+axisGap+row); err != nil {
			return err
		}
	}
	first, last := fmt.Sprintf(format, c.Values[0]), fmt.Sprintf(format, c.Values[len(c.Values)-1])
	_, err := fmt.Fprintf(w, "%*s  first=%s last=%s n=%d\n\n", labelWidth, "", first, last, len(c.Values))
	return err
}

// CurveWidthFor returns the plot width that fits a total width after the axis.
func CurveWidthFor(totalWidth, labelWidth int) int {
	return max(totalWidth-labelWidth-runewidth.StringWidth(axisGap), minCurveWidth)
}

// UseColor reports whether w is a color-capable terminal.
func UseColor(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return fallbackTermWidth
}

// axisLabels marks the top, middle and bottom rows; the rest stay blank.
func axisLabels(format string, lo, hi float64, height int) ([]string, int) {
	labels := make([]string, height)
	marks := map[int]float64{0: hi, height - 1: lo}
	if height > 2 {
		marks[height/2] = (lo + hi) / 2
	}
	width := 0
	for row, v := range marks {
		labels[row] = fmt.Sprintf(format, v)
		width = max(width, runewidth.StringWidth(labels[row]))
	}
	return labels, width
}

func bounds(values []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range values {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	return lo, hi
}

// scaleRow maps v onto dot rows counted from the top.
func scaleRow(v, lo, hi float64, rows int) int {
	if rows <= 1 {
		return 0
	}
	row := int(math.Round((hi - v) / (hi - lo) * float64(rows-1)))
	return min(max(row, 0), rows-1)
}

// resample fits values to exactly width points. Longer series are averaged
// per bucket and shorter ones linearly interpolated.
func resample(values []float64, width int) []float64 {
	n := len(values)
	out := make([]float64, width)
	for i := range out {
		if n > width {
			lo, hi := i*n/width, max((i+1)*n/width, i*n/width+1)
			out[i] = mean(values[lo:hi])
			continue
		}
		if n == 1 || width == 1 {
			out[i] = values[0]
			continue
		}
		pos := float64(i) * float64(n-1) / float64(width-1)
		j := min(int(pos), n-2)
		frac := pos - float64(j)
		out[i] = values[j] + (values[j+1]-values[j])*frac
	}
	return out
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// canvas is a grid of braille cells, each two dots wide and four tall.
type canvas struct {
	cells [][]uint8
}

// brailleBits indexes dot masks by [column][row] within a cell.
var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func newCanvas(width, height int) *canvas {
	cells := make([][]uint8, height)
	for i := range cells {
		cells[i] = make([]uint8, width)
	}
	return &canvas{cells: cells}
}

func (c *canvas) dotRows() int { return len(c.cells) * 4 }

func (c *canvas) set(x, y int) {
	if y < 0 || y >= c.dotRows() || x < 0 || x/2 >= len(c.cells[0]) {
		return
	}
	c.cells[y/4][x/2] |= brailleBits[x%2][y%4]
}

// column draws point y in chart column x. With a previous row, the left dot
// column bridges from there so the line stays connected.
func (c *canvas) column(x, prev, y int) {
	left := x * 2
	if prev < 0 {
		c.set(left, y)
		return
	}
	from, to := min(prev, y), max(prev, y)
	for dy := from; dy <= to; dy++ {
		c.set(left, dy)
	}
	c.set(left+1, y)
}

func (c *canvas) rows() []string {
	out := make([]string, len(c.cells))
	var b strings.Builder
	for i, row := range c.cells {
		b.Reset()
		for _, mask := range row {
			b.WriteRune(rune(0x2800 + int(mask)))
		}
		out[i] = b.String()
	}
	return out
}
