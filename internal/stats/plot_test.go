package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotCurveLabelsValueAxis(t *testing.T) {
	var buf bytes.Buffer
	err := PlotCurve(&buf, Curve{Title: "Rating", Values: []float64{1000, 1160, 1120, 1200}}, 12, 4, false)
	require.NoError(t, err)

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Rating\n"), "title first: %q", out)
	assert.Contains(t, out, "1200 ┤")
	assert.Contains(t, out, "1000 ┤")
	assert.Contains(t, out, "first=1000 last=1200 n=4")
	assert.Len(t, strings.Split(strings.TrimRight(out, "\n"), "\n"), 1+4+1)
}

func TestPlotCurveEmptyWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PlotCurve(&buf, Curve{Title: "x"}, 10, 4, false))
	assert.Zero(t, buf.Len())
}

func TestCurveWidthFor(t *testing.T) {
	assert.Equal(t, 80-4-3, CurveWidthFor(80, 4))
	assert.Equal(t, minCurveWidth, CurveWidthFor(5, 4))
}

func TestResample(t *testing.T) {
	assert.Equal(t, []float64{2, 6}, resample([]float64{1, 3, 5, 7}, 2), "bucket averages")
	assert.Equal(t, []float64{0, 5, 10}, resample([]float64{0, 10}, 3), "interpolation")
	assert.Equal(t, []float64{4, 4, 4}, resample([]float64{4}, 3), "flat line")
}

func TestCanvasBridgesColumns(t *testing.T) {
	cv := newCanvas(2, 1)
	cv.column(0, -1, 0)
	cv.column(1, 0, 3)
	// First cell: top-left dot. Second cell: left column filled, bottom-right dot.
	want := string([]rune{0x2801, 0x2800 + 0x01 + 0x02 + 0x04 + 0x40 + 0x80})
	assert.Equal(t, []string{want}, cv.rows())
}
