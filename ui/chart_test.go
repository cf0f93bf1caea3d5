package ui

import (
	"math"
	"strings"
	"testing"

	"haloscope/internal/explore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

func nums(values ...float64) []explore.Number {
	out := make([]explore.Number, len(values))
	for i, v := range values {
		out[i] = explore.Number(v)
	}
	return out
}

func TestRenderScatter_DropsNonFinitePoints(t *testing.T) {
	plot := &explore.ScatterPlot{
		XLabel: "Log10  Vmax (km/s)",
		YLabel: "Mvir (M_sun)",
		Series: []explore.ScatterSeries{
			{Legend: "DMO", Color: "black", X: nums(1, 2, math.Inf(-1)), Y: nums(10, 20, 30)},
			{Legend: "Disk", Color: "magenta", X: nums(1.5), Y: nums(math.NaN())},
			{Legend: "Disk", Color: "magenta", X: nums(3), Y: nums(5)},
		},
	}

	svg, err := renderScatter(plot)
	require.NoError(t, err)
	body := string(svg)
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Equal(t, 3, strings.Count(body, "<circle"))
	assert.Contains(t, body, "Log10  Vmax (km/s)")
	assert.Contains(t, body, "Mvir (M_sun)")
	assert.Contains(t, body, ">DMO<")
	assert.Contains(t, body, ">Disk<")
}

func TestRenderScatter_EscapesLabels(t *testing.T) {
	plot := &explore.ScatterPlot{
		XLabel: "a<b",
		YLabel: "c&d",
		Series: []explore.ScatterSeries{{Legend: "DMO", Color: "black", X: nums(1, 2), Y: nums(1, 2)}},
	}
	svg, err := renderScatter(plot)
	require.NoError(t, err)
	assert.Contains(t, string(svg), "a&lt;b")
	assert.Contains(t, string(svg), "c&amp;d")
	assert.NotContains(t, string(svg), "a<b")
}

func TestRenderScatter_EmptyAndDegenerate(t *testing.T) {
	svg, err := renderScatter(&explore.ScatterPlot{XLabel: "x", YLabel: "y"})
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
	assert.Zero(t, strings.Count(string(svg), "<circle"))

	single := &explore.ScatterPlot{
		XLabel: "x",
		YLabel: "y",
		Series: []explore.ScatterSeries{{Legend: "DMO", Color: "black", X: nums(4), Y: nums(4)}},
	}
	svg, err = renderScatter(single)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(svg), "<circle"))
}

func TestRenderLines(t *testing.T) {
	plot := &explore.LinePlot{
		Name:   "Infall",
		XLabel: "Infall Time (Gyrs)",
		YLabel: "N(<t)",
		Series: []explore.LineSeries{
			{Legend: "DMO", Color: "black", X: nums(1, 2, 3), Y: nums(1, 2, 3)},
			{Legend: "Disk", Color: "magenta", X: nums(1, 2, 3), Y: nums(0, math.Inf(-1), 1)},
		},
	}

	svg, err := renderLines(plot)
	require.NoError(t, err)
	body := string(svg)
	assert.Contains(t, body, "<svg")
	assert.Contains(t, body, "<path")
	assert.Zero(t, strings.Count(body, "<circle"))
	assert.Contains(t, body, "Infall Time (Gyrs)")
	assert.Contains(t, body, "N(&lt;t)")
	assert.Contains(t, body, ">Disk<")
}

func TestSeriesColor(t *testing.T) {
	assert.Equal(t, drawing.ColorBlack, seriesColor("black"))
	assert.Equal(t, drawing.ColorFuchsia, seriesColor("magenta"))
	assert.Equal(t, drawing.ColorRed, seriesColor("red"))
}

func TestExtent_Ranges(t *testing.T) {
	e := newExtent()
	x, y := e.ranges()
	assert.Equal(t, 0.0, x.Min)
	assert.Equal(t, 1.0, y.Max)

	e.add(2, 3)
	x, y = e.ranges()
	assert.Equal(t, 1.5, x.Min)
	assert.Equal(t, 2.5, x.Max)
	assert.Equal(t, 3.5, y.Max)
}
