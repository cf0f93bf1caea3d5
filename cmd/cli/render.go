package main

import (
	"fmt"
	"math"
	"strings"

	"haloscope/domain/halo"
	"haloscope/internal/explore"

	styles "github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"
)

var (
	borderColor = styles.AdaptiveColor{Light: "#555", Dark: "#555"}
	titleStyle  = styles.NewStyle().Bold(true)
	dimStyle    = styles.NewStyle().Foreground(borderColor)
	plotStyle   = styles.NewStyle().
			BorderStyle(styles.NormalBorder()).
			BorderForeground(borderColor)
)

// seriesColors picks terminal colors for the dmo and disk curves
func seriesColors() (dmo, disk plot.Color) {
	if styles.DefaultRenderer().HasDarkBackground() {
		return plot.LightGray, plot.Red
	}
	return plot.Black, plot.Red
}

// renderLinePlot draws both catalog curves on one braille canvas. The
// curves are resampled onto a shared x grid so their points line up.
func renderLinePlot(lp *explore.LinePlot, width, height int) string {
	lo, hi, ok := xRange(lp.Series)
	if !ok {
		return titleStyle.Render(lp.Name) + "\n" + dimStyle.Render("no rows to plot")
	}

	points := 2 * width
	data := make([][]float64, len(lp.Series))
	colors := make([]plot.Color, len(lp.Series))
	dmoColor, diskColor := seriesColors()
	for i, s := range lp.Series {
		data[i] = resample(s.X, s.Y, lo, hi, points)
		colors[i] = dmoColor
		if s.Catalog == string(halo.CatalogDisk) {
			colors[i] = diskColor
		}
	}

	canvas := plot.NewCanvas(width, height)
	canvas.NumDataPoints = points
	canvas.ShowAxis = true
	canvas.LineColors = colors
	canvas.Fill(data)

	var legend []string
	for i, s := range lp.Series {
		swatch := styles.NewStyle().Foreground(terminalColor(colors[i])).Render("━━")
		legend = append(legend, fmt.Sprintf("%s %s", swatch, s.Legend))
	}
	axis := dimStyle.Render(fmt.Sprintf("%s: %.3g … %.3g", lp.XLabel, lo, hi))

	body := styles.JoinVertical(styles.Left, canvas.String(), axis, strings.Join(legend, "   "))
	return styles.JoinVertical(styles.Left, titleStyle.Render(lp.Name), plotStyle.Render(body))
}

func terminalColor(c plot.Color) styles.Color {
	if c == plot.Red {
		return styles.Color("9")
	}
	if c == plot.Black {
		return styles.Color("0")
	}
	return styles.Color("7")
}

// xRange spans the finite x values of every series
func xRange(series []explore.LineSeries) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, x := range s.X {
			if !x.Valid() {
				continue
			}
			lo = math.Min(lo, float64(x))
			hi = math.Max(hi, float64(x))
		}
	}
	return lo, hi, lo <= hi
}

// resample evaluates a step curve at n evenly spaced points in [lo, hi].
// Points left of the curve take its first value, right of it its last.
// Non-finite y values take the curve's finite minimum.
func resample(xs, ys []explore.Number, lo, hi float64, n int) []float64 {
	out := make([]float64, n)
	if len(xs) == 0 {
		return out
	}

	floor := math.Inf(1)
	for _, y := range ys {
		if y.Valid() {
			floor = math.Min(floor, float64(y))
		}
	}
	if math.IsInf(floor, 1) {
		floor = 0
	}
	value := func(i int) float64 {
		if ys[i].Valid() {
			return float64(ys[i])
		}
		return floor
	}

	step := 0.0
	if n > 1 {
		step = (hi - lo) / float64(n-1)
	}
	j := 0
	for i := range out {
		x := lo + float64(i)*step
		for j+1 < len(xs) && float64(xs[j+1]) <= x {
			j++
		}
		out[i] = value(j)
	}
	return out
}

// renderSummary renders one table of column statistics per catalog
func renderSummary(summaries []explore.CatalogSummary) string {
	header := fmt.Sprintf("%-12s %8s %8s %12s %12s %12s %12s %12s %9s",
		"column", "count", "missing", "mean", "std", "min", "median", "max", "outliers")

	var blocks []string
	for _, cs := range summaries {
		catalog, _ := halo.ParseCatalog(cs.Catalog)
		lines := []string{dimStyle.Render(header)}
		for _, c := range cs.Columns {
			lines = append(lines, fmt.Sprintf("%-12s %8d %8d %12.4g %12.4g %12.4g %12.4g %12.4g %9d",
				c.Column, c.Count, c.Missing, c.Mean, c.StdDev, c.Min, c.Median, c.Max, c.Outliers))
		}
		title := titleStyle.Render(fmt.Sprintf("%s · %d rows", catalog.DisplayName(), cs.Rows))
		blocks = append(blocks, styles.JoinVertical(styles.Left, title, plotStyle.Render(strings.Join(lines, "\n"))))
	}
	return strings.Join(blocks, "\n\n")
}
