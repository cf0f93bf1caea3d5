package ui

import (
	"bytes"
	"html/template"
	"math"

	"haloscope/internal/errors"
	"haloscope/internal/explore"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 640
	chartHeight = 420
)

// seriesColor maps an explore series colour name onto a drawing colour
func seriesColor(name string) drawing.Color {
	if name == "magenta" {
		return drawing.ColorFuchsia
	}
	return drawing.ParseColor(name)
}

// pointStyle renders points only, with no connecting line
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col.WithAlpha(160),
	}
}

func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
	}
}

// extent tracks the finite data bounds of a chart
type extent struct {
	xmin, xmax, ymin, ymax float64
}

func newExtent() extent {
	return extent{xmin: math.Inf(1), xmax: math.Inf(-1), ymin: math.Inf(1), ymax: math.Inf(-1)}
}

func (e *extent) add(x, y float64) {
	e.xmin, e.xmax = math.Min(e.xmin, x), math.Max(e.xmax, x)
	e.ymin, e.ymax = math.Min(e.ymin, y), math.Max(e.ymax, y)
}

// ranges returns axis ranges; empty or single-valued axes are widened so
// the chart always has a drawable extent
func (e extent) ranges() (x, y *chart.ContinuousRange) {
	widen := func(lo, hi float64) *chart.ContinuousRange {
		if lo > hi {
			lo, hi = 0, 1
		}
		if lo == hi {
			lo, hi = lo-0.5, hi+0.5
		}
		return &chart.ContinuousRange{Min: lo, Max: hi}
	}
	return widen(e.xmin, e.xmax), widen(e.ymin, e.ymax)
}

// finite keeps the points where both coordinates are finite
func finite(xs, ys []explore.Number, e *extent) (fx, fy []float64) {
	fx, fy = []float64{}, []float64{}
	for i := range xs {
		if !xs[i].Valid() || !ys[i].Valid() {
			continue
		}
		x, y := float64(xs[i]), float64(ys[i])
		fx, fy = append(fx, x), append(fy, y)
		e.add(x, y)
	}
	return fx, fy
}

func renderSVG(ch chart.Chart) (template.HTML, error) {
	ch.Width, ch.Height = chartWidth, chartHeight
	ch.Background = chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 12}}
	ch.Title = template.HTMLEscapeString(ch.Title)
	if len(ch.Series) == 0 {
		ch.Series = []chart.Series{chart.ContinuousSeries{}}
	} else {
		ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.SVG, &buf); err != nil {
		return "", errors.Wrapf(err, "failed to render chart %q", ch.Title)
	}
	return template.HTML(buf.String()), nil
}

// renderScatter draws both catalogs as points. Points with a non-finite
// coordinate (log10 of a non-positive value) are left out.
func renderScatter(plot *explore.ScatterPlot) (template.HTML, error) {
	e := newExtent()
	series := make([]chart.Series, 0, len(plot.Series))
	for _, s := range plot.Series {
		xs, ys := finite(s.X, s.Y, &e)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Legend,
			XValues: xs,
			YValues: ys,
			Style:   pointStyle(seriesColor(s.Color)),
		})
	}
	xr, yr := e.ranges()

	return renderSVG(chart.Chart{
		Title:  plot.XLabel + " vs " + plot.YLabel,
		XAxis:  chart.XAxis{Name: template.HTMLEscapeString(plot.XLabel), Range: xr},
		YAxis:  chart.YAxis{Name: template.HTMLEscapeString(plot.YLabel), Range: yr},
		Series: series,
	})
}

// renderLines draws each catalog's curve. Non-finite points (log10 of an
// exhausted tail) are dropped.
func renderLines(plot *explore.LinePlot) (template.HTML, error) {
	e := newExtent()
	series := make([]chart.Series, 0, len(plot.Series))
	for _, s := range plot.Series {
		xs, ys := finite(s.X, s.Y, &e)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Legend,
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(seriesColor(s.Color)),
		})
	}
	xr, yr := e.ranges()

	return renderSVG(chart.Chart{
		Title:  plot.Name,
		XAxis:  chart.XAxis{Name: template.HTMLEscapeString(plot.XLabel), Range: xr},
		YAxis:  chart.YAxis{Name: template.HTMLEscapeString(plot.YLabel), Range: yr},
		Series: series,
	})
}
