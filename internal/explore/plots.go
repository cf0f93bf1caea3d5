package explore

import (
	"math"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/histogram"
)

// seriesColors follows the legend of the dashboard: dmo in black, disk in magenta
var seriesColors = map[halo.Catalog]string{
	halo.CatalogDMO:  "black",
	halo.CatalogDisk: "magenta",
}

// Tooltip is one hover row: a label and the field it shows
type Tooltip struct {
	Label string `json:"label"`
	Field string `json:"field"`
}

// ScatterSeries is the scatter points of one catalog
type ScatterSeries struct {
	Catalog string   `json:"catalog"`
	Legend  string   `json:"legend"`
	Color   string   `json:"color"`
	X       []Number `json:"x"`
	Y       []Number `json:"y"`
	HostID  []string `json:"host_id"`
}

// ScatterPlot is the column-vs-column view
type ScatterPlot struct {
	XColumn  string          `json:"x_column"`
	YColumn  string          `json:"y_column"`
	XLabel   string          `json:"x_label"`
	YLabel   string          `json:"y_label"`
	Tooltips []Tooltip       `json:"tooltips"`
	HostIDs  []string        `json:"host_ids"`
	Series   []ScatterSeries `json:"series"`
}

// Scatter projects every snapshot table onto the view's axes. A catalog
// missing one of the columns contributes an empty series. log10 of a
// non-positive value is not finite and encodes as null.
func Scatter(snap *Snapshot, view View) (*ScatterPlot, error) {
	for _, c := range []string{view.X, view.Y} {
		if !halo.Plottable(c) || !anyHas(snap, c) {
			return nil, errors.UnknownColumn(c)
		}
	}

	plot := &ScatterPlot{
		XColumn: view.X,
		YColumn: view.Y,
		XLabel:  halo.AxisLabel(view.X, view.LogX),
		YLabel:  halo.AxisLabel(view.Y, view.LogY),
		Tooltips: []Tooltip{
			{Label: "Host", Field: "@host_id"},
			{Label: view.X, Field: "@x"},
			{Label: view.Y, Field: "@y"},
		},
	}

	hosts := map[string]bool{}
	for _, catalog := range halo.Catalogs() {
		series := ScatterSeries{
			Catalog: string(catalog),
			Legend:  catalog.DisplayName(),
			Color:   seriesColors[catalog],
			X:       []Number{},
			Y:       []Number{},
			HostID:  []string{},
		}
		t := snap.Table(catalog)
		if t != nil && t.HasColumn(view.X) && t.HasColumn(view.Y) {
			x, _ := t.Column(view.X)
			y, _ := t.Column(view.Y)
			series.X = numbers(scale(x, view.LogX))
			series.Y = numbers(scale(y, view.LogY))
			series.HostID = t.HostIDs()
			for _, h := range t.UniqueHostIDs() {
				if !hosts[h] {
					hosts[h] = true
					plot.HostIDs = append(plot.HostIDs, h)
				}
			}
		}
		plot.Series = append(plot.Series, series)
	}
	return plot, nil
}

func anyHas(snap *Snapshot, column string) bool {
	for _, t := range snap.Tables {
		if t.HasColumn(column) {
			return true
		}
	}
	return false
}

func scale(values []float64, log bool) []float64 {
	if !log {
		return values
	}
	for i, v := range values {
		if v > 0 {
			values[i] = math.Log10(v)
		} else {
			values[i] = math.NaN()
		}
	}
	return values
}

// LineSeries is the curve of one catalog
type LineSeries struct {
	Catalog string   `json:"catalog"`
	Legend  string   `json:"legend"`
	Color   string   `json:"color"`
	X       []Number `json:"x"`
	Y       []Number `json:"y"`
}

// LinePlot is a standard plot over both catalogs
type LinePlot struct {
	Name   string       `json:"name"`
	XLabel string       `json:"x_label"`
	YLabel string       `json:"y_label"`
	Series []LineSeries `json:"series"`
}

// StandardPlot recomputes a named standard plot for each snapshot table
func (s *Service) StandardPlot(snap *Snapshot, name string) (*LinePlot, error) {
	def, ok := histogram.LookupStandardPlot(name)
	if !ok {
		return nil, errors.NotFound("standard plot " + name)
	}

	plot := &LinePlot{Name: def.Name, XLabel: def.XLabel()}
	for _, catalog := range halo.Catalogs() {
		series := LineSeries{
			Catalog: string(catalog),
			Legend:  catalog.DisplayName(),
			Color:   seriesColors[catalog],
			X:       []Number{},
			Y:       []Number{},
		}
		if t := snap.Table(catalog); t != nil {
			curve, err := def.Build(t, s.bins)
			if err != nil {
				return nil, errors.WithCode(errors.CodeUnknownColumn, err)
			}
			series.X = numbers(curve.X)
			series.Y = numbers(curve.Y)
		}
		plot.Series = append(plot.Series, series)
	}
	return plot, nil
}
