package histogram

import (
	"fmt"
	"math"
	"strings"

	"haloscope/domain/halo"
)

// CurveKind selects how bin counts become a plotted curve
type CurveKind int

const (
	ComplementaryFraction CurveKind = iota
	LogComplementaryCount
	CumulativeFraction
)

// Condition restricts which rows contribute samples
type Condition struct {
	Column string
	Above  bool // keep rows where Column > Value, otherwise Column < Value
	Value  float64
}

func (c Condition) keep(v float64) bool {
	if c.Above {
		return v > c.Value
	}
	return v < c.Value
}

// StandardPlot is one of the canned distribution plots
type StandardPlot struct {
	Name   string
	Column string
	Where  Condition
	Log    bool
	Range  *Range
	Curve  CurveKind
}

// XLabel is the axis label of the plotted quantity
func (p StandardPlot) XLabel() string {
	return halo.AxisLabel(p.Column, p.Log)
}

var nearby = Condition{Column: "dist", Above: true, Value: 0}

// standardPlots in menu order
var standardPlots = []StandardPlot{
	{
		Name:   "Infall",
		Column: "infall",
		Where:  Condition{Column: "infall", Above: false, Value: 13.8},
		Range:  &Range{Lo: 0, Hi: 13},
		Curve:  ComplementaryFraction,
	},
	{Name: "Mvir", Column: "mvir", Where: nearby, Log: true, Curve: LogComplementaryCount},
	{Name: "Vmax", Column: "vmax", Where: nearby, Log: true, Curve: LogComplementaryCount},
	{Name: "Vpeak", Column: "vpeak", Where: nearby, Log: true, Curve: LogComplementaryCount},
	{Name: "Pericenter", Column: "peri", Where: nearby, Curve: CumulativeFraction},
}

// StandardPlots returns the canned plots in menu order
func StandardPlots() []StandardPlot {
	return append([]StandardPlot(nil), standardPlots...)
}

// StandardPlotNames returns the menu labels
func StandardPlotNames() []string {
	names := make([]string, len(standardPlots))
	for i, p := range standardPlots {
		names[i] = p.Name
	}
	return names
}

// LookupStandardPlot finds a plot by name, case-insensitively
func LookupStandardPlot(name string) (StandardPlot, bool) {
	for _, p := range standardPlots {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return StandardPlot{}, false
}

// Curve is a line series; X holds left bin edges
type Curve struct {
	X []float64
	Y []float64
}

// Samples extracts the plotted quantity from a table
func (p StandardPlot) Samples(t *halo.Table) ([]float64, error) {
	values, err := t.Where(p.Column, p.Where.Column, p.Where.keep)
	if err != nil {
		return nil, fmt.Errorf("%s plot: %w", p.Name, err)
	}
	if p.Log {
		for i, v := range values {
			values[i] = math.Log10(v)
		}
	}
	return values, nil
}

// Build computes the plot's curve for a table. A table with no usable
// samples yields an empty curve.
func (p StandardPlot) Build(t *halo.Table, bins int) (Curve, error) {
	samples, err := p.Samples(t)
	if err != nil {
		return Curve{}, err
	}

	h, err := Compute(samples, bins, p.Range)
	if err != nil {
		return Curve{}, fmt.Errorf("%s plot: %w", p.Name, err)
	}
	if h.Total() == 0 {
		return Curve{X: []float64{}, Y: []float64{}}, nil
	}

	var y []float64
	switch p.Curve {
	case ComplementaryFraction:
		y = h.ComplementaryFraction()
	case LogComplementaryCount:
		y = h.LogComplementaryCount()
	case CumulativeFraction:
		y = h.CumulativeFraction()
	}
	return Curve{X: h.LeftEdges(), Y: y}, nil
}
