package profiling

import (
	"fmt"

	"haloscope/domain/halo"
)

// TableProfiler summarizes every column of a catalog table
type TableProfiler struct {
	// Columns left out of the summary, e.g. identifiers
	Skip map[string]bool
}

// NewTableProfiler creates a profiler that skips the identifier columns
func NewTableProfiler() *TableProfiler {
	return &TableProfiler{Skip: map[string]bool{
		halo.ColumnIndex:  true,
		halo.ColumnHostID: true,
		halo.ColumnID:     true,
	}}
}

// ProfileTable returns one summary per column in schema order
func (p *TableProfiler) ProfileTable(t *halo.Table) ([]ColumnSummary, error) {
	var out []ColumnSummary
	for _, column := range t.Columns() {
		if p.Skip[column] {
			continue
		}
		values, err := t.Column(column)
		if err != nil {
			return nil, err
		}
		summary, err := Summarize(column, values)
		if err != nil {
			return nil, fmt.Errorf("summarize %s.%s: %w", t.Catalog, column, err)
		}
		out = append(out, summary)
	}
	return out, nil
}
