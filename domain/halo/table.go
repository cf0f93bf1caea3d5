package halo

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Table is a columnar, in-memory copy of (a subset of) one catalog.
// Missing values are stored as NaN.
type Table struct {
	Catalog Catalog

	columns []string
	kinds   []Kind
	index   map[string]int
	data    [][]float64
}

// NewTable creates an empty table with the given schema
func NewTable(catalog Catalog, columns []string, kinds []Kind) (*Table, error) {
	if kinds == nil {
		kinds = make([]Kind, len(columns))
		for i, c := range columns {
			kinds[i] = KindOf(c)
		}
	}
	if len(kinds) != len(columns) {
		return nil, fmt.Errorf("table %s: %d columns but %d kinds", catalog, len(columns), len(kinds))
	}

	t := &Table{
		Catalog: catalog,
		columns: append([]string(nil), columns...),
		kinds:   append([]Kind(nil), kinds...),
		index:   make(map[string]int, len(columns)),
		data:    make([][]float64, len(columns)),
	}
	for i, c := range columns {
		if _, dup := t.index[c]; dup {
			return nil, fmt.Errorf("table %s: duplicate column %q", catalog, c)
		}
		t.index[c] = i
	}
	return t, nil
}

// Columns returns the column names in schema order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Kinds returns the column kinds in schema order
func (t *Table) Kinds() []Kind {
	return append([]Kind(nil), t.kinds...)
}

// KindOf returns the kind of a named column
func (t *Table) KindOf(column string) (Kind, error) {
	i, ok := t.index[column]
	if !ok {
		return KindFloat, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return t.kinds[i], nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	if len(t.data) == 0 {
		return 0
	}
	return len(t.data[0])
}

// HasColumn reports whether the table carries the column
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// AppendRow adds one row; values are in schema order
func (t *Table) AppendRow(values []float64) error {
	if len(values) != len(t.columns) {
		return fmt.Errorf("%w: got %d, want %d", ErrRowLength, len(values), len(t.columns))
	}
	for i, v := range values {
		t.data[i] = append(t.data[i], v)
	}
	return nil
}

// Column returns a copy of a column's values
func (t *Table) Column(column string) ([]float64, error) {
	i, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	return append([]float64(nil), t.data[i]...), nil
}

// Value returns a single cell
func (t *Table) Value(row int, column string) (float64, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= t.Len() {
		return math.NaN(), false
	}
	return t.data[i][row], true
}

// Row returns the row values in schema order
func (t *Table) Row(row int) []float64 {
	out := make([]float64, len(t.columns))
	for i := range t.columns {
		out[i] = t.data[i][row]
	}
	return out
}

// Clone returns a deep copy of the table filed under catalog
func (t *Table) Clone(catalog Catalog) *Table {
	out := &Table{
		Catalog: catalog,
		columns: append([]string(nil), t.columns...),
		kinds:   append([]Kind(nil), t.kinds...),
		index:   make(map[string]int, len(t.index)),
		data:    make([][]float64, len(t.data)),
	}
	for c, i := range t.index {
		out.index[c] = i
	}
	for i, col := range t.data {
		out.data[i] = append([]float64(nil), col...)
	}
	return out
}

// Where returns the values of column for rows where cond's value satisfies keep
func (t *Table) Where(column, cond string, keep func(float64) bool) ([]float64, error) {
	vi, ok := t.index[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	ci, ok := t.index[cond]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, cond)
	}

	var out []float64
	for r, c := range t.data[ci] {
		if keep(c) {
			out = append(out, t.data[vi][r])
		}
	}
	return out, nil
}

// HostIDs returns host_id for every row as a categorical string
func (t *Table) HostIDs() []string {
	i, ok := t.index[ColumnHostID]
	if !ok {
		return make([]string, t.Len())
	}
	out := make([]string, t.Len())
	for r, v := range t.data[i] {
		out[r] = FormatValue(v, KindInteger)
	}
	return out
}

// UniqueHostIDs returns the distinct host ids in ascending numeric order
func (t *Table) UniqueHostIDs() []string {
	i, ok := t.index[ColumnHostID]
	if !ok {
		return nil
	}
	seen := make(map[float64]bool)
	var ids []float64
	for _, v := range t.data[i] {
		if math.IsNaN(v) || seen[v] {
			continue
		}
		seen[v] = true
		ids = append(ids, v)
	}
	sort.Float64s(ids)

	out := make([]string, len(ids))
	for j, v := range ids {
		out[j] = FormatValue(v, KindInteger)
	}
	return out
}

// FormatValue renders a cell for text output. NaN renders as the empty string.
func FormatValue(v float64, kind Kind) string {
	if math.IsNaN(v) {
		return ""
	}
	if kind == KindInteger && v == math.Trunc(v) && math.Abs(v) < 1<<53 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
