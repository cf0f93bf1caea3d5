package memstore

import (
	"context"
	"fmt"
	"math"
	"sync"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/filter"
)

// Store keeps whole catalogs in memory and evaluates filters in process.
// It backs the file-based mode and the test suites.
type Store struct {
	mu     sync.RWMutex
	tables map[halo.Catalog]*halo.Table
}

// New creates an empty store
func New() *Store {
	return &Store{tables: make(map[halo.Catalog]*halo.Table)}
}

// NewWithTables creates a store preloaded with tables keyed by their catalog
func NewWithTables(tables ...*halo.Table) *Store {
	s := New()
	for _, t := range tables {
		s.tables[t.Catalog] = t
	}
	return s
}

func (s *Store) table(catalog halo.Catalog) (*halo.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tables[catalog]
	if !ok {
		return nil, errors.NotFound(fmt.Sprintf("catalog %s", catalog))
	}
	return t, nil
}

// Columns returns the catalog schema
func (s *Store) Columns(ctx context.Context, catalog halo.Catalog) ([]string, error) {
	t, err := s.table(catalog)
	if err != nil {
		return nil, err
	}
	return t.Columns(), nil
}

// Query returns a new table holding the selected rows
func (s *Store) Query(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (*halo.Table, error) {
	t, err := s.table(catalog)
	if err != nil {
		return nil, err
	}
	if f == nil {
		f = filter.All()
	}

	rows := s.matching(t, f)
	f.SortRows(rows, func(r int, c string) float64 {
		v, _ := t.Value(r, c)
		return v
	})
	if f.Limit > 0 && len(rows) > f.Limit {
		rows = rows[:f.Limit]
	}

	out, err := halo.NewTable(catalog, t.Columns(), t.Kinds())
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		if err := out.AppendRow(t.Row(r)); err != nil {
			return nil, err
		}
	}
	return out, ctx.Err()
}

// Count returns the number of rows selected by the filter's where clause
func (s *Store) Count(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (int, error) {
	t, err := s.table(catalog)
	if err != nil {
		return 0, err
	}
	if f == nil {
		f = filter.All()
	}
	return len(s.matching(t, f)), nil
}

// Replace stores a copy of table as the catalog. The caller's table is
// left untouched.
func (s *Store) Replace(ctx context.Context, catalog halo.Catalog, table *halo.Table) error {
	if table == nil {
		return errors.InvalidInput("table is required")
	}
	copied := table.Clone(catalog)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[catalog] = copied
	return nil
}

func (s *Store) matching(t *halo.Table, f *filter.Filter) []int {
	var rows []int
	for r := 0; r < t.Len(); r++ {
		row := r
		if f.Match(func(c string) float64 {
			v, ok := t.Value(row, c)
			if !ok {
				return math.NaN()
			}
			return v
		}) {
			rows = append(rows, r)
		}
	}
	return rows
}
