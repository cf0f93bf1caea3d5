package memstore

import (
	"context"
	"math"
	"testing"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/filter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) *halo.Table {
	t.Helper()
	tbl, err := halo.NewTable(halo.CatalogDMO, []string{"index", "host_id", "vmax", "dist"}, nil)
	require.NoError(t, err)
	rows := [][]float64{
		{0, 1, 200, 0},
		{1, 1, 25, 40},
		{2, 1, 8, 60},
		{3, 2, 15, math.NaN()},
		{4, 2, 40, 150},
	}
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r))
	}
	return tbl
}

func parse(t *testing.T, s *Store, text string) *filter.Filter {
	t.Helper()
	cols, err := s.Columns(context.Background(), halo.CatalogDMO)
	require.NoError(t, err)
	f, err := filter.Parse(text, cols)
	require.NoError(t, err)
	return f
}

func TestStore_Query(t *testing.T) {
	ctx := context.Background()
	s := NewWithTables(fixture(t))

	tests := []struct {
		name  string
		text  string
		index []float64
	}{
		{"default filter", "where vmax > 10 and dist < 100", []float64{0, 1}},
		{"null never matches a comparison", "dist >= 0", []float64{0, 1, 2, 4}},
		{"is null", "dist is null", []float64{3}},
		{"ordered and limited", "order by vmax desc limit 2", []float64{0, 4}},
		{"empty", "", []float64{0, 1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := s.Query(ctx, halo.CatalogDMO, parse(t, s, tt.text))
			require.NoError(t, err)
			index, err := out.Column("index")
			require.NoError(t, err)
			assert.Equal(t, tt.index, index)
		})
	}
}

func TestStore_CountIgnoresLimit(t *testing.T) {
	s := NewWithTables(fixture(t))
	n, err := s.Count(context.Background(), halo.CatalogDMO, parse(t, s, "vmax > 10 limit 1"))
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStore_MissingCatalog(t *testing.T) {
	s := NewWithTables(fixture(t))
	_, err := s.Query(context.Background(), halo.CatalogDisk, nil)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestStore_Replace(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Replace(ctx, halo.CatalogDisk, fixture(t)))

	out, err := s.Query(ctx, halo.CatalogDisk, nil)
	require.NoError(t, err)
	assert.Equal(t, halo.CatalogDisk, out.Catalog)
	assert.Equal(t, 5, out.Len())

	assert.Error(t, s.Replace(ctx, halo.CatalogDisk, nil))
}

func TestStore_ReplaceCopiesTable(t *testing.T) {
	ctx := context.Background()
	s := New()
	src := fixture(t)
	require.Equal(t, halo.CatalogDMO, src.Catalog)
	require.NoError(t, s.Replace(ctx, halo.CatalogDisk, src))

	assert.Equal(t, halo.CatalogDMO, src.Catalog, "caller's table keeps its catalog")

	require.NoError(t, src.AppendRow(src.Row(0)))
	n, err := s.Count(ctx, halo.CatalogDisk, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}
