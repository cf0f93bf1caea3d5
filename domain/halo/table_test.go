package halo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := NewTable(CatalogDMO, []string{"host_id", "vmax", "dist"}, nil)
	require.NoError(t, err)
	require.NoError(t, tbl.AppendRow([]float64{2, 120, 50}))
	require.NoError(t, tbl.AppendRow([]float64{1, 30, 0}))
	require.NoError(t, tbl.AppendRow([]float64{2, 15, 300}))
	return tbl
}

func TestTable_Basics(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, 3, tbl.Len())
	assert.True(t, tbl.HasColumn("vmax"))
	assert.False(t, tbl.HasColumn("peri"))

	kind, err := tbl.KindOf("host_id")
	require.NoError(t, err)
	assert.Equal(t, KindInteger, kind)

	vmax, err := tbl.Column("vmax")
	require.NoError(t, err)
	assert.Equal(t, []float64{120, 30, 15}, vmax)

	_, err = tbl.Column("peri")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	assert.ErrorIs(t, tbl.AppendRow([]float64{1}), ErrRowLength)
}

func TestTable_Clone(t *testing.T) {
	tbl := sampleTable(t)
	c := tbl.Clone(CatalogDisk)

	assert.Equal(t, CatalogDisk, c.Catalog)
	assert.Equal(t, CatalogDMO, tbl.Catalog)
	assert.Equal(t, tbl.Columns(), c.Columns())
	assert.Equal(t, tbl.Kinds(), c.Kinds())

	require.NoError(t, c.AppendRow([]float64{3, 1, 1}))
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, 3, tbl.Len())
	v, ok := c.Value(3, "host_id")
	assert.True(t, ok)
	assert.Equal(t, 3.0, v)
}

func TestTable_Where(t *testing.T) {
	tbl := sampleTable(t)

	got, err := tbl.Where("vmax", "dist", func(v float64) bool { return v > 0 })
	require.NoError(t, err)
	assert.Equal(t, []float64{120, 15}, got)
}

func TestTable_HostIDs(t *testing.T) {
	tbl := sampleTable(t)

	assert.Equal(t, []string{"2", "1", "2"}, tbl.HostIDs())
	assert.Equal(t, []string{"1", "2"}, tbl.UniqueHostIDs())
}

func TestNewTable_DuplicateColumn(t *testing.T) {
	_, err := NewTable(CatalogDisk, []string{"vmax", "vmax"}, nil)
	assert.Error(t, err)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "42", FormatValue(42, KindInteger))
	assert.Equal(t, "42.5", FormatValue(42.5, KindInteger))
	assert.Equal(t, "0.125", FormatValue(0.125, KindFloat))
	assert.Equal(t, "", FormatValue(math.NaN(), KindFloat))
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Vmax (km/s)", AxisLabel("vmax", false))
	assert.Equal(t, "Log10  Mvir (M_sun)", AxisLabel("mvir", true))
	assert.Equal(t, "scale_vpeak", Label("scale_vpeak"))

	assert.Equal(t, []string{"mvir", "vmax"}, PlottableColumns([]string{"index", "host_id", "mvir", "x", "y", "z", "vmax"}))
}

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog(" DISK ")
	require.NoError(t, err)
	assert.Equal(t, CatalogDisk, c)

	_, err = ParseCatalog("hydro")
	assert.ErrorIs(t, err, ErrUnknownCatalog)
}
