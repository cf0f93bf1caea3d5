package testkit

import (
	"testing"

	"haloscope/adapters/memstore"
	"haloscope/domain/halo"
	"haloscope/ports"

	"github.com/stretchr/testify/require"
)

// Columns is the reduced schema of the fixture catalogs
var Columns = []string{"index", "host_id", "mvir", "vmax", "vpeak", "dist", "infall", "peri"}

// Table builds a fixture table over Columns
func Table(t testing.TB, catalog halo.Catalog, rows [][]float64) *halo.Table {
	t.Helper()
	tbl, err := halo.NewTable(catalog, Columns, nil)
	require.NoError(t, err)
	for _, r := range rows {
		require.NoError(t, tbl.AppendRow(r))
	}
	return tbl
}

// Catalogs returns two hosts in dmo and the disk survivors. Under the
// default filter dmo keeps three rows and disk keeps two.
func Catalogs(t testing.TB) (dmo, disk *halo.Table) {
	t.Helper()
	dmo = Table(t, halo.CatalogDMO, [][]float64{
		{0, 1, 1e12, 180, 180, 0, 13.8, 0},
		{1, 1, 1e9, 20, 25, 50, 8, 20},
		{2, 2, 1e8, 12, 15, 80, 4, 40},
		{3, 2, 1e7, 5, 6, 30, 2, 10},
	})
	disk = Table(t, halo.CatalogDisk, [][]float64{
		{0, 1, 1e12, 180, 180, 0, 13.8, 0},
		{1, 1, 1e9, 20, 25, 50, 8, 20},
	})
	return dmo, disk
}

// Store returns an in-memory store holding the fixture catalogs
func Store(t testing.TB) ports.HaloStore {
	t.Helper()
	return memstore.NewWithTables(Catalogs(t))
}
