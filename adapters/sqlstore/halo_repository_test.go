package sqlstore

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/filter"
	"haloscope/internal/migration"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *haloRepository {
	t.Helper()
	ctx := context.Background()

	db, err := Open(ctx, "sqlite3", filepath.Join(t.TempDir(), "halos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migration.NewRunner().Run(ctx, db))
	return NewHaloRepository(db).(*haloRepository)
}

func fixture(t *testing.T, catalog halo.Catalog) *halo.Table {
	t.Helper()
	tbl, err := halo.NewTable(catalog, halo.CanonicalColumns, nil)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		row := make([]float64, len(halo.CanonicalColumns))
		for j, c := range halo.CanonicalColumns {
			switch c {
			case "index", "id":
				row[j] = float64(i)
			case "host_id":
				row[j] = float64(i % 2)
			case "vmax":
				row[j] = float64(10 * (i + 1))
			case "dist":
				row[j] = float64(40 * i)
			case "peri":
				row[j] = math.NaN()
			default:
				row[j] = 1.5
			}
		}
		require.NoError(t, tbl.AppendRow(row))
	}
	return tbl
}

func TestHaloRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Replace(ctx, halo.CatalogDMO, fixture(t, halo.CatalogDMO)))

	columns, err := repo.Columns(ctx, halo.CatalogDMO)
	require.NoError(t, err)
	assert.Equal(t, halo.CanonicalColumns, columns)

	f, err := filter.Parse("where vmax > 10 and dist < 100 order by vmax desc", columns)
	require.NoError(t, err)

	table, err := repo.Query(ctx, halo.CatalogDMO, f)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	vmax, err := table.Column("vmax")
	require.NoError(t, err)
	assert.Equal(t, []float64{30, 20}, vmax)

	kind, err := table.KindOf("host_id")
	require.NoError(t, err)
	assert.Equal(t, halo.KindInteger, kind)

	peri, err := table.Column("peri")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(peri[0]), "NULL reads back as NaN")

	n, err := repo.Count(ctx, halo.CatalogDMO, f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHaloRepository_ReplaceIsWholesale(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	require.NoError(t, repo.Replace(ctx, halo.CatalogDisk, fixture(t, halo.CatalogDisk)))
	require.NoError(t, repo.Replace(ctx, halo.CatalogDisk, fixture(t, halo.CatalogDisk)))

	n, err := repo.Count(ctx, halo.CatalogDisk, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestHaloRepository_FilterValuesAreBound(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Replace(ctx, halo.CatalogDMO, fixture(t, halo.CatalogDMO)))

	f, err := filter.Parse("peri is null limit 3", halo.CanonicalColumns)
	require.NoError(t, err)

	table, err := repo.Query(ctx, halo.CatalogDMO, f)
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	n, err := repo.Count(ctx, halo.CatalogDMO, f)
	require.NoError(t, err)
	assert.Equal(t, 5, n, "count ignores the limit")
}

func TestHaloRepository_FractionalLiteralOnIntegerColumn(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)
	require.NoError(t, repo.Replace(ctx, halo.CatalogDMO, fixture(t, halo.CatalogDMO)))

	f, err := filter.Parse("host_id > 0.5", halo.CanonicalColumns)
	require.NoError(t, err)

	n, err := repo.Count(ctx, halo.CatalogDMO, f)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	query, args := f.SQLFor(filter.DialectFor("postgres")).Apply(`SELECT COUNT(*) FROM "dmo"`)
	assert.Equal(t, `SELECT COUNT(*) FROM "dmo" WHERE "host_id" > CAST($1 AS DOUBLE PRECISION)`, sqlx.Rebind(sqlx.DOLLAR, query))
	assert.Equal(t, []interface{}{0.5}, args)
}

func TestHaloRepository_MissingCatalog(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = NewHaloRepository(db).Columns(ctx, halo.CatalogDMO)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestToFloat(t *testing.T) {
	v, err := toFloat([]byte("12.5"))
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)

	v, err = toFloat(nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	_, err = toFloat(struct{}{})
	assert.Error(t, err)
}
