package migration

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"haloscope/domain/halo"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openSQLite(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Connect("sqlite3", filepath.Join(t.TempDir(), "halos.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCreateTableSQL(t *testing.T) {
	sqlite := CreateTableSQL("sqlite3", halo.CatalogDMO)
	assert.True(t, strings.HasPrefix(sqlite, `CREATE TABLE IF NOT EXISTS "dmo" (`))
	assert.Contains(t, sqlite, `"host_id" INTEGER`)
	assert.Contains(t, sqlite, `"vmax" REAL`)

	pg := CreateTableSQL("postgres", halo.CatalogDisk)
	assert.Contains(t, pg, `"disk"`)
	assert.Contains(t, pg, `"index" BIGINT`)
	assert.Contains(t, pg, `"peri" DOUBLE PRECISION`)
}

func TestRunner_RunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	runner := NewRunner()

	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, runner.Run(ctx, db))

	for _, catalog := range halo.Catalogs() {
		var columns []string
		require.NoError(t, db.Select(&columns, "SELECT name FROM pragma_table_info(?) ORDER BY cid", catalog.Table()))
		assert.Equal(t, halo.CanonicalColumns, columns)
	}
}

func TestRunner_Reset(t *testing.T) {
	ctx := context.Background()
	db := openSQLite(t)
	runner := NewRunner()

	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, runner.Reset(ctx, db))

	var n int
	require.NoError(t, db.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table'"))
	assert.Equal(t, 0, n)
	assert.Equal(t, "1.0.0", runner.Version())
}
