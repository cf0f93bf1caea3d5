package migration

import (
	"context"
	"fmt"
	"strings"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/filter"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner creates the catalog schema for SQLite and PostgreSQL stores
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run creates both catalog tables and their indexes if they are missing
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	for _, catalog := range halo.Catalogs() {
		if err := r.createCatalogTable(ctx, db, catalog); err != nil {
			return errors.Wrapf(err, "failed to create %s table", catalog)
		}
		if err := r.createIndexes(ctx, db, catalog); err != nil {
			return errors.Wrapf(err, "failed to create %s indexes", catalog)
		}
	}
	return nil
}

// Reset drops both catalog tables
func (r *MigrationRunner) Reset(ctx context.Context, db *sqlx.DB) error {
	for _, catalog := range halo.Catalogs() {
		if _, err := db.ExecContext(ctx, "DROP TABLE IF EXISTS "+filter.QuoteIdent(catalog.Table())); err != nil {
			return errors.Wrapf(err, "failed to drop %s table", catalog)
		}
	}
	return nil
}

// CreateTableSQL renders the catalog DDL for a driver
func CreateTableSQL(driver string, catalog halo.Catalog) string {
	intType, floatType := "INTEGER", "REAL"
	if driver == "postgres" {
		intType, floatType = "BIGINT", "DOUBLE PRECISION"
	}

	cols := make([]string, len(halo.CanonicalColumns))
	for i, c := range halo.CanonicalColumns {
		typ := floatType
		if halo.KindOf(c) == halo.KindInteger {
			typ = intType
		}
		cols[i] = fmt.Sprintf("\t%s %s", filter.QuoteIdent(c), typ)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n%s\n)",
		filter.QuoteIdent(catalog.Table()), strings.Join(cols, ",\n"))
}

func (r *MigrationRunner) createCatalogTable(ctx context.Context, db *sqlx.DB, catalog halo.Catalog) error {
	_, err := db.ExecContext(ctx, CreateTableSQL(db.DriverName(), catalog))
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB, catalog halo.Catalog) error {
	table := catalog.Table()
	indexes := []string{
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_host_id ON %s(%s)", table, filter.QuoteIdent(table), filter.QuoteIdent(halo.ColumnHostID)),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_vmax ON %s(%s)", table, filter.QuoteIdent(table), filter.QuoteIdent("vmax")),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_dist ON %s(%s)", table, filter.QuoteIdent(table), filter.QuoteIdent("dist")),
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
