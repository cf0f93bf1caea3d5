package sqlstore

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"haloscope/domain/halo"
	"haloscope/internal/errors"
	"haloscope/internal/filter"
	"haloscope/ports"

	"github.com/jmoiron/sqlx"
)

// haloRepository reads and loads catalogs through database/sql via sqlx.
// It supports the sqlite3 and postgres drivers.
type haloRepository struct {
	db *sqlx.DB
}

// NewHaloRepository creates a repository over an open connection
func NewHaloRepository(db *sqlx.DB) ports.HaloStore {
	return &haloRepository{db: db}
}

// Columns reflects the catalog schema from the database
func (r *haloRepository) Columns(ctx context.Context, catalog halo.Catalog) ([]string, error) {
	var query string
	switch r.db.DriverName() {
	case "postgres":
		query = `SELECT column_name FROM information_schema.columns
			WHERE table_schema = current_schema() AND table_name = ?
			ORDER BY ordinal_position`
	default:
		query = `SELECT name FROM pragma_table_info(?) ORDER BY cid`
	}

	var columns []string
	if err := r.db.SelectContext(ctx, &columns, r.db.Rebind(query), catalog.Table()); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to read %s schema", catalog), err)
	}
	if len(columns) == 0 {
		return nil, errors.NotFound(fmt.Sprintf("catalog %s", catalog))
	}
	return columns, nil
}

// Query loads the rows selected by the filter
func (r *haloRepository) Query(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (*halo.Table, error) {
	if f == nil {
		f = filter.All()
	}

	columns, err := r.Columns(ctx, catalog)
	if err != nil {
		return nil, err
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = filter.QuoteIdent(c)
	}

	base := fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), filter.QuoteIdent(catalog.Table()))
	query, args := f.SQLFor(filter.DialectFor(r.db.DriverName())).Apply(base)

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to query %s", catalog), err)
	}
	defer rows.Close()

	kinds := make([]halo.Kind, len(columns))
	types, err := rows.ColumnTypes()
	if err != nil {
		return nil, errors.DatabaseError("failed to read column types", err)
	}
	for i, c := range columns {
		kinds[i] = kindFor(c, types[i].DatabaseTypeName())
	}

	table, err := halo.NewTable(catalog, columns, kinds)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(columns))
	for rows.Next() {
		cells, err := rows.SliceScan()
		if err != nil {
			return nil, errors.DatabaseError(fmt.Sprintf("failed to scan %s row", catalog), err)
		}
		for i, cell := range cells {
			v, err := toFloat(cell)
			if err != nil {
				return nil, errors.DatabaseError(fmt.Sprintf("column %s", columns[i]), err)
			}
			values[i] = v
		}
		if err := table.AppendRow(values); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.DatabaseError(fmt.Sprintf("failed to read %s rows", catalog), err)
	}

	return table, nil
}

// Count returns the number of rows matched by the filter's where clause
func (r *haloRepository) Count(ctx context.Context, catalog halo.Catalog, f *filter.Filter) (int, error) {
	if f == nil {
		f = filter.All()
	}
	clause := f.SQLFor(filter.DialectFor(r.db.DriverName()))
	clause.OrderBy, clause.Limit = "", 0

	query, args := clause.Apply("SELECT COUNT(*) FROM " + filter.QuoteIdent(catalog.Table()))

	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return 0, errors.DatabaseError(fmt.Sprintf("failed to count %s", catalog), err)
	}
	return n, nil
}

// Replace deletes the catalog's rows and inserts the table in one transaction
func (r *haloRepository) Replace(ctx context.Context, catalog halo.Catalog, table *halo.Table) error {
	columns := table.Columns()
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = filter.QuoteIdent(c)
		marks[i] = "?"
	}
	target := filter.QuoteIdent(catalog.Table())
	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", target, strings.Join(quoted, ", "), strings.Join(marks, ", "))

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+target); err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to clear %s", catalog), err)
	}

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(insert))
	if err != nil {
		return errors.DatabaseError(fmt.Sprintf("failed to prepare %s insert", catalog), err)
	}
	defer stmt.Close()

	kinds := table.Kinds()
	args := make([]interface{}, len(columns))
	for row := 0; row < table.Len(); row++ {
		for i, v := range table.Row(row) {
			args[i] = sqlValue(v, kinds[i])
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return errors.DatabaseError(fmt.Sprintf("failed to insert %s row %d", catalog, row), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.DatabaseError("failed to commit catalog load", err)
	}
	return nil
}

func kindFor(column, dbType string) halo.Kind {
	t := strings.ToUpper(dbType)
	switch {
	case strings.Contains(t, "INT"):
		return halo.KindInteger
	case t == "":
		return halo.KindOf(column)
	}
	return halo.KindFloat
}

func sqlValue(v float64, kind halo.Kind) interface{} {
	if math.IsNaN(v) {
		return nil
	}
	if kind == halo.KindInteger && v == math.Trunc(v) {
		return int64(v)
	}
	return v
}

func toFloat(cell interface{}) (float64, error) {
	switch v := cell.(type) {
	case nil:
		return math.NaN(), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseNumeric(string(v))
	case string:
		return parseNumeric(v)
	}
	return 0, fmt.Errorf("unsupported value type %T", cell)
}

func parseNumeric(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}
