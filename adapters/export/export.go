package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"haloscope/domain/halo"
	"haloscope/internal/errors"

	"github.com/xuri/excelize/v2"
)

// Format is a download file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Scope selects what a download contains
type Scope string

const (
	// ScopeQuery is the filtered table currently on screen
	ScopeQuery Scope = "query"
	// ScopeCatalog is the whole catalog
	ScopeCatalog Scope = "catalog"
)

const sheet = "Sheet1"

// ParseFormat accepts "csv" and "xlsx"; empty means csv
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported format %q", s))
}

// ParseScope accepts "query" and "catalog"; empty means query
func ParseScope(s string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(s))) {
	case "", ScopeQuery:
		return ScopeQuery, nil
	case ScopeCatalog:
		return ScopeCatalog, nil
	}
	return "", errors.InvalidInput(fmt.Sprintf("unsupported scope %q", s))
}

// FileName returns the download name, e.g. dmo_query.csv
func FileName(catalog halo.Catalog, scope Scope, format Format) string {
	return fmt.Sprintf("%s_%s.%s", catalog.Table(), scope, format)
}

// ContentType returns the MIME type of a format
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv;charset=utf-8"
}

// Write serializes the table in the given format
func Write(w io.Writer, t *halo.Table, format Format) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	}
	return errors.InvalidInput(fmt.Sprintf("unsupported format %q", format))
}

// WriteFile writes the table to path; the format follows the extension
func WriteFile(path string, t *halo.Table) error {
	format, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, t, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes a header row and one line per table row in schema order.
// Missing values are empty cells.
func WriteCSV(w io.Writer, t *halo.Table) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(t.Columns()); err != nil {
		return err
	}
	kinds := t.Kinds()
	record := make([]string, len(kinds))
	for r := 0; r < t.Len(); r++ {
		for i, v := range t.Row(r) {
			record[i] = halo.FormatValue(v, kinds[i])
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to Sheet1 of a new workbook
func WriteXLSX(w io.Writer, t *halo.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx == -1 {
		idx, err := f.NewSheet(sheet)
		if err != nil {
			return err
		}
		f.SetActiveSheet(idx)
	}

	columns := t.Columns()
	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	kinds := t.Kinds()
	cells := make([]interface{}, len(columns))
	for r := 0; r < t.Len(); r++ {
		for i, v := range t.Row(r) {
			cells[i] = cellValue(v, kinds[i])
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return err
		}
	}

	_, err := f.WriteTo(w)
	return err
}

func cellValue(v float64, kind halo.Kind) interface{} {
	switch {
	case math.IsNaN(v):
		return nil
	case kind == halo.KindInteger && v == math.Trunc(v):
		return int64(v)
	}
	return v
}
