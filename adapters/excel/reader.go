package excel

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"haloscope/domain/halo"

	"github.com/xuri/excelize/v2"
)

// DataReader reads catalog files in CSV or XLSX form
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a reader; the file type follows the extension
func NewDataReader(filePath string) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType}
}

// ReadTable reads the file into a table for the given catalog
func (r *DataReader) ReadTable(catalog halo.Catalog) (*halo.Table, error) {
	log.Printf("[DataReader] Starting to read %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	case "xlsx":
		rows, err = r.readExcelRows()
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("%s file must have a header row", strings.ToUpper(r.fileType))
	}

	return processRows(catalog, rows)
}

// readExcelRows reads Sheet1
func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sheet1")
	if err != nil {
		return nil, fmt.Errorf("failed to read Sheet1: %w", err)
	}
	log.Printf("[DataReader] Sheet1 read in %.2fms (%d rows)", float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	startTime := time.Now()
	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))
	return rows, nil
}

// processRows converts a header row plus string cells into a table.
// Empty cells become NaN; anything else must parse as a number.
func processRows(catalog halo.Catalog, rows [][]string) (*halo.Table, error) {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
		if headers[i] == "" {
			return nil, fmt.Errorf("column %d has an empty header", i+1)
		}
	}

	table, err := halo.NewTable(catalog, headers, nil)
	if err != nil {
		return nil, err
	}

	values := make([]float64, len(headers))
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		if len(row) > len(headers) {
			return nil, fmt.Errorf("row %d has %d cells but only %d columns", i+1, len(row), len(headers))
		}
		for j := range headers {
			values[j] = math.NaN()
			if j >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[j])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %q is not numeric", i+1, headers[j], cell)
			}
			values[j] = v
		}
		if err := table.AppendRow(values); err != nil {
			return nil, err
		}
	}

	log.Printf("[DataReader] %s catalog processed (%d columns, %d rows)", catalog, len(headers), table.Len())
	return table, nil
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// CatalogPath returns the expected file for a catalog inside dir, preferring
// CSV over XLSX when both exist
func CatalogPath(dir string, catalog halo.Catalog) (string, error) {
	for _, ext := range []string{".csv", ".xlsx"} {
		path := filepath.Join(dir, catalog.Table()+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no %s.csv or %s.xlsx in %s", catalog.Table(), catalog.Table(), dir)
}
