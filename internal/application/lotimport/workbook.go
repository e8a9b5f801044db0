package lotimport

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ParseFile dispatches on the file name extension: spreadsheets and CSV
// files are read from their first column, anything else is treated as
// plain text with one lot per line or comma-separated.
func ParseFile(filename string, r io.Reader) ([]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return ParseWorkbook(r)
	case ".csv":
		return ParseCSV(r)
	default:
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read lot file: %w", err)
		}
		return ParseList(string(raw))
	}
}

// ParseWorkbook reads lot numbers from the first column of the first
// sheet of an xlsx workbook. The first row is treated as a header and
// skipped, matching the export format of the warehouse system.
func ParseWorkbook(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoLots
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var raw []string
	for i, row := range rows {
		if i == 0 {
			// Header row
			continue
		}
		if len(row) > 0 {
			raw = append(raw, row[0])
		}
	}

	lots := Normalize(raw)
	if len(lots) == 0 {
		return nil, ErrNoLots
	}
	return lots, nil
}
