// Package lotimport turns operator input into a clean list of lot
// numbers. Input arrives as free text (comma or newline separated),
// CSV exports, or spreadsheets; all three paths funnel through
// Normalize so downstream lookups see the same shape regardless of
// source.
package lotimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNoLots is returned when the input contains no usable lot numbers
// after normalization.
var ErrNoLots = errors.New("lotimport: no lot numbers found")

// Normalize trims whitespace, uppercases, drops empty entries and
// removes duplicates while preserving first-seen order.
func Normalize(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, lot := range raw {
		lot = strings.ToUpper(strings.TrimSpace(lot))
		if lot == "" {
			continue
		}
		if _, dup := seen[lot]; dup {
			continue
		}
		seen[lot] = struct{}{}
		out = append(out, lot)
	}
	return out
}

// ParseList extracts lot numbers from free text. Entries may be
// separated by commas, newlines, or both.
func ParseList(text string) ([]string, error) {
	var raw []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		for _, field := range strings.Split(scanner.Text(), ",") {
			raw = append(raw, field)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lot list: %w", err)
	}

	lots := Normalize(raw)
	if len(lots) == 0 {
		return nil, ErrNoLots
	}
	return lots, nil
}

// ParseCSV reads lot numbers from the first column of a CSV file.
// The first row is treated as a header and skipped.
func ParseCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var raw []string
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if first {
			first = false
			continue
		}
		if len(record) > 0 {
			raw = append(raw, record[0])
		}
	}

	lots := Normalize(raw)
	if len(lots) == 0 {
		return nil, ErrNoLots
	}
	return lots, nil
}
