// Package spreadsheet turns uploaded CSV and XLSX files into the row objects
// the importer consumes: one map per data row, keyed by header.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/octobees/contacts-hub/internal/mapping"
)

// ErrUnsupportedFormat is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Format identifies a supported file type.
type Format int

const (
	FormatCSV Format = iota + 1
	FormatXLSX
)

// DetectFormat picks a parser from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
	}
}

// Parse reads r according to the extension of filename.
func Parse(filename string, r io.Reader) ([]mapping.Row, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ParseXLSX(r)
	}
	return ParseCSV(r)
}

// ParseCSV reads a CSV document whose first non-empty record is the header.
func ParseCSV(r io.Reader) ([]mapping.Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rowsFromRecords(records), nil
}

// ParseXLSX reads the first worksheet of an XLSX workbook.
func ParseXLSX(r io.Reader) ([]mapping.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []mapping.Row{}, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rowsFromRecords(records), nil
}

// rowsFromRecords keys each data record by header. Blank cells are omitted so
// that they behave like absent JSON keys, fully blank records are dropped, and
// repeated headers get a _1, _2 suffix.
func rowsFromRecords(records [][]string) []mapping.Row {
	start := 0
	for start < len(records) && isEmptyRecord(records[start]) {
		start++
	}
	if start == len(records) {
		return []mapping.Row{}
	}

	header := headerKeys(records[start])
	rows := make([]mapping.Row, 0, len(records)-start-1)
	for _, record := range records[start+1:] {
		if isEmptyRecord(record) {
			continue
		}
		row := mapping.Row{}
		for i, key := range header {
			if key == "" || i >= len(record) {
				continue
			}
			if strings.TrimSpace(record[i]) == "" {
				continue
			}
			row[key] = record[i]
		}
		rows = append(rows, row)
	}
	return rows
}

func headerKeys(record []string) []string {
	keys := make([]string, len(record))
	seen := make(map[string]int, len(record))
	for i, cell := range record {
		if i == 0 {
			cell = strings.TrimPrefix(cell, "\ufeff")
		}
		key := strings.TrimSpace(cell)
		if key == "" {
			continue
		}
		if n, dup := seen[key]; dup {
			seen[key] = n + 1
			key = fmt.Sprintf("%s_%d", key, n+1)
		} else {
			seen[key] = 0
		}
		keys[i] = key
	}
	return keys
}

func isEmptyRecord(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
