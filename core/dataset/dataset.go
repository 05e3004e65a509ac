package dataset

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"reconciler/core/reconcile"
)

// Format identifies a tabular file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ErrUnsupportedFormat is returned for file names without a supported extension.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const byteOrderMark = "\ufeff"

// Table is a parsed tabular file.
type Table struct {
	// Headers holds the header row in file order.
	Headers []string
	// Rows holds one entry per data row, keyed by header.
	Rows []reconcile.Row
}

// FormatFromName picks the format from a file name extension.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q (expected .csv or .xlsx)", ErrUnsupportedFormat, filepath.Base(name))
	}
}

// Read parses r in the given format. An empty input yields an empty Table.
func Read(r io.Reader, format Format) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(r)
	case FormatXLSX:
		return readXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadNamed parses r using the format implied by name.
func ReadNamed(r io.Reader, name string) (*Table, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}
	return Read(r, format)
}

// Headers returns the header names of the first row, sorted.
// It is the header set used when no Table is at hand.
func Headers(rows []reconcile.Row) []string {
	set := reconcile.HeaderSet(rows)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// buildTable turns raw records into a Table. The first record is the header
// row. Short records carry their missing fields as empty values, extra cells
// are dropped and records with no content are skipped.
func buildTable(records [][]string) *Table {
	t := &Table{}
	if len(records) == 0 {
		return t
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, byteOrderMark)
		}
		headers[i] = strings.TrimSpace(h)
	}
	t.Headers = headers

	for _, record := range records[1:] {
		if blank(record) {
			continue
		}
		row := make(reconcile.Row, len(headers))
		for i, h := range headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func blank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
