// Package analysis loads tabular files into raw tables and renders schema
// reports for registered tables.
package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/shadowdb-cli/internal/frame"
)

// Options controls how source files are read.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Delimiter for CSV. If 0, it is picked from the file extension.
	Delimiter rune
	// SheetName selects an XLSX sheet by name; SheetIndex (1-based) is used
	// when the name is empty.
	SheetName  string
	SheetIndex int
}

func DefaultOptions() Options {
	return Options{MaxRows: 0, SheetIndex: 1}
}

// TableName derives a table name from a file path: the base name without
// its extension.
func TableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// LoadCSV reads a delimited file. The first record is the header; short
// rows are padded with nulls.
func LoadCSV(path string, opt Options) (*frame.RawTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.Comma = opt.Delimiter
	if r.Comma == 0 {
		r.Comma = sniffDelimiter(path)
	}

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &frame.RawTable{Name: TableName(path)}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var (
		records [][]string
		total   int
	)
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", total+1, err)
		}
		total++
		if opt.MaxRows > 0 && len(records) >= opt.MaxRows {
			continue
		}
		records = append(records, rec)
	}
	t := frame.FromRecords(TableName(path), header, records)
	if len(records) < total {
		t.Warnings = append(t.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", len(records), total))
	}
	for _, rec := range records {
		if len(rec) > len(header) {
			t.Warnings = append(t.Warnings, fmt.Sprintf("some rows have more than %d fields; extra fields dropped", len(header)))
			break
		}
	}
	return t, nil
}

func sniffDelimiter(path string) rune {
	name := strings.ToLower(path)
	if strings.HasSuffix(name, ".tsv") || strings.HasSuffix(name, ".tab") {
		return '\t'
	}
	return ','
}
