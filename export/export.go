// Package export reads and writes the comma-separated tables the crawler
// and the post-processor exchange.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/pevans/marblecrawl"
)

var (
	// ErrMissingColumn is returned when a table lacks a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrTooManyFields is returned for a row with more cells than the header.
	ErrTooManyFields = errors.New("row has more fields than header")
)

const utf8BOM = "\ufeff"

// WriteArtworks writes records as a CSV table with the marblecrawl.Columns
// header.
func WriteArtworks(w io.Writer, records []marblecrawl.DetailedRecord) error {
	if len(records) == 0 {
		// Header only
		cw := csv.NewWriter(w)
		if err := cw.Write(marblecrawl.Columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		cw.Flush()
		return cw.Error()
	}

	if err := gocsv.Marshal(records, w); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}
	return nil
}

// WriteArtworksFile writes records to path, creating parent directories as
// needed.
func WriteArtworksFile(path string, records []marblecrawl.DetailedRecord) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteArtworks(f, records); err != nil {
		return err
	}
	return f.Close()
}

// ReadArtworksFile reads a table written by WriteArtworksFile.
func ReadArtworksFile(path string) ([]marblecrawl.DetailedRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var records []marblecrawl.DetailedRecord
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

// Table is a CSV table with an arbitrary set of columns.
type Table struct {
	Header []string
	Rows   [][]string
}

// ColumnIndex returns the position of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Column returns the position of the named column, or an error wrapping
// ErrMissingColumn.
func (t *Table) Column(name string) (int, error) {
	idx := t.ColumnIndex(name)
	if idx < 0 {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return idx, nil
}

// ReadTable parses a CSV table whose first row is the header. A leading
// UTF-8 byte order mark is dropped. Rows shorter than the header are kept
// as they are; their missing cells read as empty.
func ReadTable(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	for i, row := range rows {
		if len(row) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d fields, header has %d",
				ErrTooManyFields, i+1, len(row), len(header))
		}
	}

	return &Table{Header: header, Rows: rows}, nil
}

// ReadTableFile reads a CSV table from path.
func ReadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	table, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return table, nil
}

// WriteTable writes the header and rows as CSV.
func WriteTable(w io.Writer, table *Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := cw.WriteAll(table.Rows); err != nil {
		return fmt.Errorf("failed to write rows: %w", err)
	}
	return nil
}

// WriteTableFile writes table to path, creating parent directories as
// needed.
func WriteTableFile(path string, table *Table) error {
	f, err := create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteTable(f, table); err != nil {
		return err
	}
	return f.Close()
}

func create(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return f, nil
}
