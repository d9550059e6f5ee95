// Package continent derives a continent label from an artwork's free-text
// related location and adds it to a crawled table.
package continent

import (
	"strings"

	"github.com/pevans/marblecrawl"
	"github.com/pevans/marblecrawl/export"
)

const (
	// LocationColumn is the column Augment reads locations from.
	LocationColumn = "related_location"

	// ColumnName is the column Augment writes continents to.
	ColumnName = "Continent"
)

// Keyword maps a substring of a location to a continent.
type Keyword struct {
	Keyword   string
	Continent string
}

// Keywords is searched in order and the first match wins, so a location
// naming two continents gets whichever comes first here.
var Keywords = []Keyword{
	{"Africa", "Africa"},
	{"North America", "North America"},
	{"South America", "South America"},
	{"Europe", "Europe"},
	{"Asia", "Asia"},
	{"Oceania", "Oceania"},
	{"Australia", "Oceania"},
	{"Antarctica", "Antarctica"},
}

// Derive returns the continent named in location, matching Keywords
// case-insensitively. It returns nil for a nil location or one that names
// no continent.
func Derive(location *string) *string {
	if location == nil {
		return nil
	}

	lower := strings.ToLower(*location)
	for _, kw := range Keywords {
		if strings.Contains(lower, strings.ToLower(kw.Keyword)) {
			continent := kw.Continent
			return &continent
		}
	}
	return nil
}

// DeriveRecords derives a continent for every row of table. Empty location
// cells count as missing.
func DeriveRecords(table *export.Table) ([]marblecrawl.AugmentedRecord, error) {
	idx, err := table.Column(LocationColumn)
	if err != nil {
		return nil, err
	}

	records := make([]marblecrawl.AugmentedRecord, 0, len(table.Rows))
	for _, row := range table.Rows {
		records = append(records, marblecrawl.AugmentedRecord{
			Cells:     row,
			Continent: Derive(cell(row, idx)),
		})
	}
	return records, nil
}

// Augment returns a copy of table with a Continent column derived from
// related_location. An existing Continent column is overwritten in place;
// otherwise one is appended. Rows keep their count and order, and missing
// continents are written as empty cells.
func Augment(table *export.Table) (*export.Table, error) {
	records, err := DeriveRecords(table)
	if err != nil {
		return nil, err
	}

	header := append([]string(nil), table.Header...)
	out := table.ColumnIndex(ColumnName)
	if out < 0 {
		out = len(header)
		header = append(header, ColumnName)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(header))
		copy(row, rec.Cells)
		row[out] = ""
		if rec.Continent != nil {
			row[out] = *rec.Continent
		}
		rows = append(rows, row)
	}

	return &export.Table{Header: header, Rows: rows}, nil
}

func cell(row []string, idx int) *string {
	if idx >= len(row) || row[idx] == "" {
		return nil
	}
	return &row[idx]
}
