package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pevans/marblecrawl/continent"
	"github.com/pevans/marblecrawl/export"
)

// previewColumns are shown when present; other columns are left out to keep
// lines short.
var previewColumns = []string{"title", continent.LocationColumn, continent.ColumnName}

// printPreview prints the first n rows of table
func printPreview(w io.Writer, tbl *export.Table, n int) {
	if len(tbl.Rows) == 0 {
		fmt.Fprintln(w, "No rows to display.")
		return
	}

	header := table.Row{"#"}
	var indexes []int
	for _, name := range previewColumns {
		if idx := tbl.ColumnIndex(name); idx >= 0 {
			indexes = append(indexes, idx)
			header = append(header, name)
		}
	}

	if n > len(tbl.Rows) {
		n = len(tbl.Rows)
	}
	fmt.Fprintf(w, "Showing %d of %d rows\n", n, len(tbl.Rows))

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(header)

	for i, row := range tbl.Rows[:n] {
		out := table.Row{i}
		for _, idx := range indexes {
			value := "-"
			if idx < len(row) && row[idx] != "" {
				value = truncate(row[idx], 40)
			}
			out = append(out, value)
		}
		t.AppendRow(out)
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}
