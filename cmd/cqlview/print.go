package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/db"
)

// printResult renders a materialized result as an ASCII table: the common
// columns as a dense grid, then each row's dynamic columns underneath it.
func printResult(w io.Writer, result cql.SelectResult) {
	if result.Empty() {
		fmt.Fprintln(w, "(no rows)")
		return
	}

	headers := make([]string, len(result.CommonColumns))
	for i, col := range result.CommonColumns {
		headers[i] = headerFor(col)
	}

	grid := make([][]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		cells := make([]string, len(result.CommonColumns))
		for i, col := range result.CommonColumns {
			cells[i] = db.FormatValue(row.Value(col.Name))
		}
		grid = append(grid, cells)
	}

	widths := columnWidths(headers, grid)
	writeRow(w, headers, widths)
	writeSeparator(w, widths)
	for _, cells := range grid {
		writeRow(w, cells, widths)
	}

	printDynamic(w, result)

	fmt.Fprintf(w, "\n(%d rows)\n", len(result.Rows))
}

func printDynamic(w io.Writer, result cql.SelectResult) {
	if len(result.DynamicColumns) == 0 {
		return
	}
	dynamic := make(map[cql.ColumnName]struct{}, len(result.DynamicColumns))
	for _, col := range result.DynamicColumns {
		dynamic[col.Name] = struct{}{}
	}
	for i, row := range result.Rows {
		for _, col := range row.Columns {
			if _, ok := dynamic[col.Name]; !ok {
				continue
			}
			fmt.Fprintf(w, "  row %d | %s = %s\n", i+1, col.Name, db.FormatValue(row.Value(col.Name)))
		}
	}
}

func headerFor(col cql.ExtendedColumnName) string {
	header := string(col.Name)
	switch col.Type {
	case cql.PartitionKeyColumn:
		header += " (PK)"
	case cql.Clustering:
		header += " (C)"
	}
	return header
}

func columnWidths(headers []string, grid [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range grid {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func writeRow(w io.Writer, cells []string, widths []int) {
	parts := make([]string, len(cells))
	for i, cell := range cells {
		parts[i] = fmt.Sprintf("%-*s", widths[i], cell)
	}
	fmt.Fprintln(w, " "+strings.Join(parts, " | "))
}

func writeSeparator(w io.Writer, widths []int) {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width+2)
	}
	fmt.Fprintln(w, strings.Join(parts, "+"))
}
