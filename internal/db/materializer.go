package db

import (
	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/cql"
)

// Limits bounds how much of a result stream is materialized.
type Limits struct {
	Rows    int
	Columns int
}

// columnTally tracks how many rows a column occurred in. Keyed by column
// name (name is column identity; classification and data type are metadata),
// with first-seen order preserved separately.
type columnTally struct {
	order  []string
	counts map[string]int
	byName map[string]cql.ExtendedColumnName
}

func newColumnTally() *columnTally {
	return &columnTally{
		counts: make(map[string]int),
		byName: make(map[string]cql.ExtendedColumnName),
	}
}

func (t *columnTally) add(col cql.ExtendedColumnName) {
	name := string(col.Name)
	if _, seen := t.counts[name]; !seen {
		t.order = append(t.order, name)
		t.byName[name] = col
	}
	t.counts[name]++
}

// Materialize walks a row stream exactly once, classifying each column via
// typeMap (lower-cased name lookup, Regular when absent) and bounding the
// scan by limits. Columns seen in more than one row become common, columns
// seen in exactly one row dynamic; both keep first-seen order. Null-valued
// columns are skipped, and a row left with no columns is dropped. Rows past
// the row limit are silently discarded (truncation, not failure).
func Materialize(stream ResultStream, typeMap map[string]cql.ColumnType, limits Limits) cql.SelectResult {
	if stream == nil {
		return cql.SelectResult{}
	}
	defer func() {
		if err := stream.Close(); err != nil {
			zap.S().Warnw("error closing result stream", "reason", err.Error())
		}
	}()

	tally := newColumnTally()
	columns := stream.Columns()

	var rows []cql.Row
	var pkColumns []cql.ExtendedColumnName
	pkSeen := make(map[string]struct{})

	for len(rows) < limits.Rows {
		values, ok := stream.Next()
		if !ok {
			break
		}

		rowColumns, rowValues := collectRowColumns(columns, values, typeMap, limits.Columns)
		if len(rowColumns) == 0 {
			continue
		}
		for _, col := range rowColumns {
			tally.add(col)
			if col.Type == cql.PartitionKeyColumn {
				if _, dup := pkSeen[string(col.Name)]; !dup {
					pkSeen[string(col.Name)] = struct{}{}
					pkColumns = append(pkColumns, col)
				}
			}
		}
		rows = append(rows, cql.NewRow(rowColumns, rowValues))
	}
	if len(rows) == limits.Rows {
		zap.S().Debugw("reached rows limit", "limit", limits.Rows)
	}

	if len(rows) == 0 {
		return cql.SelectResult{}
	}

	var common, dynamic []cql.ExtendedColumnName
	for _, name := range tally.order {
		if tally.counts[name] > 1 {
			common = append(common, tally.byName[name])
		} else {
			dynamic = append(dynamic, tally.byName[name])
		}
	}

	var partitionKey *cql.PartitionKey
	if len(pkColumns) > 0 {
		partitionKey = &cql.PartitionKey{Columns: pkColumns}
		if partitionKey.Composite() {
			zap.S().Warnw("multiple partition key columns detected in result",
				"columns", len(pkColumns))
		}
	}

	return cql.SelectResult{
		CommonColumns:  common,
		DynamicColumns: dynamic,
		Rows:           rows,
		PartitionKey:   partitionKey,
	}
}

// collectRowColumns scans one row in declared column order, keeping the
// first columnLimit non-null columns and resolving each column's type.
func collectRowColumns(columns []ColumnMeta, values map[string]any,
	typeMap map[string]cql.ColumnType, columnLimit int) ([]cql.ExtendedColumnName, map[string]any) {

	var rowColumns []cql.ExtendedColumnName
	rowValues := make(map[string]any)

	for i, col := range columns {
		if i >= columnLimit {
			zap.S().Debugw("reached columns limit", "limit", columnLimit)
			break
		}
		value, present := values[col.Name]
		if !present || value == nil {
			continue
		}
		columnType, found := typeMap[cql.ColumnName(col.Name).Lower()]
		if !found {
			columnType = cql.Regular
			zap.S().Debugw("column type not found, using regular", "column", col.Name)
		}
		rowColumns = append(rowColumns, cql.ExtendedColumnName{
			Name:     cql.ColumnName(col.Name),
			Type:     columnType,
			DataType: col.DataType,
		})
		rowValues[col.Name] = value
	}
	return rowColumns, rowValues
}
