package cql

import (
	"sort"
	"strings"
)

// Keyspace, Table, ColumnName and Index are schema identifiers. They keep
// the case the cluster reported them with; lookups compare lower-cased.
type Keyspace string

type Table string

type ColumnName string

type Index string

func (k Keyspace) Lower() string   { return strings.ToLower(string(k)) }
func (t Table) Lower() string      { return strings.ToLower(string(t)) }
func (c ColumnName) Lower() string { return strings.ToLower(string(c)) }

// ColumnType classifies a column according to the cluster's schema metadata.
type ColumnType int

const (
	Regular ColumnType = iota
	PartitionKeyColumn
	Clustering
	Static
	Counter
	CompactValue
)

func (t ColumnType) String() string {
	switch t {
	case PartitionKeyColumn:
		return "partition_key"
	case Clustering:
		return "clustering"
	case Static:
		return "static"
	case Counter:
		return "counter"
	case CompactValue:
		return "compact_value"
	default:
		return "regular"
	}
}

// ParseColumnType maps raw metadata text to a ColumnType. The two engine
// generations use slightly different vocabularies ("clustering" vs
// "clustering_key"); anything unrecognized reports ok=false so the caller
// can log and fall back to Regular.
func ParseColumnType(text string) (ColumnType, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "partition_key":
		return PartitionKeyColumn, true
	case "clustering", "clustering_key":
		return Clustering, true
	case "static":
		return Static, true
	case "counter":
		return Counter, true
	case "compact_value":
		return CompactValue, true
	case "regular":
		return Regular, true
	default:
		return Regular, false
	}
}

// ExtendedColumnName is a column name augmented with its resolved ColumnType
// and declared data type. Identity is the name alone: the same column seen in
// two rows is the same column even if stale metadata classified it
// differently.
type ExtendedColumnName struct {
	Name     ColumnName
	Type     ColumnType
	DataType DataType
}

// PartitionKey describes the partition-key columns detected in a result.
// The backing store can have composite partition keys, so all distinct
// partition-key-typed columns are kept in first-seen order.
type PartitionKey struct {
	Columns []ExtendedColumnName
}

// Column returns the representative (first-seen) key column; ok is false
// when no key column was detected.
func (p PartitionKey) Column() (ExtendedColumnName, bool) {
	if len(p.Columns) == 0 {
		return ExtendedColumnName{}, false
	}
	return p.Columns[0], true
}

func (p PartitionKey) Composite() bool { return len(p.Columns) > 1 }

// Row is a single result row: the ordered columns that had non-null values
// in it, and the raw values keyed by column name.
type Row struct {
	Columns []ExtendedColumnName
	values  map[string]any
}

func NewRow(columns []ExtendedColumnName, values map[string]any) Row {
	return Row{Columns: columns, values: values}
}

// Value returns the raw value for a column, or nil when the row does not
// contain it.
func (r Row) Value(name ColumnName) any {
	return r.values[string(name)]
}

// SelectResult is the materialized, display-oriented view of a query result.
// CommonColumns appear in more than one row, DynamicColumns in exactly one;
// both keep first-seen order. A zero SelectResult is the valid empty result.
type SelectResult struct {
	CommonColumns  []ExtendedColumnName
	DynamicColumns []ExtendedColumnName
	Rows           []Row
	PartitionKey   *PartitionKey
}

func (r SelectResult) Empty() bool { return len(r.Rows) == 0 }

// QueryKind drives dispatcher behavior: USE queries update the session's
// active keyspace, everything else does not.
type QueryKind int

const (
	KindOther QueryKind = iota
	KindSelect
	KindUse
)

// Query is raw CQL text plus its classified kind.
type Query struct {
	CQL  string
	Kind QueryKind
}

func NewQuery(text string) Query {
	upper := strings.ToUpper(strings.TrimSpace(text))
	kind := KindOther
	switch {
	case strings.HasPrefix(upper, "SELECT"):
		kind = KindSelect
	case strings.HasPrefix(upper, "USE ") || upper == "USE":
		kind = KindUse
	}
	return Query{CQL: text, Kind: kind}
}

// SortIdentifiers orders schema identifiers lexicographically ignoring case
// and drops case-insensitive duplicates, keeping the first-seen spelling.
func SortIdentifiers[T ~string](in []T) []T {
	seen := make(map[string]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		key := strings.ToLower(string(v))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := strings.ToLower(string(out[i])), strings.ToLower(string(out[j]))
		if li != lj {
			return li < lj
		}
		return out[i] < out[j]
	})
	return out
}
