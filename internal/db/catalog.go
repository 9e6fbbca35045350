package db

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/sessionctx"
)

// QueryService is the public query surface. Schema listings are best-effort
// ordered sets; Execute is the only operation that surfaces errors.
type QueryService interface {
	Execute(sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error)
	FindAllKeySpaces() []cql.Keyspace
	FindTableNames(keyspace *cql.Keyspace) []cql.Table
	CheckTableExists(table *cql.Table) bool
	FindColumnNames(table *cql.Table) []cql.ColumnName
	FindAllColumnNames() []cql.ColumnName
	FindAllIndexes(keyspace *cql.Keyspace) []cql.Index
}

// metadataResolver is the generation-specific piece of query execution:
// mapping the queried table's columns to their declared classification, and
// checking keyspace existence for USE handling.
type metadataResolver interface {
	createTypeMap(query cql.Query) map[string]cql.ColumnType
	hasKeyspace(keyspace cql.Keyspace) bool
}

// executeQuery is the execution path shared by both engine generations. A
// USE query is never sent to the store: gocql pins the keyspace per pooled
// connection, so executing it would switch only one connection and leave
// later unqualified queries non-deterministic. Instead the keyspace is
// validated against the metadata tables and recorded in the caller's
// session context. Everything else runs against the store and is
// materialized under the configured limits.
func executeQuery(exec *Executor, cfg *config.Cassandra, meta metadataResolver,
	sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error) {

	zap.S().Debugw("executing query", "cql", query.CQL)

	if query.Kind == cql.KindUse {
		return switchKeyspace(meta, sc, query)
	}

	stream, err := exec.Execute(query.CQL)
	if err != nil {
		return cql.SelectResult{}, err
	}

	// Exhausted result: no rows means no type map is worth loading.
	first, ok := stream.Next()
	if !ok {
		closeStream(stream)
		return cql.SelectResult{}, nil
	}

	typeMap := meta.createTypeMap(query)
	limits := Limits{Rows: cfg.RowsLimit, Columns: cfg.ColumnsLimit}
	return Materialize(&peekedStream{stream: stream, first: first}, typeMap, limits), nil
}

func switchKeyspace(meta metadataResolver, sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error) {
	keyspace, ok := cql.ExtractKeyspace(query)
	if !ok {
		return cql.SelectResult{}, &QueryError{CQL: query.CQL, Cause: errMissingKeyspace}
	}
	if !meta.hasKeyspace(keyspace) {
		return cql.SelectResult{}, &QueryError{
			CQL:   query.CQL,
			Cause: fmt.Errorf("keyspace '%s' does not exist", keyspace),
		}
	}
	if sc != nil {
		sc.SetActiveKeyspace(keyspace)
	}
	return cql.SelectResult{}, nil
}

// peekedStream re-serves the row read by the exhaustion check before
// handing over to the underlying stream.
type peekedStream struct {
	stream ResultStream
	first  map[string]any
	served bool
}

func (p *peekedStream) Columns() []ColumnMeta { return p.stream.Columns() }

func (p *peekedStream) Next() (map[string]any, bool) {
	if !p.served {
		p.served = true
		return p.first, true
	}
	return p.stream.Next()
}

func (p *peekedStream) Close() error { return p.stream.Close() }

// readIdentifiers drains a listing stream, collecting the named column of
// every row and discarding blank values.
func readIdentifiers[T ~string](stream ResultStream, column string) []T {
	defer closeStream(stream)
	var out []T
	for {
		row, ok := stream.Next()
		if !ok {
			break
		}
		if name := stringValue(row, column); name != "" {
			out = append(out, T(name))
		}
	}
	return out
}

// readTypeRows drains a column-metadata stream into a lower-cased
// name -> ColumnType map, skipping rows with blank name or type text.
// Unparseable type text classifies as Regular, never fails.
func readTypeRows(stream ResultStream, nameColumn, typeColumn string) map[string]cql.ColumnType {
	defer closeStream(stream)
	typeMap := make(map[string]cql.ColumnType)
	for {
		row, ok := stream.Next()
		if !ok {
			break
		}
		name := stringValue(row, nameColumn)
		typeText := stringValue(row, typeColumn)
		if name == "" || typeText == "" {
			continue
		}
		columnType, recognized := cql.ParseColumnType(typeText)
		if !recognized {
			zap.S().Warnw("read unsupported column type, using regular",
				"column", name, "type", typeText)
		}
		typeMap[strings.ToLower(name)] = columnType
	}
	return typeMap
}

// hasRows reports whether a stream yields at least one row, draining it.
func hasRows(stream ResultStream) bool {
	defer closeStream(stream)
	_, ok := stream.Next()
	return ok
}

func closeStream(stream ResultStream) {
	if err := stream.Close(); err != nil {
		zap.S().Debugw("error closing result stream", "reason", err.Error())
	}
}
