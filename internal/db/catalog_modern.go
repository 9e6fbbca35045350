package db

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/sessionctx"
)

// modernCatalog speaks the system_schema dialect (engine generation 2,
// Cassandra 3.0 and later). Column classifications come from the inline
// "kind" column, and secondary indexes have their own metadata table.
type modernCatalog struct {
	exec *Executor
	cfg  *config.Cassandra
}

func newModernCatalog(exec *Executor, cfg *config.Cassandra) *modernCatalog {
	return &modernCatalog{exec: exec, cfg: cfg}
}

func (c *modernCatalog) Execute(sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error) {
	return executeQuery(c.exec, c.cfg, c, sc, query)
}

func (c *modernCatalog) FindAllKeySpaces() []cql.Keyspace {
	stream, ok := c.exec.ExecuteSilent("select keyspace_name from system_schema.keyspaces")
	if !ok {
		zap.S().Debugw("cannot read keyspace info")
		return nil
	}
	return cql.SortIdentifiers(readIdentifiers[cql.Keyspace](stream, "keyspace_name"))
}

func (c *modernCatalog) FindTableNames(keyspace *cql.Keyspace) []cql.Table {
	cqlText := "select table_name from system_schema.tables"
	if keyspace != nil {
		cqlText += fmt.Sprintf(" where keyspace_name='%s'", keyspace.Lower())
	}
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Debugw("no table names found", "keyspace", keyspace)
		return nil
	}
	return cql.SortIdentifiers(readIdentifiers[cql.Table](stream, "table_name"))
}

func (c *modernCatalog) CheckTableExists(table *cql.Table) bool {
	if table == nil {
		return false
	}
	cqlText := fmt.Sprintf(
		"select table_name from system_schema.tables where table_name='%s' allow filtering",
		table.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		return false
	}
	return hasRows(stream)
}

func (c *modernCatalog) FindColumnNames(table *cql.Table) []cql.ColumnName {
	cqlText := "select column_name from system_schema.columns"
	if table != nil {
		cqlText += fmt.Sprintf(" where table_name='%s'", table.Lower())
	}
	cqlText += fmt.Sprintf(" limit %d allow filtering", c.cfg.ResultLimit)

	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Warnw("cannot read column names")
		return nil
	}
	// system_schema lists key columns inline, no separate partition key load.
	return cql.SortIdentifiers(readIdentifiers[cql.ColumnName](stream, "column_name"))
}

func (c *modernCatalog) FindAllColumnNames() []cql.ColumnName {
	return c.FindColumnNames(nil)
}

func (c *modernCatalog) FindAllIndexes(keyspace *cql.Keyspace) []cql.Index {
	cqlText := "select index_name from system_schema.indexes"
	if keyspace != nil {
		cqlText += fmt.Sprintf(" where keyspace_name='%s'", keyspace.Lower())
	}
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Debugw("no indexes found", "keyspace", keyspace)
		return nil
	}
	return cql.SortIdentifiers(readIdentifiers[cql.Index](stream, "index_name"))
}

func (c *modernCatalog) hasKeyspace(keyspace cql.Keyspace) bool {
	cqlText := fmt.Sprintf(
		"select keyspace_name from system_schema.keyspaces where keyspace_name='%s'",
		keyspace.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		return false
	}
	return hasRows(stream)
}

func (c *modernCatalog) createTypeMap(query cql.Query) map[string]cql.ColumnType {
	table, ok := cql.ExtractTableName(cql.KeywordFrom, query)
	if !ok {
		zap.S().Warnw("could not extract table name, column type information is not available",
			"cql", query.CQL)
		return map[string]cql.ColumnType{}
	}

	cqlText := fmt.Sprintf(
		"select column_name, kind from system_schema.columns where table_name='%s' allow filtering",
		table.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Warnw("could not read types for columns", "table", table)
		return map[string]cql.ColumnType{}
	}
	return readTypeRows(stream, "column_name", "kind")
}
