package db

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/sessionctx"
)

// legacyCatalog speaks the system.schema_* dialect (engine generation 1,
// Cassandra before 3.0). Its column metadata does not list partition key
// columns inline: they live in schema_columnfamilies.key_aliases and are
// loaded separately for column listings. That generation has no dedicated
// index metadata table, so index discovery reports nothing.
type legacyCatalog struct {
	exec *Executor
	cfg  *config.Cassandra
}

func newLegacyCatalog(exec *Executor, cfg *config.Cassandra) *legacyCatalog {
	return &legacyCatalog{exec: exec, cfg: cfg}
}

func (c *legacyCatalog) Execute(sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error) {
	return executeQuery(c.exec, c.cfg, c, sc, query)
}

func (c *legacyCatalog) FindAllKeySpaces() []cql.Keyspace {
	stream, ok := c.exec.ExecuteSilent("select keyspace_name from system.schema_keyspaces")
	if !ok {
		zap.S().Debugw("cannot read keyspace info")
		return nil
	}
	return cql.SortIdentifiers(readIdentifiers[cql.Keyspace](stream, "keyspace_name"))
}

func (c *legacyCatalog) FindTableNames(keyspace *cql.Keyspace) []cql.Table {
	cqlText := "select columnfamily_name from system.schema_columnfamilies"
	if keyspace != nil {
		cqlText += fmt.Sprintf(" where keyspace_name='%s'", keyspace.Lower())
	}
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Debugw("no table names found", "keyspace", keyspace)
		return nil
	}
	return cql.SortIdentifiers(readIdentifiers[cql.Table](stream, "columnfamily_name"))
}

func (c *legacyCatalog) CheckTableExists(table *cql.Table) bool {
	if table == nil {
		return false
	}
	cqlText := fmt.Sprintf(
		"select columnfamily_name from system.schema_columnfamilies where columnfamily_name='%s' allow filtering",
		table.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		return false
	}
	return hasRows(stream)
}

func (c *legacyCatalog) FindColumnNames(table *cql.Table) []cql.ColumnName {
	cqlText := "select column_name from system.schema_columns"
	if table != nil {
		cqlText += fmt.Sprintf(" where columnfamily_name='%s'", table.Lower())
	}
	cqlText += fmt.Sprintf(" limit %d allow filtering", c.cfg.ResultLimit)

	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Warnw("cannot read column names")
		return nil
	}
	names := readIdentifiers[cql.ColumnName](stream, "column_name")
	names = append(names, c.loadPartitionKeyNames(table)...)
	return cql.SortIdentifiers(names)
}

func (c *legacyCatalog) FindAllColumnNames() []cql.ColumnName {
	return c.FindColumnNames(nil)
}

// FindAllIndexes reports nothing: the legacy metadata schema has no index
// table to enumerate.
func (c *legacyCatalog) FindAllIndexes(keyspace *cql.Keyspace) []cql.Index {
	zap.S().Debugw("index listing not supported by legacy metadata schema", "keyspace", keyspace)
	return nil
}

func (c *legacyCatalog) hasKeyspace(keyspace cql.Keyspace) bool {
	cqlText := fmt.Sprintf(
		"select keyspace_name from system.schema_keyspaces where keyspace_name='%s'",
		keyspace.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		return false
	}
	return hasRows(stream)
}

func (c *legacyCatalog) createTypeMap(query cql.Query) map[string]cql.ColumnType {
	table, ok := cql.ExtractTableName(cql.KeywordFrom, query)
	if !ok {
		zap.S().Warnw("could not extract table name, column type information is not available",
			"cql", query.CQL)
		return map[string]cql.ColumnType{}
	}

	cqlText := fmt.Sprintf(
		"select column_name, type from system.schema_columns where columnfamily_name='%s' allow filtering",
		table.Lower())
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Warnw("could not read types for columns", "table", table)
		return map[string]cql.ColumnType{}
	}
	return readTypeRows(stream, "column_name", "type")
}

// loadPartitionKeyNames reads partition key columns from the column family
// metadata, where key_aliases holds them as a JSON list of names.
func (c *legacyCatalog) loadPartitionKeyNames(table *cql.Table) []cql.ColumnName {
	cqlText := "select key_aliases from system.schema_columnfamilies"
	if table != nil {
		cqlText += fmt.Sprintf(" where columnfamily_name='%s' allow filtering", table.Lower())
	}
	stream, ok := c.exec.ExecuteSilent(cqlText)
	if !ok {
		zap.S().Debugw("cannot read partition key names", "table", table)
		return nil
	}
	defer closeStream(stream)

	var names []cql.ColumnName
	for {
		row, ok := stream.Next()
		if !ok {
			break
		}
		aliases := stringValue(row, "key_aliases")
		if aliases == "" {
			continue
		}
		var parsed []string
		if err := json.Unmarshal([]byte(aliases), &parsed); err != nil {
			zap.S().Warnw("unparseable key aliases", "value", aliases, "reason", err.Error())
			continue
		}
		for _, name := range parsed {
			if name != "" {
				names = append(names, cql.ColumnName(name))
			}
		}
	}
	return names
}
