package db

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
	"github.com/cqlview/cqlview/internal/sessionctx"
)

// Generation identifies the metadata dialect of the backing engine.
type Generation int

const (
	// GenerationLegacy is the system.schema_* dialect (before 3.0).
	GenerationLegacy Generation = iota + 1
	// GenerationModern is the system_schema dialect (3.0 and later).
	GenerationModern
)

func (g Generation) String() string {
	if g == GenerationModern {
		return "modern"
	}
	return "legacy"
}

// DetectGeneration probes the engine's release version once. Any failure to
// detect falls back to the legacy dialect, since older engines do not expose
// the newer metadata tables at all.
func DetectGeneration(exec *Executor) Generation {
	stream, ok := exec.ExecuteSilent("select release_version from system.local")
	if !ok {
		zap.S().Warnw("cannot detect engine generation, assuming legacy")
		return GenerationLegacy
	}
	defer closeStream(stream)

	row, ok := stream.Next()
	if !ok {
		zap.S().Warnw("empty release version result, assuming legacy")
		return GenerationLegacy
	}
	return generationFromVersion(stringValue(row, "release_version"))
}

func generationFromVersion(version string) Generation {
	parts := strings.Split(version, ".")
	if len(parts) == 0 {
		return GenerationLegacy
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		zap.S().Warnw("unparseable release version, assuming legacy", "version", version)
		return GenerationLegacy
	}
	if major >= 3 {
		return GenerationModern
	}
	return GenerationLegacy
}

// Dispatcher routes every QueryService call to the catalog matching the
// engine generation. The generation is detected once at construction and
// reused for the connection's lifetime.
type Dispatcher struct {
	generation Generation
	active     QueryService
}

// NewDispatcher detects the engine generation through the executor and wires
// the matching catalog.
func NewDispatcher(exec *Executor, cfg *config.Cassandra) *Dispatcher {
	return NewDispatcherForGeneration(DetectGeneration(exec), exec, cfg)
}

// NewDispatcherForGeneration wires a dispatcher for an externally supplied
// generation.
func NewDispatcherForGeneration(gen Generation, exec *Executor, cfg *config.Cassandra) *Dispatcher {
	var active QueryService
	switch gen {
	case GenerationModern:
		active = newModernCatalog(exec, cfg)
	default:
		active = newLegacyCatalog(exec, cfg)
	}
	zap.S().Infow("query service ready", "generation", gen.String())
	return &Dispatcher{generation: gen, active: active}
}

func (d *Dispatcher) Generation() Generation { return d.generation }

func (d *Dispatcher) Execute(sc *sessionctx.Context, query cql.Query) (cql.SelectResult, error) {
	return d.active.Execute(sc, query)
}

func (d *Dispatcher) FindAllKeySpaces() []cql.Keyspace {
	return d.active.FindAllKeySpaces()
}

func (d *Dispatcher) FindTableNames(keyspace *cql.Keyspace) []cql.Table {
	return d.active.FindTableNames(keyspace)
}

func (d *Dispatcher) CheckTableExists(table *cql.Table) bool {
	return d.active.CheckTableExists(table)
}

func (d *Dispatcher) FindColumnNames(table *cql.Table) []cql.ColumnName {
	return d.active.FindColumnNames(table)
}

func (d *Dispatcher) FindAllColumnNames() []cql.ColumnName {
	return d.active.FindAllColumnNames()
}

func (d *Dispatcher) FindAllIndexes(keyspace *cql.Keyspace) []cql.Index {
	return d.active.FindAllIndexes(keyspace)
}
