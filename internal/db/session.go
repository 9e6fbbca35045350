package db

import (
	"fmt"
	"time"

	gocql "github.com/apache/cassandra-gocql-driver/v2"
	"go.uber.org/zap"

	"github.com/cqlview/cqlview/internal/config"
	"github.com/cqlview/cqlview/internal/cql"
)

// Session wraps a gocql session and adapts it to the Transport interface.
type Session struct {
	*gocql.Session
	cluster *gocql.ClusterConfig
}

// quietLogger suppresses gocql's own log output; failures surface through
// the executor's error handling instead.
type quietLogger struct{}

func (quietLogger) Error(msg string, fields ...gocql.LogField)   {}
func (quietLogger) Warning(msg string, fields ...gocql.LogField) {}
func (quietLogger) Info(msg string, fields ...gocql.LogField)    {}
func (quietLogger) Debug(msg string, fields ...gocql.LogField)   {}

// Connect opens a session against the configured cluster. Protocol versions
// are tried from newest to oldest so both engine generations are reachable
// with one code path.
func Connect(cfg *config.Cassandra) (*Session, error) {
	cluster := gocql.NewCluster(fmt.Sprintf("%s:%d", cfg.Host, cfg.Port))
	cluster.Logger = quietLogger{}
	cluster.Consistency = gocql.LocalOne
	cluster.DisableInitialHostLookup = true
	cluster.Timeout = time.Duration(cfg.RequestTimeout) * time.Second
	cluster.ConnectTimeout = time.Duration(cfg.ConnectTimeout) * time.Second

	if cfg.Keyspace != "" {
		cluster.Keyspace = cfg.Keyspace
	}
	if cfg.Username != "" && cfg.Password != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: cfg.Username,
			Password: cfg.Password,
		}
	}

	var session *gocql.Session
	var err error
	for _, protoVer := range []int{5, 4, 3} {
		cluster.ProtoVersion = protoVer
		session, err = cluster.CreateSession()
		if err == nil {
			zap.S().Debugw("connected", "host", cfg.Host, "protocolVersion", protoVer)
			break
		}
		zap.S().Debugw("connect attempt failed", "protocolVersion", protoVer, "error", err.Error())
	}
	if session == nil {
		return nil, fmt.Errorf("connect to %s:%d with any supported protocol version: %w",
			cfg.Host, cfg.Port, err)
	}

	return &Session{Session: session, cluster: cluster}, nil
}

// resultReturning reports whether a statement yields rows to scan. Only
// those go through an iterator; everything else must run exactly once via
// Exec, since creating and recreating an iterator each sends the statement
// to the cluster and would apply a mutation twice.
func resultReturning(cqlText string) bool {
	return cql.NewQuery(cqlText).Kind == cql.KindSelect
}

// Execute implements Transport. For result-returning statements the
// iterator is closed once up front to surface transport errors eagerly,
// then recreated for the actual scan; gocql reports connection failures
// only on Close. The probe is safe there because a SELECT has no
// side effects to repeat.
func (s *Session) Execute(cqlText string) (ResultStream, error) {
	if !resultReturning(cqlText) {
		if err := s.Query(cqlText).Exec(); err != nil {
			return nil, err
		}
		return NewSliceStream(nil, nil), nil
	}
	iter := s.Query(cqlText).Iter()
	if err := iter.Close(); err != nil {
		return nil, err
	}
	iter = s.Query(cqlText).Iter()
	return newGocqlStream(iter), nil
}

type gocqlStream struct {
	iter *gocql.Iter
	cols []ColumnMeta
}

func newGocqlStream(iter *gocql.Iter) *gocqlStream {
	columns := iter.Columns()
	cols := make([]ColumnMeta, len(columns))
	for i, col := range columns {
		cols[i] = ColumnMeta{
			Name:     col.Name,
			DataType: dataTypeFromTypeInfo(col.TypeInfo),
		}
	}
	return &gocqlStream{iter: iter, cols: cols}
}

func (s *gocqlStream) Columns() []ColumnMeta { return s.cols }

// Next scans one row. MapScan is used because scanning nulls into plain
// interface values can panic in gocql; absent map keys represent nulls.
func (s *gocqlStream) Next() (map[string]any, bool) {
	row := make(map[string]any, len(s.cols))
	if !s.iter.MapScan(row) {
		return nil, false
	}
	return row, true
}

func (s *gocqlStream) Close() error { return s.iter.Close() }
