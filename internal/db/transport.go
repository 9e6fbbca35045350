package db

import (
	"strings"

	"github.com/cqlview/cqlview/internal/cql"
)

// ColumnMeta is the declared metadata of one result column.
type ColumnMeta struct {
	Name     string
	DataType cql.DataType
}

// ResultStream is a single forward pass over a query result. Columns reports
// the ordered column metadata of the result set; Next returns the raw values
// of one row keyed by column name, with null columns absent from the map.
// The stream is not re-iterable.
type ResultStream interface {
	Columns() []ColumnMeta
	Next() (map[string]any, bool)
	Close() error
}

// Transport runs CQL text against the backing store. The production
// implementation wraps a gocql session; tests substitute fakes.
type Transport interface {
	Execute(cqlText string) (ResultStream, error)
}

// sliceStream is a ResultStream over pre-collected rows. Used for metadata
// sources that are not row streams (and by tests).
type sliceStream struct {
	cols []ColumnMeta
	rows []map[string]any
	pos  int
}

func NewSliceStream(cols []ColumnMeta, rows []map[string]any) ResultStream {
	return &sliceStream{cols: cols, rows: rows}
}

func (s *sliceStream) Columns() []ColumnMeta { return s.cols }

func (s *sliceStream) Next() (map[string]any, bool) {
	if s.pos >= len(s.rows) {
		return nil, false
	}
	row := s.rows[s.pos]
	s.pos++
	return row, true
}

func (s *sliceStream) Close() error { return nil }

// stringValue extracts a trimmed string cell from a row map. Blank and
// non-string values collapse to "".
func stringValue(row map[string]any, column string) string {
	v, _ := row[column].(string)
	return strings.TrimSpace(v)
}
