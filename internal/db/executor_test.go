package db

import (
	"errors"
	"fmt"
	"testing"
)

// fakeTransport answers stubbed CQL texts with canned result streams and
// fails everything else. Recording the issued queries lets tests assert the
// exact metadata statements a catalog sends.
type fakeTransport struct {
	queries   []string
	responses map[string]fakeResult
}

type fakeResult struct {
	cols []ColumnMeta
	rows []map[string]any
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{responses: make(map[string]fakeResult)}
}

func (f *fakeTransport) stub(cqlText string, cols []ColumnMeta, rows ...map[string]any) {
	f.responses[cqlText] = fakeResult{cols: cols, rows: rows}
}

// stubNames stubs a single-column listing result.
func (f *fakeTransport) stubNames(cqlText, column string, names ...string) {
	rows := make([]map[string]any, len(names))
	for i, name := range names {
		rows[i] = map[string]any{column: name}
	}
	f.stub(cqlText, []ColumnMeta{{Name: column}}, rows...)
}

func (f *fakeTransport) Execute(cqlText string) (ResultStream, error) {
	f.queries = append(f.queries, cqlText)
	r, ok := f.responses[cqlText]
	if !ok {
		return nil, fmt.Errorf("unconfigured statement: %s", cqlText)
	}
	return NewSliceStream(r.cols, r.rows), nil
}

func TestExecuteSilent(t *testing.T) {
	transport := newFakeTransport()
	transport.stubNames("select keyspace_name from system_schema.keyspaces", "keyspace_name", "demo")
	exec := NewExecutor(transport)

	stream, ok := exec.ExecuteSilent("select keyspace_name from system_schema.keyspaces")
	if !ok {
		t.Fatal("expected ok for stubbed statement")
	}
	row, more := stream.Next()
	if !more || row["keyspace_name"] != "demo" {
		t.Errorf("unexpected row: %v", row)
	}

	stream, ok = exec.ExecuteSilent("select * from nowhere")
	if ok || stream != nil {
		t.Error("expected absent result for failing statement")
	}
}

func TestExecuteWrapsError(t *testing.T) {
	exec := NewExecutor(newFakeTransport())

	stream, err := exec.Execute("select * from broken")
	if stream != nil {
		t.Error("expected nil stream on error")
	}
	var queryErr *QueryError
	if !errors.As(err, &queryErr) {
		t.Fatalf("expected *QueryError, got %T", err)
	}
	if queryErr.CQL != "select * from broken" {
		t.Errorf("QueryError.CQL = %q", queryErr.CQL)
	}
	if queryErr.Cause == nil || errors.Unwrap(queryErr) != queryErr.Cause {
		t.Error("QueryError must unwrap to its cause")
	}
}

func TestExecuteSuccess(t *testing.T) {
	transport := newFakeTransport()
	transport.stub("select id from users",
		[]ColumnMeta{{Name: "id"}},
		map[string]any{"id": 1})
	exec := NewExecutor(transport)

	stream, err := exec.Execute("select id from users")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	row, ok := stream.Next()
	if !ok || row["id"] != 1 {
		t.Errorf("unexpected row: %v", row)
	}
}

func TestQueryErrorMessage(t *testing.T) {
	err := &QueryError{CQL: "select 1", Cause: errors.New("timeout")}
	expected := "error executing CQL: 'select 1', reason: timeout"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}
