package db

import (
	"go.uber.org/zap"
)

// Executor sends CQL text to the backing store with two failure contracts:
// ExecuteSilent collapses every failure into an absent result (introspection
// and listing paths), Execute surfaces a typed QueryError (the query the
// user explicitly asked to run). Neither retries; retry policy, if any,
// belongs to the transport.
type Executor struct {
	transport Transport
}

func NewExecutor(transport Transport) *Executor {
	return &Executor{transport: transport}
}

// ExecuteSilent runs cqlText and reports ok=false on any transport error,
// logging a warning instead of propagating it.
func (e *Executor) ExecuteSilent(cqlText string) (ResultStream, bool) {
	zap.S().Debugw("executing", "cql", cqlText)
	stream, err := e.transport.Execute(cqlText)
	if err != nil {
		zap.S().Warnw("error executing CQL", "cql", cqlText, "reason", err.Error())
		return nil, false
	}
	return stream, true
}

// Execute runs cqlText and wraps any transport error into a QueryError
// carrying the original text.
func (e *Executor) Execute(cqlText string) (ResultStream, error) {
	zap.S().Debugw("executing", "cql", cqlText)
	stream, err := e.transport.Execute(cqlText)
	if err != nil {
		return nil, &QueryError{CQL: cqlText, Cause: err}
	}
	return stream, nil
}
