package db

import (
	"errors"
	"fmt"
)

// errMissingKeyspace rejects a USE statement without a keyspace name.
var errMissingKeyspace = errors.New("missing keyspace name")

// QueryError is returned when the user's own query fails to run. It carries
// the original CQL text so callers can present it; introspection paths never
// produce it.
type QueryError struct {
	CQL   string
	Cause error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("error executing CQL: '%s', reason: %v", e.CQL, e.Cause)
}

func (e *QueryError) Unwrap() error { return e.Cause }
