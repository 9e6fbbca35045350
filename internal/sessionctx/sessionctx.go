// Package sessionctx holds per-user session state for the query layer.
// This is separate from the database session: one Context belongs to one
// logical user and is passed explicitly into every Execute call, so USE
// queries never mutate state shared between users.
package sessionctx

import (
	"sync"

	"github.com/cqlview/cqlview/internal/cql"
)

// Context is the caller-owned session state. Safe for concurrent use.
type Context struct {
	mu             sync.RWMutex
	activeKeyspace cql.Keyspace
}

// New creates a session context, optionally seeded with a keyspace.
func New(keyspace cql.Keyspace) *Context {
	return &Context{activeKeyspace: keyspace}
}

// ActiveKeyspace returns the keyspace selected by the last USE query, or ""
// when none was selected.
func (c *Context) ActiveKeyspace() cql.Keyspace {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.activeKeyspace
}

// SetActiveKeyspace records the keyspace selected by a USE query.
func (c *Context) SetActiveKeyspace(keyspace cql.Keyspace) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeKeyspace = keyspace
}
