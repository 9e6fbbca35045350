// Package history keeps a per-user, file-backed record of executed queries.
package history

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserIdentifier names the owner of a history file. It is an opaque identity
// token, not an authenticated principal.
type UserIdentifier struct {
	ID uuid.UUID
}

func NewUserIdentifier() UserIdentifier {
	return UserIdentifier{ID: uuid.New()}
}

func ParseUserIdentifier(text string) (UserIdentifier, error) {
	id, err := uuid.Parse(strings.TrimSpace(text))
	if err != nil {
		return UserIdentifier{}, err
	}
	return UserIdentifier{ID: id}, nil
}

func (u UserIdentifier) String() string { return u.ID.String() }

// Entry is one executed query.
type Entry struct {
	Query      string    `json:"query"`
	ExecutedAt time.Time `json:"executedAt"`
}

// QueryHistory is a newest-first, size-capped list of executed queries with
// no duplicate query texts.
type QueryHistory struct {
	Entries []Entry `json:"entries"`
}

// Add prepends a query, dropping any previous entry with the same text and
// truncating to limit.
func (h *QueryHistory) Add(query string, executedAt time.Time, limit int) {
	kept := make([]Entry, 0, len(h.Entries)+1)
	kept = append(kept, Entry{Query: query, ExecutedAt: executedAt})
	for _, e := range h.Entries {
		if e.Query == query {
			continue
		}
		kept = append(kept, e)
	}
	if limit > 0 && len(kept) > limit {
		kept = kept[:limit]
	}
	h.Entries = kept
}

// Copy returns an independent copy so callers can hand histories across
// goroutines safely.
func (h *QueryHistory) Copy() *QueryHistory {
	entries := make([]Entry, len(h.Entries))
	copy(entries, h.Entries)
	return &QueryHistory{Entries: entries}
}
