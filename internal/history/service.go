package history

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Service tracks the query history of one user, caching it in memory and
// writing through the async store. Read order on a cold cache: pending write
// queue, then disk, then a fresh empty history.
type Service struct {
	user    UserIdentifier
	limit   int
	storage *FileStorage
	async   *AsyncFileStore

	mu     sync.Mutex
	cached *QueryHistory
}

func NewService(user UserIdentifier, storage *FileStorage, async *AsyncFileStore, limit int) *Service {
	return &Service{user: user, limit: limit, storage: storage, async: async}
}

func (s *Service) Supported() bool { return s.storage.Supported() }

// Record appends an executed query and queues the updated history for
// persistence.
func (s *Service) Record(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h := s.readLocked()
	h.Add(query, time.Now(), s.limit)
	s.cached = h
	s.async.Store(s.user, h)
}

// Read returns the user's history, never nil.
func (s *Service) Read() *QueryHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readLocked().Copy()
}

func (s *Service) readLocked() *QueryHistory {
	if s.cached != nil {
		return s.cached
	}
	// History can still sit in the write queue when a session reopens
	// shortly after closing.
	if h := s.async.Pending(s.user); h != nil {
		s.cached = h
		return h
	}
	h, err := s.storage.Read(s.user)
	if err != nil {
		zap.S().Warnw("error reading query history", "user", s.user.String(), "reason", err.Error())
	}
	if h == nil {
		h = &QueryHistory{}
	}
	s.cached = h
	return h
}
