package history

import (
	"sync"

	"go.uber.org/zap"
)

// AsyncFileStore decouples history writes from the request path: Store only
// records the latest history per user, a background goroutine flushes it to
// disk. Only the newest pending history per user is kept, earlier ones are
// superseded.
type AsyncFileStore struct {
	storage *FileStorage

	mu      sync.Mutex
	pending map[UserIdentifier]*QueryHistory

	wake chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewAsyncFileStore(storage *FileStorage) *AsyncFileStore {
	s := &AsyncFileStore{
		storage: storage,
		pending: make(map[UserIdentifier]*QueryHistory),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	s.wg.Add(1)
	go s.run()
	return s
}

// Store queues a history for writing and returns immediately.
func (s *AsyncFileStore) Store(user UserIdentifier, h *QueryHistory) {
	s.mu.Lock()
	s.pending[user] = h.Copy()
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Pending returns the queued-but-unflushed history for a user, if any. The
// read path consults it so a history is never lost between queue and disk.
func (s *AsyncFileStore) Pending(user UserIdentifier) *QueryHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.pending[user]; ok {
		return h.Copy()
	}
	return nil
}

// Flush writes all queued histories to disk.
func (s *AsyncFileStore) Flush() {
	s.mu.Lock()
	batch := s.pending
	s.pending = make(map[UserIdentifier]*QueryHistory)
	s.mu.Unlock()

	for user, h := range batch {
		if err := s.storage.Store(user, h); err != nil {
			zap.S().Warnw("error storing query history", "user", user.String(), "reason", err.Error())
		}
	}
}

// Close flushes outstanding writes and stops the background goroutine.
func (s *AsyncFileStore) Close() {
	close(s.done)
	s.wg.Wait()
	s.Flush()
}

func (s *AsyncFileStore) run() {
	defer s.wg.Done()
	for {
		select {
		case <-s.wake:
			s.Flush()
		case <-s.done:
			return
		}
	}
}
