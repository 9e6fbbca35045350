package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStorage persists one JSON history file per user under a directory.
// An empty directory means persistence is disabled; all operations then
// degrade to no-ops.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if dir == "" {
		return &FileStorage{}, nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

// Supported reports whether histories are actually written to disk.
func (s *FileStorage) Supported() bool { return s.dir != "" }

func (s *FileStorage) path(user UserIdentifier) string {
	return filepath.Join(s.dir, "history-"+user.String()+".json")
}

// Read loads a user's history. A missing file yields (nil, nil).
func (s *FileStorage) Read(user UserIdentifier) (*QueryHistory, error) {
	if !s.Supported() {
		return nil, nil
	}
	data, err := os.ReadFile(s.path(user))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var h QueryHistory
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, fmt.Errorf("unmarshal history: %w", err)
	}
	return &h, nil
}

// Store writes a user's history atomically (temp file plus rename).
func (s *FileStorage) Store(user UserIdentifier, h *QueryHistory) error {
	if !s.Supported() {
		return nil
	}
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	tmp := s.path(user) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp, s.path(user)); err != nil {
		return fmt.Errorf("rename history: %w", err)
	}
	return nil
}
