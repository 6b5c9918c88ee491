package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists keys as a flat JSON object in a single file. A
// missing, unreadable, or corrupt file is treated as an empty store; write
// failures are swallowed so a full disk never breaks the wizard.
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// NewFileStore opens (or lazily creates) a file-backed store at path.
func NewFileStore(path string) *FileStore {
	s := &FileStore{path: path, values: make(map[string]string)}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return s
	}
	var loaded map[string]string
	if err := json.Unmarshal(data, &loaded); err != nil || loaded == nil {
		return s
	}
	s.values = loaded
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	s.flush()
}

func (s *FileStore) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	s.flush()
}

// flush writes the current map to disk. Caller holds the lock.
func (s *FileStore) flush() {
	data, err := json.Marshal(s.values)
	if err != nil {
		return
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return
	}
	_ = os.Rename(tmp, s.path)
}
