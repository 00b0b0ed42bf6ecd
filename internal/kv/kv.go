// Package kv provides the key/value capabilities the session layer persists
// through: a durable file-backed store for the credential and an in-memory
// store for per-session flags.
package kv

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a minimal key/value capability. Implementations must be safe for
// concurrent use.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// MemoryStore lives only as long as the process, which makes it the
// session-scoped storage for notification flags.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// FileStore persists its contents as a JSON file so values survive process
// restarts. Every mutation is written through immediately.
type FileStore struct {
	path string
	mu   sync.RWMutex
	data map[string]string
}

func NewFileStore(path string) (*FileStore, error) {
	p := filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory for %s: %w", p, err)
	}

	s := &FileStore{path: p, data: make(map[string]string)}

	raw, err := os.ReadFile(p)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file %s: %w", p, err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("state file %s is corrupt: %w", p, err)
	}
	return s, nil
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return s.persist()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persist()
}

// persist must be called with the write lock held.
func (s *FileStore) persist() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, raw, 0600)
}
