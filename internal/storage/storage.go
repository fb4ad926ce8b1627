// Package storage provides the key-value collaborators the board persists through.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("storage: key not found")

// KV is a durable key-value collaborator. The store writes the full board
// envelope under a single fixed key on every mutation and reads it back once
// at startup.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// FileKV stores each key as a JSON file inside a directory. It is the
// default backend, the local analogue of browser local storage.
type FileKV struct {
	dir string
}

// NewFileKV creates a file-backed KV rooted at dir. The directory is created
// on first write, not here.
func NewFileKV(dir string) *FileKV {
	return &FileKV{dir: dir}
}

// Get reads the value stored under key.
func (f *FileKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return data, nil
}

// Set writes value under key, replacing any previous value.
func (f *FileKV) Set(ctx context.Context, key string, value []byte) error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}
	if err := os.WriteFile(f.path(key), value, 0644); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, key+".json")
}

// MemKV is an in-memory KV used by tests and the throwaway "memory" backend.
type MemKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemKV creates an empty in-memory KV.
func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

// Get reads the value stored under key.
func (m *MemKV) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set writes value under key, replacing any previous value.
func (m *MemKV) Set(ctx context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}
