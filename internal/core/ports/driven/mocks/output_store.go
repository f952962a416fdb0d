package mocks

import (
	"context"
	"strings"
	"sync"
)

// MockOutputStore keeps written files in memory, keyed by slash path.
type MockOutputStore struct {
	mu      sync.RWMutex
	files   map[string][]byte
	removed []string

	WriteFileFn func(path string, data []byte) error
	RemoveAllFn func(path string) error
}

func NewMockOutputStore() *MockOutputStore {
	return &MockOutputStore{files: make(map[string][]byte)}
}

func (m *MockOutputStore) WriteFile(ctx context.Context, path string, data []byte) error {
	if m.WriteFileFn != nil {
		if err := m.WriteFileFn(path, data); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[path] = append([]byte(nil), data...)
	return nil
}

func (m *MockOutputStore) RemoveAll(ctx context.Context, path string) error {
	if m.RemoveAllFn != nil {
		if err := m.RemoveAllFn(path); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.removed = append(m.removed, path)
	prefix := path + "/"
	for p := range m.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(m.files, p)
		}
	}
	return nil
}

// File returns the content written at path.
func (m *MockOutputStore) File(path string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.files[path]
	return string(data), ok
}

// Paths returns all written paths in sorted order.
func (m *MockOutputStore) Paths() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	sortStrings(paths)
	return paths
}

// Removed returns every path passed to RemoveAll.
func (m *MockOutputStore) Removed() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.removed...)
}
