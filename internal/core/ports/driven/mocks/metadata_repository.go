package mocks

import (
	"context"
	"sync"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// MockMetadataRepository holds one snapshot in memory.
type MockMetadataRepository struct {
	mu       sync.Mutex
	snapshot *domain.MetadataSnapshot
	saves    int

	LoadFn func() (*domain.MetadataSnapshot, error)
	SaveFn func(snapshot *domain.MetadataSnapshot) error
}

func NewMockMetadataRepository() *MockMetadataRepository {
	return &MockMetadataRepository{}
}

// Seed sets the stored snapshot (for test setup).
func (m *MockMetadataRepository) Seed(snapshot *domain.MetadataSnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = clone(snapshot)
}

func (m *MockMetadataRepository) Load(ctx context.Context) (*domain.MetadataSnapshot, error) {
	if m.LoadFn != nil {
		return m.LoadFn()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return nil, domain.ErrNotFound
	}
	return clone(m.snapshot), nil
}

func (m *MockMetadataRepository) Save(ctx context.Context, snapshot *domain.MetadataSnapshot) error {
	if m.SaveFn != nil {
		return m.SaveFn(snapshot)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshot = clone(snapshot)
	m.saves++
	return nil
}

// Stored returns the last saved snapshot, or nil.
func (m *MockMetadataRepository) Stored() *domain.MetadataSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.snapshot)
}

// Saves returns how many times Save succeeded.
func (m *MockMetadataRepository) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func clone(s *domain.MetadataSnapshot) *domain.MetadataSnapshot {
	if s == nil {
		return nil
	}
	c := domain.NewMetadataSnapshot(s.Owner)
	for id, rec := range s.Records {
		c.Records[id] = rec
	}
	return c
}
