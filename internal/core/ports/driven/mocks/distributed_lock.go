package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

var _ driven.DistributedLock = (*MockDistributedLock)(nil)

// MockDistributedLock keeps lock expiries in memory.
type MockDistributedLock struct {
	mu    sync.Mutex
	locks map[string]time.Time

	AcquireFn func(name string, ttl time.Duration) (bool, error)
	ReleaseFn func(name string) error
	PingFn    func() error
}

func NewMockDistributedLock() *MockDistributedLock {
	return &MockDistributedLock{locks: make(map[string]time.Time)}
}

func (m *MockDistributedLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	if m.AcquireFn != nil {
		return m.AcquireFn(name, ttl)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if expiry, ok := m.locks[name]; ok && time.Now().Before(expiry) {
		return false, nil
	}
	m.locks[name] = time.Now().Add(ttl)
	return true, nil
}

func (m *MockDistributedLock) Release(ctx context.Context, name string) error {
	if m.ReleaseFn != nil {
		return m.ReleaseFn(name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, name)
	return nil
}

func (m *MockDistributedLock) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn()
	}
	return nil
}

// IsHeld reports whether name is currently locked.
func (m *MockDistributedLock) IsHeld(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiry, ok := m.locks[name]
	return ok && time.Now().Before(expiry)
}

// SetLockHeld simulates another process holding name.
func (m *MockDistributedLock) SetLockHeld(name string, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locks[name] = time.Now().Add(ttl)
}
