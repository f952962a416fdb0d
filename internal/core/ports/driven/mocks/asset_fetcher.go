package mocks

import (
	"context"
	"sync"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// MockAssetFetcher serves assets from memory and records requested URLs.
type MockAssetFetcher struct {
	mu       sync.Mutex
	assets   map[string]*domain.Asset
	requests []string

	FetchFn func(url string) (*domain.Asset, error)
}

func NewMockAssetFetcher() *MockAssetFetcher {
	return &MockAssetFetcher{assets: make(map[string]*domain.Asset)}
}

// AddAsset registers the payload returned for url.
func (m *MockAssetFetcher) AddAsset(url string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assets[url] = &domain.Asset{Data: data, ContentType: contentType}
}

func (m *MockAssetFetcher) Fetch(ctx context.Context, url string) (*domain.Asset, error) {
	m.mu.Lock()
	m.requests = append(m.requests, url)
	m.mu.Unlock()

	if m.FetchFn != nil {
		return m.FetchFn(url)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.assets[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

// Requests returns every URL passed to Fetch.
func (m *MockAssetFetcher) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.requests...)
}
