// Package assets downloads remote files referenced by documents.
package assets

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.AssetFetcher = (*Fetcher)(nil)

const (
	defaultTimeout = 60 * time.Second
	defaultMaxSize = 50 << 20
)

// Config contains configuration for the HTTP fetcher.
type Config struct {
	HTTPClient *http.Client
	MaxSize    int64 // Largest accepted body in bytes
}

// Fetcher downloads assets over HTTP.
type Fetcher struct {
	httpClient *http.Client
	maxSize    int64
}

// NewFetcher creates an HTTP asset fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = defaultMaxSize
	}
	return &Fetcher{httpClient: cfg.HTTPClient, maxSize: cfg.MaxSize}
}

// Fetch downloads url. 404 maps to ErrNotFound and other 4xx to
// ErrInvalidInput; 5xx is returned as a plain error.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrInvalidInput, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", url, domain.ErrNotFound)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, fmt.Errorf("fetch %s: status %d: %w", url, resp.StatusCode, domain.ErrInvalidInput)
	case resp.StatusCode >= 300:
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", url, err)
	}
	if int64(len(data)) > f.maxSize {
		return nil, fmt.Errorf("fetch %s: body exceeds %d bytes: %w", url, f.maxSize, domain.ErrInvalidInput)
	}

	return &domain.Asset{
		Data:        data,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
