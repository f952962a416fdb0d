package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

var _ driven.ReferenceResolver = (*ReferenceResolver)(nil)

// ReferenceResolver looks up another document's title and output path from
// its properties alone, never its content. Successful lookups are cached for
// the resolver's lifetime.
type ReferenceResolver struct {
	source driven.ContentSource
	paths  *PathBuilder
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]domain.Reference
}

// ReferenceResolverConfig holds dependencies for ReferenceResolver.
type ReferenceResolverConfig struct {
	Source driven.ContentSource
	Paths  *PathBuilder
	Logger *slog.Logger
}

// NewReferenceResolver creates a cross-reference resolver.
func NewReferenceResolver(cfg ReferenceResolverConfig) *ReferenceResolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &ReferenceResolver{
		source: cfg.Source,
		paths:  cfg.Paths,
		logger: logger,
		cache:  make(map[string]domain.Reference),
	}
}

// Resolve returns the title and output path of the document with the given id.
func (r *ReferenceResolver) Resolve(ctx context.Context, id string) (domain.Reference, error) {
	r.mu.Lock()
	ref, ok := r.cache[id]
	r.mu.Unlock()
	if ok {
		return ref, nil
	}

	doc, err := r.source.GetDocument(ctx, id)
	if err != nil {
		return domain.Reference{}, fmt.Errorf("resolve %s: %w", id, err)
	}

	path, err := r.paths.Build(doc)
	if err != nil {
		return domain.Reference{}, fmt.Errorf("resolve %s: %w", id, err)
	}

	ref = domain.Reference{Title: doc.Title, Path: path}
	r.mu.Lock()
	r.cache[id] = ref
	r.mu.Unlock()

	r.logger.Debug("resolved cross-reference", "target_id", id, "path", path)
	return ref, nil
}
