package driven

import (
	"context"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// MetadataRepository persists the metadata snapshot between runs.
type MetadataRepository interface {
	// Load returns the stored snapshot.
	// Returns domain.ErrNotFound when nothing has been stored yet.
	Load(ctx context.Context) (*domain.MetadataSnapshot, error)

	// Save replaces the stored snapshot.
	Save(ctx context.Context, snapshot *domain.MetadataSnapshot) error
}
