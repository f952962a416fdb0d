package driving

import (
	"context"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// SyncEngine mirrors remote documents into the local output tree
type SyncEngine interface {
	// SyncAll processes every document whose status is Ready or ToBeDeleted.
	// Per-document failures are counted in the result and do not abort the batch.
	SyncAll(ctx context.Context) (*domain.SyncResult, error)

	// SyncDocument processes one document according to its current status.
	SyncDocument(ctx context.Context, id string) (*domain.DocumentResult, error)
}

// MetadataInspector exposes the persisted metadata snapshot
type MetadataInspector interface {
	// Snapshot loads the stored snapshot without modifying it.
	Snapshot(ctx context.Context) (*domain.MetadataSnapshot, error)
}
