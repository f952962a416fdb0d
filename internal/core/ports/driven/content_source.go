package driven

import (
	"context"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// ContentSource reads documents and their block trees from the remote store.
// Implementations map transport failures onto domain errors: a missing
// document is domain.ErrNotFound, a rejected credential is
// domain.ErrUnauthorized.
type ContentSource interface {
	// QueryDocuments returns the ids of documents whose workflow status is one
	// of the given statuses.
	QueryDocuments(ctx context.Context, statuses []domain.WorkflowStatus) ([]string, error)

	// GetDocument fetches a document's title, status and properties.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListChildren returns one page of a block's children.
	// Pass an empty cursor for the first page.
	ListChildren(ctx context.Context, blockID, cursor string) (*domain.NodePage, error)

	// GetNode fetches a single block by id.
	GetNode(ctx context.Context, id string) (domain.Node, error)

	// UpdateStatus writes the workflow status back to the document.
	UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error
}

// AssetFetcher downloads binary assets such as images.
type AssetFetcher interface {
	Fetch(ctx context.Context, url string) (*domain.Asset, error)
}
