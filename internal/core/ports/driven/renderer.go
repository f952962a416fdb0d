package driven

import (
	"context"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// Renderer converts a document's block tree into a Markdown body.
// Each call is an independent session with its own image numbering.
type Renderer interface {
	RenderDocument(ctx context.Context, doc *domain.Document) (string, error)
}

// ReferenceResolver resolves another document's title and output path.
type ReferenceResolver interface {
	Resolve(ctx context.Context, id string) (domain.Reference, error)
}
