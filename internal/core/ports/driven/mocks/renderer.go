package mocks

import (
	"context"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// MockReferenceResolver resolves from a fixed table.
type MockReferenceResolver struct {
	References map[string]domain.Reference
	ResolveFn  func(id string) (domain.Reference, error)
}

func NewMockReferenceResolver() *MockReferenceResolver {
	return &MockReferenceResolver{References: make(map[string]domain.Reference)}
}

func (m *MockReferenceResolver) Resolve(ctx context.Context, id string) (domain.Reference, error) {
	if m.ResolveFn != nil {
		return m.ResolveFn(id)
	}
	ref, ok := m.References[id]
	if !ok {
		return domain.Reference{}, domain.ErrNotFound
	}
	return ref, nil
}

// MockRenderer returns a canned body per document id.
type MockRenderer struct {
	Bodies           map[string]string
	RenderDocumentFn func(doc *domain.Document) (string, error)
}

func NewMockRenderer() *MockRenderer {
	return &MockRenderer{Bodies: make(map[string]string)}
}

func (m *MockRenderer) RenderDocument(ctx context.Context, doc *domain.Document) (string, error) {
	if m.RenderDocumentFn != nil {
		return m.RenderDocumentFn(doc)
	}
	return m.Bodies[doc.ID], nil
}
