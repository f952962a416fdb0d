package mocks

import (
	"context"
	"strconv"
	"sync"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

var _ driven.ContentSource = (*MockContentSource)(nil)

// MockContentSource is an in-memory ContentSource for testing.
// Children are served in pages of PageSize when it is positive.
type MockContentSource struct {
	mu        sync.RWMutex
	documents map[string]*domain.Document
	children  map[string][]domain.Node
	nodes     map[string]domain.Node
	updates   []StatusUpdate

	PageSize int

	// Custom behavior hooks (optional)
	QueryDocumentsFn func(statuses []domain.WorkflowStatus) ([]string, error)
	GetDocumentFn    func(id string) (*domain.Document, error)
	ListChildrenFn   func(blockID, cursor string) (*domain.NodePage, error)
	GetNodeFn        func(id string) (domain.Node, error)
	UpdateStatusFn   func(id string, status domain.WorkflowStatus) error
}

// StatusUpdate records a call to UpdateStatus.
type StatusUpdate struct {
	ID     string
	Status domain.WorkflowStatus
}

// NewMockContentSource creates an empty MockContentSource.
func NewMockContentSource() *MockContentSource {
	return &MockContentSource{
		documents: make(map[string]*domain.Document),
		children:  make(map[string][]domain.Node),
		nodes:     make(map[string]domain.Node),
	}
}

// AddDocument stores a document and its top-level blocks.
func (m *MockContentSource) AddDocument(doc *domain.Document, blocks ...domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	m.children[doc.ID] = blocks
	for _, b := range blocks {
		m.nodes[b.NodeID()] = b
	}
}

// SetChildren stores the children of a block.
func (m *MockContentSource) SetChildren(blockID string, blocks ...domain.Node) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.children[blockID] = blocks
	for _, b := range blocks {
		m.nodes[b.NodeID()] = b
	}
}

func (m *MockContentSource) QueryDocuments(ctx context.Context, statuses []domain.WorkflowStatus) ([]string, error) {
	if m.QueryDocumentsFn != nil {
		return m.QueryDocumentsFn(statuses)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	var ids []string
	for id, doc := range m.documents {
		for _, s := range statuses {
			if doc.Status == s {
				ids = append(ids, id)
				break
			}
		}
	}
	sortStrings(ids)
	return ids, nil
}

func (m *MockContentSource) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	if m.GetDocumentFn != nil {
		return m.GetDocumentFn(id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Hand out a copy so the engine's derived fields don't leak between runs
	props := domain.NewProperties()
	for _, k := range doc.Properties.Keys() {
		v, _ := doc.Properties.Get(k)
		props.Set(k, v)
	}
	return &domain.Document{
		ID:         doc.ID,
		Title:      doc.Title,
		Status:     doc.Status,
		Properties: props,
	}, nil
}

func (m *MockContentSource) ListChildren(ctx context.Context, blockID, cursor string) (*domain.NodePage, error) {
	if m.ListChildrenFn != nil {
		return m.ListChildrenFn(blockID, cursor)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.children[blockID]
	start := 0
	if cursor != "" {
		n, err := strconv.Atoi(cursor)
		if err != nil || n < 0 || n > len(all) {
			return nil, domain.ErrInvalidInput
		}
		start = n
	}

	end := len(all)
	if m.PageSize > 0 && start+m.PageSize < end {
		end = start + m.PageSize
	}

	page := &domain.NodePage{Nodes: append([]domain.Node(nil), all[start:end]...)}
	if end < len(all) {
		page.HasMore = true
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

func (m *MockContentSource) GetNode(ctx context.Context, id string) (domain.Node, error) {
	if m.GetNodeFn != nil {
		return m.GetNodeFn(id)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.nodes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return n, nil
}

func (m *MockContentSource) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.documents[id]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	m.updates = append(m.updates, StatusUpdate{ID: id, Status: status})
	return nil
}

// Updates returns recorded status write-backs (for test assertions).
func (m *MockContentSource) Updates() []StatusUpdate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]StatusUpdate(nil), m.updates...)
}

// Status returns a document's current status (for test assertions).
func (m *MockContentSource) Status(id string) domain.WorkflowStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if doc, ok := m.documents[id]; ok {
		return doc.Status
	}
	return ""
}
