package retry

import (
	"context"
	"log/slog"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var (
	_ driven.ContentSource = (*ContentSource)(nil)
	_ driven.AssetFetcher  = (*AssetFetcher)(nil)
)

// ContentSource retries every call of the wrapped source under one policy.
type ContentSource struct {
	inner driven.ContentSource
	r     retrier
}

// NewContentSource wraps inner with policy.
func NewContentSource(inner driven.ContentSource, policy Policy, logger *slog.Logger) *ContentSource {
	return &ContentSource{inner: inner, r: newRetrier(policy, logger)}
}

func (s *ContentSource) QueryDocuments(ctx context.Context, statuses []domain.WorkflowStatus) ([]string, error) {
	return do(ctx, s.r, "query_documents", func(ctx context.Context) ([]string, error) {
		return s.inner.QueryDocuments(ctx, statuses)
	})
}

func (s *ContentSource) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	return do(ctx, s.r, "get_document", func(ctx context.Context) (*domain.Document, error) {
		return s.inner.GetDocument(ctx, id)
	})
}

func (s *ContentSource) ListChildren(ctx context.Context, blockID, cursor string) (*domain.NodePage, error) {
	return do(ctx, s.r, "list_children", func(ctx context.Context) (*domain.NodePage, error) {
		return s.inner.ListChildren(ctx, blockID, cursor)
	})
}

func (s *ContentSource) GetNode(ctx context.Context, id string) (domain.Node, error) {
	return do(ctx, s.r, "get_node", func(ctx context.Context) (domain.Node, error) {
		return s.inner.GetNode(ctx, id)
	})
}

func (s *ContentSource) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	_, err := do(ctx, s.r, "update_status", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, s.inner.UpdateStatus(ctx, id, status)
	})
	return err
}

// AssetFetcher retries asset downloads.
type AssetFetcher struct {
	inner driven.AssetFetcher
	r     retrier
}

// NewAssetFetcher wraps inner with policy.
func NewAssetFetcher(inner driven.AssetFetcher, policy Policy, logger *slog.Logger) *AssetFetcher {
	return &AssetFetcher{inner: inner, r: newRetrier(policy, logger)}
}

func (f *AssetFetcher) Fetch(ctx context.Context, url string) (*domain.Asset, error) {
	return do(ctx, f.r, "fetch_asset", func(ctx context.Context) (*domain.Asset, error) {
		return f.inner.Fetch(ctx, url)
	})
}
