// Package notion implements the content source over the Notion API.
package notion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jomei/notionapi"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.ContentSource = (*Source)(nil)

// Source reads pages and blocks from a Notion database.
type Source struct {
	client *notionapi.Client
	config *Config
	logger *slog.Logger
}

// NewSource creates a Notion content source.
func NewSource(config *Config, logger *slog.Logger) *Source {
	if config == nil {
		config = DefaultConfig()
	}
	if config.PageSize <= 0 || config.PageSize > 100 {
		config.PageSize = 100
	}
	if logger == nil {
		logger = slog.Default()
	}

	var opts []notionapi.ClientOption
	if config.HTTPClient != nil {
		opts = append(opts, notionapi.WithHTTPClient(config.HTTPClient))
	}

	return &Source{
		client: notionapi.NewClient(notionapi.Token(config.Token), opts...),
		config: config,
		logger: logger,
	}
}

// QueryDocuments returns ids of database pages whose status select equals one
// of statuses, following cursors until the listing is exhausted.
func (s *Source) QueryDocuments(ctx context.Context, statuses []domain.WorkflowStatus) ([]string, error) {
	filters := make(notionapi.OrCompoundFilter, 0, len(statuses))
	for _, st := range statuses {
		filters = append(filters, notionapi.PropertyFilter{
			Property: s.config.StatusProperty,
			Select:   &notionapi.SelectFilterCondition{Equals: string(st)},
		})
	}

	var ids []string
	var cursor notionapi.Cursor
	for {
		req := &notionapi.DatabaseQueryRequest{
			StartCursor: cursor,
			PageSize:    s.config.PageSize,
		}
		if len(filters) > 0 {
			req.Filter = filters
		}

		resp, err := s.client.Database.Query(ctx, notionapi.DatabaseID(s.config.DatabaseID), req)
		if err != nil {
			return nil, classify(fmt.Errorf("query database %s: %w", s.config.DatabaseID, err))
		}

		for _, page := range resp.Results {
			ids = append(ids, string(page.ID))
		}

		if !resp.HasMore || resp.NextCursor == "" {
			break
		}
		cursor = resp.NextCursor
	}

	s.logger.Debug("queried documents", "database_id", s.config.DatabaseID, "count", len(ids))
	return ids, nil
}

// GetDocument fetches a page's properties.
func (s *Source) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	page, err := s.client.Page.Get(ctx, notionapi.PageID(id))
	if err != nil {
		return nil, classify(fmt.Errorf("get page %s: %w", id, err))
	}
	return pageToDocument(page, s.config.StatusProperty, s.logger), nil
}

// ListChildren returns one page of a block's children.
func (s *Source) ListChildren(ctx context.Context, blockID, cursor string) (*domain.NodePage, error) {
	resp, err := s.client.Block.GetChildren(ctx, notionapi.BlockID(blockID), &notionapi.Pagination{
		StartCursor: notionapi.Cursor(cursor),
		PageSize:    s.config.PageSize,
	})
	if err != nil {
		return nil, classify(fmt.Errorf("list children of %s: %w", blockID, err))
	}

	page := &domain.NodePage{
		Nodes:      make([]domain.Node, 0, len(resp.Results)),
		NextCursor: string(resp.NextCursor),
		HasMore:    resp.HasMore,
	}
	for _, b := range resp.Results {
		page.Nodes = append(page.Nodes, convertBlock(b))
	}
	return page, nil
}

// GetNode fetches a single block.
func (s *Source) GetNode(ctx context.Context, id string) (domain.Node, error) {
	b, err := s.client.Block.Get(ctx, notionapi.BlockID(id))
	if err != nil {
		return nil, classify(fmt.Errorf("get block %s: %w", id, err))
	}
	return convertBlock(b), nil
}

// UpdateStatus writes the workflow status as a select option.
func (s *Source) UpdateStatus(ctx context.Context, id string, status domain.WorkflowStatus) error {
	_, err := s.client.Page.Update(ctx, notionapi.PageID(id), &notionapi.PageUpdateRequest{
		Properties: notionapi.Properties{
			s.config.StatusProperty: notionapi.SelectProperty{
				Type:   notionapi.PropertyTypeSelect,
				Select: notionapi.Option{Name: string(status)},
			},
		},
	})
	if err != nil {
		return classify(fmt.Errorf("update status of %s: %w", id, err))
	}
	return nil
}

// classify maps API failures onto domain errors, keeping the original chain.
func classify(err error) error {
	var apiErr *notionapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.Status {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", domain.ErrNotFound, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	default:
		return err
	}
}
