// Package markdown renders a document's block tree as Markdown.
package markdown

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// IndentWidth is the number of spaces per nesting level for list items and
// code blocks.
const IndentWidth = 4

var _ driven.Renderer = (*Renderer)(nil)

// Renderer walks a document's blocks depth-first and produces Markdown.
// It is safe to reuse across documents; all per-document state lives in a
// session created by RenderDocument.
type Renderer struct {
	source    driven.ContentSource
	assets    driven.AssetFetcher
	output    driven.OutputStore
	formatter *Formatter
	logger    *slog.Logger
}

// Config holds dependencies for Renderer.
type Config struct {
	Source   driven.ContentSource
	Assets   driven.AssetFetcher
	Output   driven.OutputStore
	Resolver driven.ReferenceResolver
	BaseURL  string
	Logger   *slog.Logger
}

// NewRenderer creates a block renderer.
func NewRenderer(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		source: cfg.Source,
		assets: cfg.Assets,
		output: cfg.Output,
		formatter: NewFormatter(FormatterConfig{
			Resolver: cfg.Resolver,
			BaseURL:  cfg.BaseURL,
			Logger:   logger,
		}),
		logger: logger,
	}
}

// Formatter returns the rich text formatter used for block content.
func (r *Renderer) Formatter() *Formatter {
	return r.formatter
}

// RenderDocument renders all top-level blocks of doc. Images are written
// beneath doc.Path. Errors listing children end the render; failures confined
// to one block degrade to empty output for that block.
func (r *Renderer) RenderDocument(ctx context.Context, doc *domain.Document) (string, error) {
	s := &session{
		Renderer: r,
		doc:      doc,
		logger:   r.logger.With("document_id", doc.ID),
	}

	var b strings.Builder
	err := s.eachChild(ctx, doc.ID, func(n domain.Node) error {
		out, err := s.render(ctx, n, 0)
		if err != nil {
			return err
		}
		b.WriteString(out)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("render document %s: %w", doc.ID, err)
	}
	return b.String(), nil
}

// session carries the state of one document render.
type session struct {
	*Renderer
	doc    *domain.Document
	images int
	logger *slog.Logger
}

// eachChild streams a block's children page by page.
func (s *session) eachChild(ctx context.Context, blockID string, fn func(domain.Node) error) error {
	cursor := ""
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		page, err := s.source.ListChildren(ctx, blockID, cursor)
		if err != nil {
			return fmt.Errorf("list children of %s: %w", blockID, err)
		}

		for _, n := range page.Nodes {
			if err := fn(n); err != nil {
				return err
			}
		}

		if !page.HasMore || page.NextCursor == "" {
			return nil
		}
		cursor = page.NextCursor
	}
}

// renderChildren concatenates the children of n rendered at indent.
func (s *session) renderChildren(ctx context.Context, n domain.Node, indent int) (string, error) {
	if !n.HasChildren() {
		return "", nil
	}

	var b strings.Builder
	err := s.eachChild(ctx, n.NodeID(), func(child domain.Node) error {
		out, err := s.render(ctx, child, indent)
		if err != nil {
			return err
		}
		b.WriteString(out)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

func pad(indent int) string {
	return strings.Repeat(" ", indent*IndentWidth)
}
