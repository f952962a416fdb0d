package services

import (
	"fmt"
	"strings"

	"github.com/Sharknia/nolog/internal/core/domain"
)

// PathBuilder derives a document's output path: an optional prefix built from
// named properties followed by the slugified title.
type PathBuilder struct {
	components []string
}

// NewPathBuilder creates a path builder. Each component names a property whose
// scalar value becomes one directory level of the prefix.
func NewPathBuilder(components []string) *PathBuilder {
	return &PathBuilder{components: append([]string(nil), components...)}
}

// Build returns the slash-separated output path for doc.
func (b *PathBuilder) Build(doc *domain.Document) (string, error) {
	parts := make([]string, 0, len(b.components)+1)

	for _, name := range b.components {
		value, ok := doc.Properties.Get(name)
		if !ok {
			return "", fmt.Errorf("%w: property %q does not exist", domain.ErrInvalidPathComponent, name)
		}
		if value.Kind() == domain.PropertyStrings {
			return "", fmt.Errorf("%w: property %q is an array", domain.ErrInvalidPathComponent, name)
		}
		s, ok := value.Scalar()
		if !ok {
			return "", fmt.Errorf("%w: property %q is not a string", domain.ErrInvalidPathComponent, name)
		}
		s = strings.Trim(strings.TrimSpace(s), "/")
		if s == "" {
			return "", fmt.Errorf("%w: property %q is empty", domain.ErrInvalidPathComponent, name)
		}
		parts = append(parts, s)
	}

	slug := domain.Slugify(doc.Title)
	if slug == "" {
		return "", fmt.Errorf("document %s: %w", doc.ID, domain.ErrEmptyTitle)
	}
	return strings.Join(append(parts, slug), "/"), nil
}
