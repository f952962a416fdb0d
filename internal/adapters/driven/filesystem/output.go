// Package filesystem implements output and metadata storage on local disk.
package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.OutputStore = (*OutputStore)(nil)

// OutputStore writes files beneath a root directory.
type OutputStore struct {
	root string
}

// NewOutputStore creates an output store rooted at root.
// The directory is created on first write.
func NewOutputStore(root string) *OutputStore {
	return &OutputStore{root: root}
}

// Root returns the output directory.
func (s *OutputStore) Root() string {
	return s.root
}

// resolve maps a slash-separated relative path to a location under root.
// The root itself is never a valid target.
func (s *OutputStore) resolve(rel string) (string, error) {
	local := filepath.FromSlash(rel)
	if !filepath.IsLocal(local) || filepath.Clean(local) == "." {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsafePath, rel)
	}
	return filepath.Join(s.root, local), nil
}

func (s *OutputStore) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (s *OutputStore) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(target); err != nil {
		return fmt.Errorf("remove %s: %w", path, err)
	}
	return nil
}
