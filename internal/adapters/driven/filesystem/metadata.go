package filesystem

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MetadataRepository = (*MetadataRepository)(nil)

// MetadataRepository keeps the snapshot in a single JSON file.
type MetadataRepository struct {
	path string
}

// NewMetadataRepository creates a repository backed by the file at path.
func NewMetadataRepository(path string) *MetadataRepository {
	return &MetadataRepository{path: path}
}

// Load reads the snapshot. A missing or empty file is ErrNotFound and
// unparseable content is ErrInvalidInput.
func (r *MetadataRepository) Load(ctx context.Context) (*domain.MetadataSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read metadata %s: %w", r.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, domain.ErrNotFound
	}

	var snap domain.MetadataSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: parse metadata %s: %w", domain.ErrInvalidInput, r.path, err)
	}
	return &snap, nil
}

// Save writes the snapshot to a temporary sibling and renames it into place.
func (r *MetadataRepository) Save(ctx context.Context, snapshot *domain.MetadataSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create metadata directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp metadata file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write metadata: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close metadata: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("replace metadata %s: %w", r.path, err)
	}
	return nil
}
