package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
	"github.com/Sharknia/nolog/internal/core/ports/driving"
)

var _ driving.MetadataInspector = (*MetadataStore)(nil)

// MetadataStore tracks where each rendered document lives on disk.
// It is loaded once and saved once per batch. It is not safe for concurrent
// mutation; the sync engine processes one document at a time.
type MetadataStore struct {
	repo     driven.MetadataRepository
	output   driven.OutputStore
	owner    string
	snapshot *domain.MetadataSnapshot
	logger   *slog.Logger
}

// MetadataStoreConfig holds dependencies for MetadataStore.
type MetadataStoreConfig struct {
	Repository driven.MetadataRepository
	Output     driven.OutputStore
	Owner      string
	Logger     *slog.Logger
}

// NewMetadataStore creates a metadata store for the given owner.
func NewMetadataStore(cfg MetadataStoreConfig) *MetadataStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &MetadataStore{
		repo:   cfg.Repository,
		output: cfg.Output,
		owner:  cfg.Owner,
		logger: logger,
	}
}

// Load reads the persisted snapshot. An absent or unreadable snapshot, or one
// written for a different owner, is replaced by an empty one for this owner.
func (s *MetadataStore) Load(ctx context.Context) error {
	snap, err := s.repo.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Info("no metadata found, starting fresh", "owner", s.owner)
		snap = nil
	case errors.Is(err, domain.ErrInvalidInput):
		s.logger.Warn("metadata unreadable, starting fresh", "owner", s.owner, "error", err)
		snap = nil
	case err != nil:
		return fmt.Errorf("load metadata: %w", err)
	}

	if snap != nil && snap.Owner != s.owner {
		s.logger.Warn("metadata owner mismatch, starting fresh",
			"stored_owner", snap.Owner,
			"owner", s.owner,
		)
		snap = nil
	}
	if snap == nil {
		snap = domain.NewMetadataSnapshot(s.owner)
	}
	if snap.Records == nil {
		snap.Records = make(map[string]domain.MetadataRecord)
	}

	s.snapshot = snap
	return nil
}

func (s *MetadataStore) ensure() *domain.MetadataSnapshot {
	if s.snapshot == nil {
		s.snapshot = domain.NewMetadataSnapshot(s.owner)
	}
	return s.snapshot
}

// Get returns the record for id.
func (s *MetadataStore) Get(id string) (domain.MetadataRecord, bool) {
	rec, ok := s.ensure().Records[id]
	return rec, ok
}

// Put stores the record for id, replacing any existing one.
func (s *MetadataStore) Put(id string, rec domain.MetadataRecord) error {
	if id == domain.OwnerKey {
		return fmt.Errorf("%w: %s", domain.ErrReservedKey, id)
	}
	if id == "" {
		return fmt.Errorf("%w: empty metadata key", domain.ErrInvalidInput)
	}
	s.ensure().Records[id] = rec
	return nil
}

// Delete removes the output directory recorded for id and then the record
// itself. A missing record is not an error. If the directory cannot be
// removed the record is kept so a later run can retry.
func (s *MetadataStore) Delete(ctx context.Context, id string) error {
	rec, ok := s.Get(id)
	if !ok {
		return nil
	}

	if rec.Path != "" {
		if err := s.output.RemoveAll(ctx, rec.Path); err != nil {
			return fmt.Errorf("remove output %s: %w", rec.Path, err)
		}
		s.logger.Debug("removed previous output", "document_id", id, "path", rec.Path)
	}

	delete(s.snapshot.Records, id)
	return nil
}

// Save persists the full snapshot.
func (s *MetadataStore) Save(ctx context.Context) error {
	if err := s.repo.Save(ctx, s.ensure()); err != nil {
		return fmt.Errorf("save metadata: %w", err)
	}
	return nil
}

// Records returns a copy of all records.
func (s *MetadataStore) Records() map[string]domain.MetadataRecord {
	snap := s.ensure()
	out := make(map[string]domain.MetadataRecord, len(snap.Records))
	for id, rec := range snap.Records {
		out[id] = rec
	}
	return out
}

// Owner returns the configured owner identity.
func (s *MetadataStore) Owner() string {
	return s.owner
}

// Snapshot reads the persisted snapshot as stored, without owner checks.
func (s *MetadataStore) Snapshot(ctx context.Context) (*domain.MetadataSnapshot, error) {
	snap, err := s.repo.Load(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewMetadataSnapshot(""), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load metadata: %w", err)
	}
	return snap, nil
}
