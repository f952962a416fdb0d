package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MetadataRepository = (*MetadataRepository)(nil)

// MetadataRepository stores one row per snapshot entry: the owner row and one
// row per document id.
type MetadataRepository struct {
	db *DB
}

// NewMetadataRepository creates a repository on the nolog_metadata table.
func NewMetadataRepository(db *DB) *MetadataRepository {
	return &MetadataRepository{db: db}
}

func (r *MetadataRepository) Load(ctx context.Context) (*domain.MetadataSnapshot, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT key, value FROM nolog_metadata`)
	if err != nil {
		return nil, fmt.Errorf("query metadata: %w", err)
	}
	defer rows.Close()

	var snap *domain.MetadataSnapshot
	records := make(map[string]domain.MetadataRecord)
	var owner string
	count := 0

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan metadata: %w", err)
		}
		count++

		if key == domain.OwnerKey {
			if err := json.Unmarshal(value, &owner); err != nil {
				return nil, fmt.Errorf("%w: decode owner: %w", domain.ErrInvalidInput, err)
			}
			continue
		}

		var rec domain.MetadataRecord
		if err := json.Unmarshal(value, &rec); err != nil {
			return nil, fmt.Errorf("%w: decode record %s: %w", domain.ErrInvalidInput, key, err)
		}
		records[key] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metadata: %w", err)
	}

	if count == 0 {
		return nil, domain.ErrNotFound
	}

	snap = domain.NewMetadataSnapshot(owner)
	snap.Records = records
	return snap, nil
}

// Save replaces all rows in one transaction.
func (r *MetadataRepository) Save(ctx context.Context, snapshot *domain.MetadataSnapshot) error {
	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM nolog_metadata`); err != nil {
			return fmt.Errorf("clear metadata: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `INSERT INTO nolog_metadata (key, value) VALUES ($1, $2)`)
		if err != nil {
			return fmt.Errorf("prepare insert: %w", err)
		}
		defer stmt.Close()

		owner, err := json.Marshal(snapshot.Owner)
		if err != nil {
			return fmt.Errorf("encode owner: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, domain.OwnerKey, owner); err != nil {
			return fmt.Errorf("insert owner: %w", err)
		}

		for _, id := range snapshot.IDs() {
			value, err := json.Marshal(snapshot.Records[id])
			if err != nil {
				return fmt.Errorf("encode record %s: %w", id, err)
			}
			if _, err := stmt.ExecContext(ctx, id, value); err != nil {
				return fmt.Errorf("insert record %s: %w", id, err)
			}
		}
		return nil
	})
}
