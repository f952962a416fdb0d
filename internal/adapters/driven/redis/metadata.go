package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.MetadataRepository = (*MetadataRepository)(nil)

// DefaultMetadataKey is the hash holding the snapshot.
const DefaultMetadataKey = "nolog:metadata"

// MetadataRepository stores the snapshot as one hash: the owner field plus
// one JSON-encoded record per document id.
type MetadataRepository struct {
	client redis.UniversalClient
	key    string
}

// NewMetadataRepository creates a repository on key, or DefaultMetadataKey
// when key is empty.
func NewMetadataRepository(client redis.UniversalClient, key string) *MetadataRepository {
	if key == "" {
		key = DefaultMetadataKey
	}
	return &MetadataRepository{client: client, key: key}
}

func (r *MetadataRepository) Load(ctx context.Context) (*domain.MetadataSnapshot, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("load metadata %s: %w", r.key, err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrNotFound
	}

	snap := domain.NewMetadataSnapshot(fields[domain.OwnerKey])
	for id, raw := range fields {
		if id == domain.OwnerKey {
			continue
		}
		var rec domain.MetadataRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("%w: decode record %s: %w", domain.ErrInvalidInput, id, err)
		}
		snap.Records[id] = rec
	}
	return snap, nil
}

// Save replaces the hash in one transaction.
func (r *MetadataRepository) Save(ctx context.Context, snapshot *domain.MetadataSnapshot) error {
	values := make([]any, 0, 2*(len(snapshot.Records)+1))
	values = append(values, domain.OwnerKey, snapshot.Owner)
	for _, id := range snapshot.IDs() {
		data, err := json.Marshal(snapshot.Records[id])
		if err != nil {
			return fmt.Errorf("encode record %s: %w", id, err)
		}
		values = append(values, id, string(data))
	}

	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key, values...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save metadata %s: %w", r.key, err)
	}
	return nil
}
