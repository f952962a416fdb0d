package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/Sharknia/nolog/internal/core/domain"
)

func TestMetadataRepository_LoadEmpty(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewMetadataRepository(client, "")

	_, err := repo.Load(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMetadataRepository_SaveAndLoad(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewMetadataRepository(client, "")
	ctx := context.Background()

	snap := domain.NewMetadataSnapshot("blog")
	snap.Records["a1"] = domain.MetadataRecord{Path: "dev/first"}
	snap.Records["b2"] = domain.MetadataRecord{Path: "dev/second"}

	if err := repo.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if got := mr.HGet(DefaultMetadataKey, "a1"); got != `{"path":"dev/first"}` {
		t.Errorf("stored record = %s", got)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Owner != "blog" {
		t.Errorf("Owner = %q, want blog", loaded.Owner)
	}
	if len(loaded.Records) != 2 || loaded.Records["b2"].Path != "dev/second" {
		t.Errorf("unexpected records: %+v", loaded.Records)
	}
}

func TestMetadataRepository_SaveReplaces(t *testing.T) {
	_, client := setupTestRedis(t)
	repo := NewMetadataRepository(client, "custom:key")
	ctx := context.Background()

	first := domain.NewMetadataSnapshot("blog")
	first.Records["gone"] = domain.MetadataRecord{Path: "old"}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	second := domain.NewMetadataSnapshot("blog")
	second.Records["kept"] = domain.MetadataRecord{Path: "new"}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := loaded.Records["gone"]; ok {
		t.Error("records from the previous snapshot should be dropped")
	}
	if loaded.Records["kept"].Path != "new" {
		t.Errorf("expected kept record, got %+v", loaded.Records)
	}
}

func TestMetadataRepository_LoadCorrupt(t *testing.T) {
	mr, client := setupTestRedis(t)
	repo := NewMetadataRepository(client, "")

	mr.HSet(DefaultMetadataKey, "owner", "blog", "a1", "{broken")

	_, err := repo.Load(context.Background())
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
