package services

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
	"github.com/Sharknia/nolog/internal/core/ports/driving"
)

// IndexFile is the rendered file name inside each document directory.
const IndexFile = "index.md"

// DefaultLockTTL bounds how long a crashed run can block the next one.
const DefaultLockTTL = 30 * time.Minute

var _ driving.SyncEngine = (*SyncEngine)(nil)

// SyncEngine drives the status state machine for each document:
//   - Ready: derive path, remove previous output, render, write index.md,
//     record the path, set status Updated
//   - ToBeDeleted: remove previous output and its record, set status Deleted
//   - anything else: reject the document without touching output or status
//
// Documents are processed one at a time and a failure only skips the
// failing document.
type SyncEngine struct {
	source   driven.ContentSource
	renderer driven.Renderer
	output   driven.OutputStore
	metadata *MetadataStore
	paths    *PathBuilder
	lock     driven.DistributedLock
	lockTTL  time.Duration
	owner    string
	logger   *slog.Logger
}

// SyncEngineConfig holds dependencies for SyncEngine.
type SyncEngineConfig struct {
	Source   driven.ContentSource
	Renderer driven.Renderer
	Output   driven.OutputStore
	Metadata *MetadataStore
	Paths    *PathBuilder
	Lock     driven.DistributedLock // Optional
	LockTTL  time.Duration
	Owner    string
	Logger   *slog.Logger
}

// NewSyncEngine creates a new sync engine.
func NewSyncEngine(cfg SyncEngineConfig) *SyncEngine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := cfg.LockTTL
	if ttl <= 0 {
		ttl = DefaultLockTTL
	}
	paths := cfg.Paths
	if paths == nil {
		paths = NewPathBuilder(nil)
	}

	return &SyncEngine{
		source:   cfg.Source,
		renderer: cfg.Renderer,
		output:   cfg.Output,
		metadata: cfg.Metadata,
		paths:    paths,
		lock:     cfg.Lock,
		lockTTL:  ttl,
		owner:    cfg.Owner,
		logger:   logger,
	}
}

// LockName returns the distributed lock guarding an owner's output tree.
func LockName(owner string) string {
	return "nolog:sync:" + owner
}

// SyncAll queries every Ready or ToBeDeleted document and processes them.
func (e *SyncEngine) SyncAll(ctx context.Context) (*domain.SyncResult, error) {
	return e.run(ctx, func(ctx context.Context) ([]string, error) {
		ids, err := e.source.QueryDocuments(ctx, []domain.WorkflowStatus{
			domain.StatusReady,
			domain.StatusToBeDeleted,
		})
		if err != nil {
			return nil, fmt.Errorf("query documents: %w", err)
		}
		return ids, nil
	})
}

// SyncDocuments processes the given documents as one batch.
func (e *SyncEngine) SyncDocuments(ctx context.Context, ids []string) (*domain.SyncResult, error) {
	return e.run(ctx, func(context.Context) ([]string, error) {
		return ids, nil
	})
}

// run wraps a batch: take the lock, load metadata once, process each
// document, save metadata once.
func (e *SyncEngine) run(ctx context.Context, list func(context.Context) ([]string, error)) (*domain.SyncResult, error) {
	startTime := time.Now()
	e.logger.Info("starting sync", "owner", e.owner)

	if e.lock != nil {
		name := LockName(e.owner)
		acquired, err := e.lock.Acquire(ctx, name, e.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("acquire sync lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("%w: %s", domain.ErrSyncInProgress, e.owner)
		}
		defer func() {
			// A cancelled run still releases the lock
			if err := e.lock.Release(context.WithoutCancel(ctx), name); err != nil {
				e.logger.Warn("failed to release sync lock", "lock", name, "error", err)
			}
		}()
	}

	if err := e.metadata.Load(ctx); err != nil {
		return nil, err
	}

	ids, err := list(ctx)
	if err != nil {
		return nil, err
	}

	result := &domain.SyncResult{Owner: e.owner}
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			e.logger.Warn("sync interrupted", "remaining", len(ids)-len(result.Documents), "error", err)
			break
		}

		doc, err := e.SyncDocument(ctx, id)
		if err != nil {
			e.logger.Error("document sync failed", "document_id", id, "error", err)
		}
		result.Record(doc)
	}

	// Completed documents keep their records after an interruption
	if err := e.metadata.Save(context.WithoutCancel(ctx)); err != nil {
		result.Duration = time.Since(startTime).Seconds()
		return result, err
	}

	result.Duration = time.Since(startTime).Seconds()
	e.logger.Info("sync completed",
		"owner", e.owner,
		"duration_seconds", result.Duration,
		"documents", len(ids),
		"documents_updated", result.Stats.DocumentsUpdated,
		"documents_deleted", result.Stats.DocumentsDeleted,
		"errors", result.Stats.Errors,
	)
	return result, nil
}

// SyncDocument processes one document according to its status. Metadata must
// already be loaded; the caller saves it. The returned result is never nil.
func (e *SyncEngine) SyncDocument(ctx context.Context, id string) (*domain.DocumentResult, error) {
	res := &domain.DocumentResult{DocumentID: id}

	doc, err := e.source.GetDocument(ctx, id)
	if err != nil {
		return e.fail(res, fmt.Errorf("get document: %w", err))
	}
	res.Title = doc.Title

	switch doc.Status {
	case domain.StatusReady:
		err = e.publish(ctx, doc, res)
	case domain.StatusToBeDeleted:
		err = e.remove(ctx, doc, res)
	default:
		err = fmt.Errorf("%w: %q", domain.ErrInvalidStatus, doc.Status)
	}
	if err != nil {
		return e.fail(res, err)
	}
	return res, nil
}

func (e *SyncEngine) fail(res *domain.DocumentResult, err error) (*domain.DocumentResult, error) {
	res.Action = domain.SyncActionFailed
	res.Error = err.Error()
	return res, fmt.Errorf("document %s: %w", res.DocumentID, err)
}

// publish handles Ready -> Updated.
func (e *SyncEngine) publish(ctx context.Context, doc *domain.Document, res *domain.DocumentResult) error {
	// Step 1: Derive output location
	slugPath, err := e.paths.Build(doc)
	if err != nil {
		return err
	}
	doc.Path = slugPath
	doc.IndexKey = doc.ID
	res.Path = slugPath

	// Step 2: Delete previous output
	if err := e.metadata.Delete(ctx, doc.IndexKey); err != nil {
		return err
	}

	// Step 3: Render content
	body, err := e.renderer.RenderDocument(ctx, doc)
	if err != nil {
		return err
	}

	// Step 4: Prepend header
	header, err := FrontMatter(doc.Properties)
	if err != nil {
		return fmt.Errorf("front matter: %w", err)
	}

	// Step 5: Write file
	file := path.Join(slugPath, IndexFile)
	if err := e.output.WriteFile(ctx, file, []byte(header+body)); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}

	// Step 6: Record location
	if err := e.metadata.Put(doc.IndexKey, domain.MetadataRecord{Path: slugPath}); err != nil {
		return err
	}

	// Step 7: Write status back
	if err := e.source.UpdateStatus(ctx, doc.ID, domain.StatusUpdated); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	res.Action = domain.SyncActionUpdated
	e.logger.Info("document published", "document_id", doc.ID, "path", slugPath)
	return nil
}

// remove handles ToBeDeleted -> Deleted.
func (e *SyncEngine) remove(ctx context.Context, doc *domain.Document, res *domain.DocumentResult) error {
	if rec, ok := e.metadata.Get(doc.ID); ok {
		res.Path = rec.Path
	}

	if err := e.metadata.Delete(ctx, doc.ID); err != nil {
		return err
	}

	if err := e.source.UpdateStatus(ctx, doc.ID, domain.StatusDeleted); err != nil {
		return fmt.Errorf("update status: %w", err)
	}

	res.Action = domain.SyncActionDeleted
	e.logger.Info("document deleted", "document_id", doc.ID, "path", res.Path)
	return nil
}
