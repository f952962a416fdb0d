package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Sharknia/nolog/internal/adapters/driven/assets"
	"github.com/Sharknia/nolog/internal/adapters/driven/filesystem"
	"github.com/Sharknia/nolog/internal/adapters/driven/notion"
	"github.com/Sharknia/nolog/internal/adapters/driven/postgres"
	"github.com/Sharknia/nolog/internal/adapters/driven/retry"
	redisadapter "github.com/Sharknia/nolog/internal/adapters/driven/redis"
	"github.com/Sharknia/nolog/internal/config"
	"github.com/Sharknia/nolog/internal/core/ports/driven"
	"github.com/Sharknia/nolog/internal/core/services"
	"github.com/Sharknia/nolog/internal/markdown"
)

// app is the wired process: one instance per command invocation.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	engine   *services.SyncEngine
	metadata *services.MetadataStore
	closers  []io.Closer
}

func setup(ctx context.Context, opts *options, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}

	logger := newLogger(cfg.Log, opts.verbose, logOut)
	slog.SetDefault(logger)

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newLogger builds the slog handler selected by cfg. verbose forces debug.
func newLogger(cfg config.LogConfig, verbose bool, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: logger}

	repo, lock, err := a.backends(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	policy := retry.Policy{
		MaxAttempts: cfg.Retry.MaxAttempts,
		Delay:       cfg.Retry.Delay(),
		Backoff:     cfg.Retry.Backoff,
	}

	notionCfg := notion.DefaultConfig()
	notionCfg.Token = cfg.NotionKey
	notionCfg.DatabaseID = cfg.DatabaseID
	notionCfg.StatusProperty = cfg.StatusProperty

	source := retry.NewContentSource(notion.NewSource(notionCfg, logger), policy, logger)
	fetcher := retry.NewAssetFetcher(assets.NewFetcher(assets.Config{}), policy, logger)
	output := filesystem.NewOutputStore(cfg.SaveDir)
	paths := services.NewPathBuilder(cfg.SubDirComponents())

	a.metadata = services.NewMetadataStore(services.MetadataStoreConfig{
		Repository: repo,
		Output:     output,
		Owner:      cfg.Owner,
		Logger:     logger,
	})

	resolver := services.NewReferenceResolver(services.ReferenceResolverConfig{
		Source: source,
		Paths:  paths,
		Logger: logger,
	})

	renderer := markdown.NewRenderer(markdown.Config{
		Source:   source,
		Assets:   fetcher,
		Output:   output,
		Resolver: resolver,
		BaseURL:  cfg.BlogURL,
		Logger:   logger,
	})

	a.engine = services.NewSyncEngine(services.SyncEngineConfig{
		Source:   source,
		Renderer: renderer,
		Output:   output,
		Metadata: a.metadata,
		Paths:    paths,
		Lock:     lock,
		Owner:    cfg.Owner,
		Logger:   logger,
	})

	logger.Debug("nolog configured",
		"version", version,
		"save_dir", cfg.SaveDir,
		"metadata_backend", cfg.MetadataBackend,
		"lock", lock != nil)
	return a, nil
}

// backends picks the metadata repository and, when a shared store is
// configured, the sync lock. Redis wins over Postgres for the lock.
func (a *app) backends(ctx context.Context) (driven.MetadataRepository, driven.DistributedLock, error) {
	var (
		repo driven.MetadataRepository
		lock driven.DistributedLock
	)

	if a.cfg.RedisURL != "" {
		client, err := redisadapter.Connect(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, client)
		lock = redisadapter.NewLock(client)
		if a.cfg.MetadataBackend == config.BackendRedis {
			repo = redisadapter.NewMetadataRepository(client, "")
		}
	}

	if a.cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(a.cfg.DatabaseURL))
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db)
		if lock == nil {
			lock = postgres.NewAdvisoryLock(db)
		}
		if a.cfg.MetadataBackend == config.BackendPostgres {
			repo = postgres.NewMetadataRepository(db)
		}
	}

	if a.cfg.MetadataBackend == config.BackendFile {
		repo = filesystem.NewMetadataRepository(a.cfg.MetadataFile)
	}
	if repo == nil {
		return nil, nil, fmt.Errorf("metadata backend %q is not configured", a.cfg.MetadataBackend)
	}
	return repo, lock, nil
}

// Close releases backend connections.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
