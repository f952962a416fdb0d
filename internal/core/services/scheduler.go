package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Sharknia/nolog/internal/core/domain"
	"github.com/Sharknia/nolog/internal/core/ports/driving"
)

// Scheduler runs a full sync on a fixed interval.
// Cycles that find the sync lock held by another instance are skipped.
type Scheduler struct {
	engine   driving.SyncEngine
	logger   *slog.Logger
	interval time.Duration
	onResult func(*domain.SyncResult)

	// Internal state
	mu      sync.RWMutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// SchedulerConfig holds configuration for the scheduler.
type SchedulerConfig struct {
	Engine   driving.SyncEngine
	Logger   *slog.Logger
	Interval time.Duration            // How often to sync (default: 5m)
	OnResult func(*domain.SyncResult) // Optional: called after each completed cycle
}

// NewScheduler creates a new scheduler.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	return &Scheduler{
		engine:   cfg.Engine,
		logger:   logger,
		interval: interval,
		onResult: cfg.OnResult,
	}
}

// Start begins the scheduler loop.
// It runs until Stop is called or context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	s.logger.Info("scheduler starting", "interval", s.interval)

	go s.run(ctx)

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running cycle.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	close(s.stopCh)
	s.mu.Unlock()

	<-s.doneCh

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

// Done is closed when the loop exits.
func (s *Scheduler) Done() <-chan struct{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doneCh
}

// IsRunning reports whether the loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.cycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler context cancelled")
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cycle(ctx)
		}
	}
}

func (s *Scheduler) cycle(ctx context.Context) {
	result, err := s.engine.SyncAll(ctx)
	switch {
	case errors.Is(err, domain.ErrSyncInProgress):
		s.logger.Debug("sync lock held by another instance, skipping cycle")
		return
	case err != nil:
		s.logger.Error("scheduled sync failed", "error", err)
		return
	}

	if s.onResult != nil {
		s.onResult(result)
	}
}
