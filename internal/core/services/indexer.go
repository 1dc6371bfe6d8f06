package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driving"
)

const (
	// DefaultBatchSize matches the engine's comfortable document-batch size.
	DefaultBatchSize = 1000

	resyncLockName = "caseindex:resync"
	resyncLockTTL  = 30 * time.Minute
)

// Ensure IndexSynchronizer implements the driving port
var _ driving.IndexSynchronizer = (*IndexSynchronizer)(nil)

// IndexSynchronizer rebuilds the search index from the system of record.
// Batches are written and awaited in sequence so a failure leaves a known
// prefix of the data committed.
type IndexSynchronizer struct {
	records   driven.CaseRecordStore
	engine    driven.SearchEngine
	lock      driven.DistributedLock // optional
	mapper    *DocumentMapper
	batchSize int
	logger    *slog.Logger

	// lockExtend is the keep-alive interval for the distributed lock while
	// a resync runs. Must be well under resyncLockTTL.
	lockExtend time.Duration

	running atomic.Bool
}

// IndexSynchronizerConfig holds dependencies for IndexSynchronizer.
type IndexSynchronizerConfig struct {
	Records   driven.CaseRecordStore
	Engine    driven.SearchEngine
	Lock      driven.DistributedLock // nil disables multi-instance locking
	BatchSize int
	Logger    *slog.Logger
}

// NewIndexSynchronizer creates a new index synchronizer.
func NewIndexSynchronizer(cfg IndexSynchronizerConfig) *IndexSynchronizer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &IndexSynchronizer{
		records:    cfg.Records,
		engine:     cfg.Engine,
		lock:       cfg.Lock,
		mapper:     NewDocumentMapper(),
		batchSize:  batchSize,
		logger:     logger,
		lockExtend: resyncLockTTL / 3,
	}
}

// Resync reads every eligible record, maps it, and writes the documents to
// the engine in awaited batches. Only one resync may run at a time; a second
// caller gets domain.ErrResyncInProgress immediately.
func (s *IndexSynchronizer) Resync(ctx context.Context) (*domain.ResyncResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, domain.ErrResyncInProgress
	}
	defer s.running.Store(false)

	if s.lock != nil {
		acquired, err := s.lock.Acquire(ctx, resyncLockName, resyncLockTTL)
		if err != nil {
			return nil, domain.NewUpstreamError("lock", err)
		}
		if !acquired {
			return nil, domain.ErrResyncInProgress
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), resyncLockName); err != nil {
				s.logger.Warn("failed to release resync lock", "error", err)
			}
		}()

		// Keep the lock alive: a resync over a large table can outlive the
		// TTL, and an expired lock would let a second instance start.
		stopExtend := make(chan struct{})
		defer close(stopExtend)
		go s.keepLockAlive(ctx, stopExtend)
	}

	start := time.Now()
	s.logger.Info("starting resync", "batch_size", s.batchSize)

	records, err := s.records.ListEligible(ctx)
	if err != nil {
		return nil, domain.NewUpstreamError("postgres", err)
	}

	docs := s.mapper.MapAll(records)

	indexed := 0
	batches := 0
	for offset := 0; offset < len(docs); offset += s.batchSize {
		end := offset + s.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[offset:end]
		batches++

		if err := s.writeBatch(ctx, batch); err != nil {
			s.logger.Error("resync aborted",
				"batch", batches, "documents_indexed", indexed, "error", err)
			return nil, &domain.PartialIndexError{
				DocumentsIndexed: indexed,
				FailedBatch:      batches,
				Err:              err,
			}
		}

		indexed += len(batch)
		s.logger.Info("batch indexed", "batch", batches, "documents", len(batch))
	}

	result := &domain.ResyncResult{
		DocumentsIndexed: indexed,
		Batches:          batches,
		DurationSeconds:  time.Since(start).Seconds(),
	}
	s.logger.Info("resync complete",
		"documents", result.DocumentsIndexed,
		"batches", result.Batches,
		"duration_seconds", result.DurationSeconds)
	return result, nil
}

// keepLockAlive extends the resync lock TTL until stop closes, so the lock
// cannot expire under a long-running holder.
func (s *IndexSynchronizer) keepLockAlive(ctx context.Context, stop <-chan struct{}) {
	ticker := time.NewTicker(s.lockExtend)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.lock.Extend(ctx, resyncLockName, resyncLockTTL); err != nil {
				s.logger.Warn("failed to extend resync lock", "error", err)
			}
		}
	}
}

// writeBatch enqueues one batch and waits for the engine to commit it.
func (s *IndexSynchronizer) writeBatch(ctx context.Context, batch []*domain.CaseDocument) error {
	task, err := s.engine.AddDocuments(ctx, batch)
	if err != nil {
		return fmt.Errorf("add documents: %w", err)
	}
	if err := s.engine.WaitForTask(ctx, task); err != nil {
		return fmt.Errorf("wait for task %d: %w", task, err)
	}
	return nil
}

// EnsureIndex creates the index and applies its settings. An index that
// already exists is fine; stale settings are overwritten either way.
func (s *IndexSynchronizer) EnsureIndex(ctx context.Context) error {
	if err := s.engine.CreateIndex(ctx); err != nil {
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return domain.NewUpstreamError("search engine", err)
		}
		s.logger.Info("index already exists, updating settings only")
	}
	if err := s.engine.UpdateSettings(ctx, domain.DefaultIndexSettings()); err != nil {
		return domain.NewUpstreamError("search engine", err)
	}
	return nil
}

// Running reports whether a resync is in progress on this instance.
func (s *IndexSynchronizer) Running() bool {
	return s.running.Load()
}
