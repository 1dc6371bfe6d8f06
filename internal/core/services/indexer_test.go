package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven/mocks"
)

func testRecords(n int) []*domain.CaseRecord {
	recs := make([]*domain.CaseRecord, n)
	for i := range recs {
		recs[i] = &domain.CaseRecord{
			ID:            fmt.Sprintf("rec-%d", i),
			SubModuleName: "Robbery",
			FormData:      domain.FormData{"Name of the victim": fmt.Sprintf("Victim %d", i)},
		}
	}
	return recs
}

func TestIndexSynchronizer_Resync(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(25)...)
	engine := mocks.NewMockSearchEngine()

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records:   records,
		Engine:    engine,
		BatchSize: 10,
	})

	result, err := syncer.Resync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DocumentsIndexed != 25 {
		t.Errorf("expected 25 documents indexed, got %d", result.DocumentsIndexed)
	}
	if result.Batches != 3 {
		t.Errorf("expected 3 batches, got %d", result.Batches)
	}
	if engine.Count() != 25 {
		t.Errorf("expected 25 documents in engine, got %d", engine.Count())
	}

	batches := engine.Batches()
	if len(batches) != 3 {
		t.Fatalf("expected 3 batches received, got %d", len(batches))
	}
	if len(batches[0]) != 10 || len(batches[1]) != 10 || len(batches[2]) != 5 {
		t.Errorf("expected batch sizes 10/10/5, got %d/%d/%d",
			len(batches[0]), len(batches[1]), len(batches[2]))
	}
}

func TestIndexSynchronizer_ResyncIdempotent(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(25)...)
	engine := mocks.NewMockSearchEngine()

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records:   records,
		Engine:    engine,
		BatchSize: 10,
	})

	first, err := syncer.Resync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := syncer.Resync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Same source, same counts; re-indexing overwrites by id instead of
	// duplicating documents
	if first.DocumentsIndexed != second.DocumentsIndexed {
		t.Errorf("expected equal counts across runs, got %d then %d",
			first.DocumentsIndexed, second.DocumentsIndexed)
	}
	if second.DocumentsIndexed != 25 {
		t.Errorf("expected 25 documents on second run, got %d", second.DocumentsIndexed)
	}
	if engine.Count() != 25 {
		t.Errorf("expected exactly one document per id, got %d in engine", engine.Count())
	}
	for i := 0; i < 25; i++ {
		id := fmt.Sprintf("rec-%d", i)
		if engine.Get(id) == nil {
			t.Errorf("expected document %s present after second resync", id)
		}
	}
}

func TestIndexSynchronizer_EmptyStore(t *testing.T) {
	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: mocks.NewMockCaseRecordStore(),
		Engine:  mocks.NewMockSearchEngine(),
	})

	result, err := syncer.Resync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DocumentsIndexed != 0 || result.Batches != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestIndexSynchronizer_PartialFailure(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(25)...)
	engine := mocks.NewMockSearchEngine()

	// Second batch fails its task
	var calls int
	engine.WaitForTaskFn = func(ctx context.Context, task domain.TaskHandle) error {
		calls++
		if calls == 2 {
			return errors.New("index write rejected")
		}
		return nil
	}

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records:   records,
		Engine:    engine,
		BatchSize: 10,
	})

	_, err := syncer.Resync(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var partial *domain.PartialIndexError
	if !errors.As(err, &partial) {
		t.Fatalf("expected PartialIndexError, got %T: %v", err, err)
	}
	if partial.DocumentsIndexed != 10 {
		t.Errorf("expected 10 committed documents, got %d", partial.DocumentsIndexed)
	}
	if partial.FailedBatch != 2 {
		t.Errorf("expected failing batch 2, got %d", partial.FailedBatch)
	}
	// No batch after the failing one was sent
	if got := len(engine.Batches()); got != 2 {
		t.Errorf("expected 2 batches sent, got %d", got)
	}
}

func TestIndexSynchronizer_SourceFailure(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.ListEligibleFn = func(ctx context.Context) ([]*domain.CaseRecord, error) {
		return nil, errors.New("connection refused")
	}

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: records,
		Engine:  mocks.NewMockSearchEngine(),
	})

	_, err := syncer.Resync(context.Background())
	var upstream *domain.UpstreamError
	if !errors.As(err, &upstream) {
		t.Fatalf("expected UpstreamError, got %T: %v", err, err)
	}
	if upstream.Collaborator != "postgres" {
		t.Errorf("expected postgres collaborator, got %s", upstream.Collaborator)
	}
}

func TestIndexSynchronizer_SingleFlight(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(5)...)
	engine := mocks.NewMockSearchEngine()

	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	engine.AddDocumentsFn = func(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error) {
		once.Do(func() { close(started) })
		<-release
		return 1, nil
	}

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: records,
		Engine:  engine,
	})

	errCh := make(chan error, 1)
	go func() {
		_, err := syncer.Resync(context.Background())
		errCh <- err
	}()

	<-started
	if !syncer.Running() {
		t.Error("expected Running() true while resync in flight")
	}

	// Second invocation is rejected immediately
	_, err := syncer.Resync(context.Background())
	if !errors.Is(err, domain.ErrResyncInProgress) {
		t.Errorf("expected ErrResyncInProgress, got %v", err)
	}

	close(release)
	if err := <-errCh; err != nil {
		t.Fatalf("unexpected error from first resync: %v", err)
	}
	if syncer.Running() {
		t.Error("expected Running() false after resync completes")
	}
}

func TestIndexSynchronizer_DistributedLock(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(3)...)
	lock := mocks.NewMockDistributedLock()

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: records,
		Engine:  mocks.NewMockSearchEngine(),
		Lock:    lock,
	})

	// Lock held elsewhere: rejected without touching the store
	lock.SetLockHeld("caseindex:resync", time.Minute)
	_, err := syncer.Resync(context.Background())
	if !errors.Is(err, domain.ErrResyncInProgress) {
		t.Fatalf("expected ErrResyncInProgress, got %v", err)
	}

	// Lock free: resync runs and releases afterwards
	lock.Reset()
	result, err := syncer.Resync(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.DocumentsIndexed != 3 {
		t.Errorf("expected 3 documents, got %d", result.DocumentsIndexed)
	}
	if lock.IsHeld("caseindex:resync") {
		t.Error("expected lock released after resync")
	}
}

func TestIndexSynchronizer_LockKeepAlive(t *testing.T) {
	records := mocks.NewMockCaseRecordStore()
	records.Add(testRecords(3)...)
	engine := mocks.NewMockSearchEngine()

	// Slow batch write so the keep-alive ticker fires mid-resync
	engine.AddDocumentsFn = func(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error) {
		time.Sleep(50 * time.Millisecond)
		return 1, nil
	}

	lock := mocks.NewMockDistributedLock()
	var extends atomic.Int32
	lock.ExtendFn = func(name string, ttl time.Duration) error {
		extends.Add(1)
		return nil
	}

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: records,
		Engine:  engine,
		Lock:    lock,
	})
	syncer.lockExtend = 5 * time.Millisecond

	if _, err := syncer.Resync(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if extends.Load() == 0 {
		t.Error("expected the lock TTL to be extended during the resync")
	}
}

func TestIndexSynchronizer_EnsureIndex(t *testing.T) {
	engine := mocks.NewMockSearchEngine()
	var settingsApplied bool
	engine.UpdateSettingsFn = func(ctx context.Context, settings domain.IndexSettings) error {
		settingsApplied = true
		if len(settings.FilterableAttributes) == 0 {
			t.Error("expected filterable attributes in settings")
		}
		return nil
	}

	syncer := NewIndexSynchronizer(IndexSynchronizerConfig{
		Records: mocks.NewMockCaseRecordStore(),
		Engine:  engine,
	})

	if err := syncer.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !settingsApplied {
		t.Error("expected settings applied")
	}

	// An existing index is not an error
	engine.CreateIndexFn = func(ctx context.Context) error {
		return fmt.Errorf("index incidents: %w", domain.ErrAlreadyExists)
	}
	if err := syncer.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("expected existing index tolerated, got %v", err)
	}

	// Any other engine failure propagates
	engine.CreateIndexFn = func(ctx context.Context) error {
		return errors.New("engine down")
	}
	if err := syncer.EnsureIndex(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}
