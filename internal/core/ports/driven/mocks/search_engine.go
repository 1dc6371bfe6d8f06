package mocks

import (
	"context"
	"strings"
	"sync"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// MockSearchEngine is a mock implementation of SearchEngine for testing.
// Writes record documents in memory keyed by id; Search does naive substring
// matching over searchable text. Behavior hooks let tests inject failures.
type MockSearchEngine struct {
	mu       sync.RWMutex
	docs     map[string]*domain.CaseDocument
	nextTask domain.TaskHandle
	batches  [][]*domain.CaseDocument

	// Custom behavior hooks (optional)
	AddDocumentsFn   func(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error)
	WaitForTaskFn    func(ctx context.Context, task domain.TaskHandle) error
	SearchFn         func(ctx context.Context, query domain.EngineQuery) (*domain.EngineResult, error)
	CreateIndexFn    func(ctx context.Context) error
	UpdateSettingsFn func(ctx context.Context, settings domain.IndexSettings) error
	HealthCheckFn    func(ctx context.Context) error

	// LastQueries records every EngineQuery passed to Search.
	LastQueries []domain.EngineQuery
}

// NewMockSearchEngine creates a new MockSearchEngine
func NewMockSearchEngine() *MockSearchEngine {
	return &MockSearchEngine{
		docs: make(map[string]*domain.CaseDocument),
	}
}

func (m *MockSearchEngine) AddDocuments(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error) {
	if m.AddDocumentsFn != nil {
		return m.AddDocumentsFn(ctx, docs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range docs {
		m.docs[d.ID] = d
	}
	m.batches = append(m.batches, docs)
	m.nextTask++
	return m.nextTask, nil
}

func (m *MockSearchEngine) WaitForTask(ctx context.Context, task domain.TaskHandle) error {
	if m.WaitForTaskFn != nil {
		return m.WaitForTaskFn(ctx, task)
	}
	return nil
}

func (m *MockSearchEngine) Search(ctx context.Context, query domain.EngineQuery) (*domain.EngineResult, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, query)
	}

	m.mu.Lock()
	m.LastQueries = append(m.LastQueries, query)
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	queryLower := strings.ToLower(query.Query)
	var matched []*domain.RankedDocument
	for _, d := range m.docs {
		if strings.Contains(strings.ToLower(d.SearchableText), queryLower) {
			matched = append(matched, &domain.RankedDocument{Document: d, Score: 1.0})
		}
	}

	total := int64(len(matched))
	if query.Offset >= total {
		return &domain.EngineResult{Hits: []*domain.RankedDocument{}, EstimatedTotalHits: total}, nil
	}
	end := query.Offset + query.Limit
	if query.Limit <= 0 || end > total {
		end = total
	}
	return &domain.EngineResult{
		Hits:               matched[query.Offset:end],
		EstimatedTotalHits: total,
	}, nil
}

func (m *MockSearchEngine) CreateIndex(ctx context.Context) error {
	if m.CreateIndexFn != nil {
		return m.CreateIndexFn(ctx)
	}
	return nil
}

func (m *MockSearchEngine) UpdateSettings(ctx context.Context, settings domain.IndexSettings) error {
	if m.UpdateSettingsFn != nil {
		return m.UpdateSettingsFn(ctx, settings)
	}
	return nil
}

func (m *MockSearchEngine) Stats(ctx context.Context) (*domain.IndexStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return &domain.IndexStats{NumberOfDocuments: int64(len(m.docs))}, nil
}

func (m *MockSearchEngine) HealthCheck(ctx context.Context) error {
	if m.HealthCheckFn != nil {
		return m.HealthCheckFn(ctx)
	}
	return nil
}

// Helper methods for testing

func (m *MockSearchEngine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = make(map[string]*domain.CaseDocument)
	m.batches = nil
	m.LastQueries = nil
	m.nextTask = 0
}

func (m *MockSearchEngine) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

// Batches returns the document batches received so far, in order.
func (m *MockSearchEngine) Batches() [][]*domain.CaseDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]*domain.CaseDocument, len(m.batches))
	copy(out, m.batches)
	return out
}

// Get returns the indexed document with the given id, or nil.
func (m *MockSearchEngine) Get(id string) *domain.CaseDocument {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[id]
}
