package mocks

import (
	"context"
	"sync"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// MockCaseRecordStore is a mock implementation of CaseRecordStore for testing
type MockCaseRecordStore struct {
	mu      sync.RWMutex
	records []*domain.CaseRecord

	// Custom behavior hooks (optional)
	ListEligibleFn   func(ctx context.Context) ([]*domain.CaseRecord, error)
	ListCategoriesFn func(ctx context.Context) ([]string, error)
	PingFn           func(ctx context.Context) error
}

// NewMockCaseRecordStore creates a new MockCaseRecordStore
func NewMockCaseRecordStore() *MockCaseRecordStore {
	return &MockCaseRecordStore{}
}

func (m *MockCaseRecordStore) ListEligible(ctx context.Context) ([]*domain.CaseRecord, error) {
	if m.ListEligibleFn != nil {
		return m.ListEligibleFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.CaseRecord, len(m.records))
	copy(out, m.records)
	return out, nil
}

func (m *MockCaseRecordStore) ListCategories(ctx context.Context) ([]string, error) {
	if m.ListCategoriesFn != nil {
		return m.ListCategoriesFn(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for _, r := range m.records {
		if !seen[r.SubModuleName] {
			seen[r.SubModuleName] = true
			names = append(names, r.SubModuleName)
		}
	}
	return names, nil
}

func (m *MockCaseRecordStore) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

// Helper methods for testing

func (m *MockCaseRecordStore) Add(records ...*domain.CaseRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
}

func (m *MockCaseRecordStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}
