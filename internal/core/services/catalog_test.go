package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// Mock implementations for local testing

// MockRecordStore is a testify mock of driven.CaseRecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) ListEligible(ctx context.Context) ([]*domain.CaseRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.CaseRecord), args.Error(1)
}

func (m *MockRecordStore) ListCategories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockRecordStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockEngine is a testify mock of the engine's health surface
type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) AddDocuments(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error) {
	args := m.Called(ctx, docs)
	return args.Get(0).(domain.TaskHandle), args.Error(1)
}

func (m *MockEngine) WaitForTask(ctx context.Context, task domain.TaskHandle) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockEngine) Search(ctx context.Context, query domain.EngineQuery) (*domain.EngineResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EngineResult), args.Error(1)
}

func (m *MockEngine) CreateIndex(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockEngine) UpdateSettings(ctx context.Context, settings domain.IndexSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *MockEngine) Stats(ctx context.Context) (*domain.IndexStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IndexStats), args.Error(1)
}

func (m *MockEngine) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func TestCatalogService_Categories(t *testing.T) {
	records := new(MockRecordStore)
	engine := new(MockEngine)
	svc := NewCatalogService(records, engine, nil, nil)

	records.On("ListCategories", mock.Anything).Return([]string{"Robbery", "GBV"}, nil)

	names, err := svc.Categories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Robbery", "GBV"}, names)
	records.AssertExpectations(t)
}

func TestCatalogService_CategoriesUpstreamError(t *testing.T) {
	records := new(MockRecordStore)
	engine := new(MockEngine)
	svc := NewCatalogService(records, engine, nil, nil)

	records.On("ListCategories", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.Categories(context.Background())
	require.Error(t, err)

	var upstream *domain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, "postgres", upstream.Collaborator)
}

func TestCatalogService_DatabaseOptions(t *testing.T) {
	svc := NewCatalogService(new(MockRecordStore), new(MockEngine), nil, nil)

	options := svc.DatabaseOptions()
	require.Len(t, options, 7)
	assert.Equal(t, domain.DatabaseAll, options[0])
	assert.Contains(t, options, domain.DatabaseStolenVehicles)
}

func TestCatalogService_Health(t *testing.T) {
	records := new(MockRecordStore)
	engine := new(MockEngine)
	svc := NewCatalogService(records, engine, nil, nil)

	records.On("Ping", mock.Anything).Return(nil)
	engine.On("HealthCheck", mock.Anything).Return(nil)

	status := svc.Health(context.Background())
	assert.True(t, status.Healthy)
	require.Len(t, status.Components, 2)
	for _, comp := range status.Components {
		assert.True(t, comp.Healthy, "component %s", comp.Name)
	}
}

func TestCatalogService_HealthReportsFailingSide(t *testing.T) {
	records := new(MockRecordStore)
	engine := new(MockEngine)
	svc := NewCatalogService(records, engine, nil, nil)

	records.On("Ping", mock.Anything).Return(nil)
	engine.On("HealthCheck", mock.Anything).Return(errors.New("engine down"))

	status := svc.Health(context.Background())
	assert.False(t, status.Healthy)

	byName := make(map[string]domain.ComponentStatus)
	for _, comp := range status.Components {
		byName[comp.Name] = comp
	}
	assert.True(t, byName["postgres"].Healthy)
	assert.False(t, byName["search engine"].Healthy)
	assert.Contains(t, byName["search engine"].Error, "engine down")
}
