package services

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driving"
)

// Ensure catalogService implements CatalogService
var _ driving.CatalogService = (*catalogService)(nil)

// catalogService serves the facet vocabulary and collaborator health checks.
type catalogService struct {
	records driven.CaseRecordStore
	engine  driven.SearchEngine
	lock    driven.DistributedLock // optional
	logger  *slog.Logger
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(records driven.CaseRecordStore, engine driven.SearchEngine, lock driven.DistributedLock, logger *slog.Logger) driving.CatalogService {
	if logger == nil {
		logger = slog.Default()
	}
	return &catalogService{records: records, engine: engine, lock: lock, logger: logger}
}

// Categories returns the sub-module names present in the store.
func (c *catalogService) Categories(ctx context.Context) ([]string, error) {
	names, err := c.records.ListCategories(ctx)
	if err != nil {
		return nil, domain.NewUpstreamError("postgres", err)
	}
	return names, nil
}

// DatabaseOptions returns the selectable database-category tokens.
func (c *catalogService) DatabaseOptions() []string {
	return domain.DatabaseOptions()
}

// Health pings every collaborator and reports which ones are down. A failing
// collaborator marks the whole status unhealthy but never errors the call.
func (c *catalogService) Health(ctx context.Context) *domain.HealthStatus {
	status := &domain.HealthStatus{Healthy: true}

	check := func(name string, ping func(context.Context) error) {
		comp := domain.ComponentStatus{Name: name, Healthy: true}
		if err := ping(ctx); err != nil {
			comp.Healthy = false
			comp.Error = err.Error()
			status.Healthy = false
			c.logger.Warn("health check failed", "component", name, "error", err)
		}
		status.Components = append(status.Components, comp)
	}

	check("postgres", c.records.Ping)
	check("search engine", c.engine.HealthCheck)
	if c.lock != nil {
		check("lock", c.lock.Ping)
	}

	return status
}
