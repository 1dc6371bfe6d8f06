package driving

import (
	"context"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// CatalogService exposes the static facet vocabulary and collaborator health.
type CatalogService interface {
	// Categories returns the sub-module names available as report filters.
	Categories(ctx context.Context) ([]string, error)

	// DatabaseOptions returns the selectable database-category tokens.
	DatabaseOptions() []string

	// Health reports per-collaborator liveness.
	Health(ctx context.Context) *domain.HealthStatus
}
