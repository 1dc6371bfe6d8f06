package driving

import (
	"context"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// SearchService answers faceted, paginated queries against the case index.
type SearchService interface {
	// Search validates the request, compiles its facet selections into a
	// filter, and returns one page of ranked hits.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.PageResult, error)
}
