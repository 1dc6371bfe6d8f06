package services

import (
	"context"
	"log/slog"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driving"
)

// Ensure searchService implements SearchService
var _ driving.SearchService = (*searchService)(nil)

// searchService implements the SearchService interface. It is stateless and
// safe for concurrent use.
type searchService struct {
	engine driven.SearchEngine
	logger *slog.Logger
}

// NewSearchService creates a new SearchService
func NewSearchService(engine driven.SearchEngine, logger *slog.Logger) driving.SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &searchService{engine: engine, logger: logger}
}

// Search validates the request, compiles the facet filter, and runs two
// engine queries: one for the page of hits, one limit-1 probe for the total
// estimate. The estimate drives TotalPages; the engine does not return an
// exact count on the paginated query.
func (s *searchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.PageResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	req.ApplyDefaults()

	query := domain.EngineQuery{
		Query:  req.Query,
		Filter: CompileFilter(req),
		Limit:  int64(req.PageSize),
		Offset: req.Offset(),
	}
	if req.UseHybrid {
		query.Hybrid = &domain.HybridSpec{SemanticRatio: req.SemanticRatio}
	}

	s.logger.Debug("dispatching search",
		"query", req.Query, "filter", query.Filter,
		"page", req.Page, "page_size", req.PageSize, "hybrid", req.UseHybrid)

	page, err := s.engine.Search(ctx, query)
	if err != nil {
		return nil, domain.NewUpstreamError("search engine", err)
	}

	countQuery := query
	countQuery.Limit = 1
	countQuery.Offset = 0
	count, err := s.engine.Search(ctx, countQuery)
	if err != nil {
		return nil, domain.NewUpstreamError("search engine", err)
	}

	totalPages := int((count.EstimatedTotalHits + int64(req.PageSize) - 1) / int64(req.PageSize))
	if totalPages < 1 {
		totalPages = 1
	}

	return &domain.PageResult{
		Hits:             page.Hits,
		TotalHits:        count.EstimatedTotalHits,
		Page:             req.Page,
		TotalPages:       totalPages,
		ProcessingTimeMs: page.ProcessingTimeMs,
	}, nil
}
