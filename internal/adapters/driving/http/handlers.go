package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// SearchRequestBody is the JSON body of a search call. Dates travel as
// YYYY-MM-DD strings and expand to inclusive UTC day bounds.
type SearchRequestBody struct {
	Query         string   `json:"query" example:"stolen phone"`
	StartDate     string   `json:"start_date,omitempty" example:"2025-06-09"`
	EndDate       string   `json:"end_date,omitempty" example:"2025-07-09"`
	Databases     []string `json:"databases,omitempty"`
	SubModules    []string `json:"sub_modules,omitempty"`
	Page          int      `json:"page,omitempty" example:"1"`
	PageSize      int      `json:"page_size,omitempty" example:"10"`
	UseHybrid     bool     `json:"use_hybrid,omitempty"`
	SemanticRatio float64  `json:"semantic_ratio,omitempty" example:"0.5"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns per-collaborator health of the service
// @Tags         Health
// @Produce      json
// @Success      200  {object}  domain.HealthStatus
// @Failure      503  {object}  domain.HealthStatus
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.catalogService.Health(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Search endpoints

// handleSearch godoc
// @Summary      Search case records
// @Description  Faceted, paginated search over the case index
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      SearchRequestBody  true  "Search request"
// @Success      200      {object}  domain.PageResult
// @Failure      400      {object}  ErrorResponse  "Invalid request"
// @Failure      502      {object}  ErrorResponse  "Search engine unavailable"
// @Router       /api/v1/search [post]
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body SearchRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := body.toDomain()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.searchService.Search(r.Context(), *req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleCategories godoc
// @Summary      List report categories
// @Description  Returns the sub-module names available as search filters
// @Tags         Search
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Failure      502  {object}  ErrorResponse  "Database unavailable"
// @Router       /api/v1/categories [get]
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	names, err := s.catalogService.Categories(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"categories": names})
}

// handleDatabases godoc
// @Summary      List database categories
// @Description  Returns the selectable database-category tokens
// @Tags         Search
// @Produce      json
// @Success      200  {object}  map[string][]string
// @Router       /api/v1/databases [get]
func (s *Server) handleDatabases(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"databases": s.catalogService.DatabaseOptions()})
}

// Admin endpoints

// handleEnsureIndex godoc
// @Summary      Create or update the search index
// @Description  Creates the index and applies its settings; safe to repeat
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      502  {object}  ErrorResponse  "Search engine unavailable"
// @Router       /api/v1/admin/index [post]
func (s *Server) handleEnsureIndex(w http.ResponseWriter, r *http.Request) {
	if err := s.synchronizer.EnsureIndex(r.Context()); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleResync godoc
// @Summary      Rebuild the search index
// @Description  Reads all eligible records and re-indexes them in batches
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  domain.ResyncResult
// @Failure      409  {object}  ErrorResponse  "Resync already in progress"
// @Failure      500  {object}  ErrorResponse  "Partial index failure"
// @Failure      502  {object}  ErrorResponse  "Collaborator unavailable"
// @Router       /api/v1/admin/resync [post]
func (s *Server) handleResync(w http.ResponseWriter, r *http.Request) {
	result, err := s.synchronizer.Resync(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleStats godoc
// @Summary      Index statistics
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  domain.IndexStats
// @Failure      502  {object}  ErrorResponse  "Search engine unavailable"
// @Router       /api/v1/admin/stats [get]
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.Stats(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// toDomain converts the wire request into a domain SearchRequest, expanding
// date strings into inclusive UTC day bounds.
func (b *SearchRequestBody) toDomain() (*domain.SearchRequest, error) {
	req := &domain.SearchRequest{
		Query:         b.Query,
		Databases:     b.Databases,
		SubModules:    b.SubModules,
		Page:          b.Page,
		PageSize:      b.PageSize,
		UseHybrid:     b.UseHybrid,
		SemanticRatio: b.SemanticRatio,
	}

	if b.StartDate != "" {
		day, err := time.ParseInLocation("2006-01-02", b.StartDate, time.UTC)
		if err != nil {
			return nil, errors.New("start_date must be YYYY-MM-DD")
		}
		req.StartDate = &day
	}
	if b.EndDate != "" {
		day, err := time.ParseInLocation("2006-01-02", b.EndDate, time.UTC)
		if err != nil {
			return nil, errors.New("end_date must be YYYY-MM-DD")
		}
		// Inclusive: the whole end day counts
		end := day.Add(24*time.Hour - time.Second)
		req.EndDate = &end
	}

	return req, nil
}

// writeDomainError maps core errors onto HTTP status codes.
func writeDomainError(w http.ResponseWriter, err error) {
	var partial *domain.PartialIndexError
	var upstream *domain.UpstreamError

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrResyncInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &partial):
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":             partial.Error(),
			"documents_indexed": partial.DocumentsIndexed,
			"failed_batch":      partial.FailedBatch,
		})
	case errors.As(err, &upstream):
		writeError(w, http.StatusBadGateway, upstream.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
