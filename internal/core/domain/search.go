package domain

import (
	"strings"
	"time"
)

// Database-category tokens exposed by the search UI. Each maps to a fixed
// sub-predicate over document fields; DatabaseAll is a sentinel meaning
// "no restriction".
const (
	DatabaseAll              = "ALL"
	DatabaseWatchlist        = "WATCHLIST DB"
	DatabaseStolenLostItems  = "STOLEN/LOST ITEMS DB"
	DatabaseMissingPersons   = "MISSING PERSONS DB"
	DatabaseEvidence         = "EVIDENCE DB"
	DatabaseStolenVehicles   = "STOLEN VEHICLES DB"
	DatabasePrisonerProperty = "PRISONER PROPERTY DB"
)

// DatabaseOptions lists every selectable database-category token, in the
// order the UI presents them.
func DatabaseOptions() []string {
	return []string{
		DatabaseAll,
		DatabaseWatchlist,
		DatabaseStolenLostItems,
		DatabaseMissingPersons,
		DatabaseEvidence,
		DatabaseStolenVehicles,
		DatabasePrisonerProperty,
	}
}

// EligibleCategories is the fixed allow-list of sub-module names that are
// indexed and exposed as report filters. It must match the categories the
// intake forms produce.
var EligibleCategories = []string{
	"GBV",
	"Stolen Lost Item",
	"Robbery",
	"Rape",
	"Motor Vehicle Theft",
	"Missing Person",
	"Homicide",
	"Death",
	"Cyber Crime",
	"Burglary",
	"Assault",
	"Arson",
}

const (
	// DefaultPageSize matches the result-page size of the search UI.
	DefaultPageSize = 10

	// MaxPageSize caps a caller-supplied page size.
	MaxPageSize = 100
)

// SearchRequest is one user query with its facet selections. It is built per
// request and never persisted.
type SearchRequest struct {
	Query string `json:"query"`

	// StartDate and EndDate are inclusive instant bounds. Both must be set
	// or both absent.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	// Databases holds database-category tokens; DatabaseAll disables the
	// category restriction.
	Databases []string `json:"databases,omitempty"`

	// SubModules restricts results to the named sub-module categories.
	SubModules []string `json:"sub_modules,omitempty"`

	Page     int `json:"page"`      // 1-based
	PageSize int `json:"page_size"` // defaults to DefaultPageSize

	// UseHybrid blends keyword matching with semantic similarity at
	// SemanticRatio (0 = pure keyword, 1 = pure semantic).
	UseHybrid     bool    `json:"use_hybrid"`
	SemanticRatio float64 `json:"semantic_ratio"`
}

// Validate checks the request before any collaborator is called.
func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Query) == "" {
		return ErrEmptyQuery
	}
	if (r.StartDate == nil) != (r.EndDate == nil) {
		return ErrInvalidDateRange
	}
	if r.StartDate != nil && r.EndDate != nil && r.EndDate.Before(*r.StartDate) {
		return ErrInvalidDateRange
	}
	if r.UseHybrid && (r.SemanticRatio < 0 || r.SemanticRatio > 1) {
		return ErrInvalidSemanticRatio
	}
	return nil
}

// ApplyDefaults fills in page and page size defaults and caps the page size.
func (r *SearchRequest) ApplyDefaults() {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = DefaultPageSize
	}
	if r.PageSize > MaxPageSize {
		r.PageSize = MaxPageSize
	}
}

// Offset returns the zero-based result offset for the requested page.
func (r *SearchRequest) Offset() int64 {
	return int64(r.Page-1) * int64(r.PageSize)
}

// PageResult is one page of search hits plus pagination metadata.
type PageResult struct {
	Hits             []*RankedDocument `json:"hits"`
	TotalHits        int64             `json:"total_hits"` // engine estimate
	Page             int               `json:"page"`
	TotalPages       int               `json:"total_pages"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
}
