package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// databasePredicates maps each database-category token to its sub-predicate
// in the engine's filter grammar. Multi-term predicates are parenthesized so
// they compose safely.
var databasePredicates = map[string]string{
	domain.DatabaseWatchlist:        "victim_name IS NOT NULL",
	domain.DatabaseStolenLostItems:  "(stolen_items IS NOT NULL OR electronic_type IS NOT NULL OR document_type IS NOT NULL)",
	domain.DatabaseMissingPersons:   "sub_module_name = 'Missing Person'",
	domain.DatabaseEvidence:         "(narrative IS NOT NULL OR description IS NOT NULL)",
	domain.DatabaseStolenVehicles:   "(sub_module_name = 'Motor Vehicle Theft' OR vehicle_registration IS NOT NULL)",
	domain.DatabasePrisonerProperty: "stolen_items IS NOT NULL",
}

// CompileFilter translates a request's facet selections into one filter
// expression for the engine. An empty string means no filter.
//
// Database categories are OR-combined: a record matching any selected
// category passes. The ALL token, or no selection at all, drops the clause.
// Clause kinds (databases, sub-modules, date range) are AND-joined.
func CompileFilter(req domain.SearchRequest) string {
	var clauses []string

	if c := databaseClause(req.Databases); c != "" {
		clauses = append(clauses, c)
	}

	if len(req.SubModules) > 0 {
		quoted := make([]string, len(req.SubModules))
		for i, sm := range req.SubModules {
			quoted[i] = fmt.Sprintf("%q", sm)
		}
		clauses = append(clauses, fmt.Sprintf("sub_module_name IN [%s]", strings.Join(quoted, ", ")))
	}

	if req.StartDate != nil && req.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf("submissionDate >= %d AND submissionDate <= %d",
			req.StartDate.Unix(), req.EndDate.Unix()))
	}

	return strings.Join(clauses, " AND ")
}

func databaseClause(databases []string) string {
	var preds []string
	for _, db := range databases {
		if db == domain.DatabaseAll {
			return ""
		}
		// Unknown tokens are skipped rather than rejected.
		if p, ok := databasePredicates[db]; ok {
			preds = append(preds, p)
		}
	}

	switch len(preds) {
	case 0:
		return ""
	case 1:
		return preds[0]
	default:
		return "(" + strings.Join(preds, " OR ") + ")"
	}
}
