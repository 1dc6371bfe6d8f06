package driven

import (
	"context"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// CaseRecordStore reads case submissions from the system of record (PostgreSQL).
// The core never writes back.
type CaseRecordStore interface {
	// ListEligible retrieves every record whose sub-module is on the
	// indexing allow-list, with form data decoded.
	ListEligible(ctx context.Context) ([]*domain.CaseRecord, error)

	// ListCategories retrieves the distinct sub-module names present in the store.
	ListCategories(ctx context.Context) ([]string, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}
