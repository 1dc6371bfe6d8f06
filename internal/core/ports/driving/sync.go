package driving

import (
	"context"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// IndexSynchronizer keeps the search index in step with the system of record.
type IndexSynchronizer interface {
	// Resync rebuilds the index from all eligible records. Only one resync
	// may run at a time; concurrent calls get domain.ErrResyncInProgress.
	Resync(ctx context.Context) (*domain.ResyncResult, error)

	// EnsureIndex creates the index and applies its settings. Tolerates an
	// index that already exists. Must succeed before the first resync.
	EnsureIndex(ctx context.Context) error

	// Running reports whether a resync is currently in progress on this instance.
	Running() bool
}
