package driven

import (
	"context"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
)

// SearchEngine handles document indexing and querying (Meilisearch).
// Writes are asynchronous: they return a TaskHandle that must be awaited
// with WaitForTask before the write is durable.
type SearchEngine interface {
	// AddDocuments enqueues a batch of documents for indexing.
	// Documents with an existing id are overwritten.
	AddDocuments(ctx context.Context, docs []*domain.CaseDocument) (domain.TaskHandle, error)

	// WaitForTask blocks until the task completes, returning the engine's
	// error if the task failed.
	WaitForTask(ctx context.Context, task domain.TaskHandle) error

	// Search executes one query against the index.
	Search(ctx context.Context, query domain.EngineQuery) (*domain.EngineResult, error)

	// CreateIndex creates the index with id as its primary key.
	// Returns domain.ErrAlreadyExists if the index is already present.
	CreateIndex(ctx context.Context) error

	// UpdateSettings applies index settings and waits for them to take effect.
	UpdateSettings(ctx context.Context, settings domain.IndexSettings) error

	// Stats retrieves a snapshot of the index.
	Stats(ctx context.Context) (*domain.IndexStats, error)

	// HealthCheck verifies the engine is available.
	HealthCheck(ctx context.Context) error
}
