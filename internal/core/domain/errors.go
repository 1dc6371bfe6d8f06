package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the core. Adapters and handlers match on these
// with errors.Is.
var (
	// ErrInvalidInput is the root of all validation failures.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyQuery           = fmt.Errorf("%w: query must not be empty", ErrInvalidInput)
	ErrInvalidDateRange     = fmt.Errorf("%w: date range requires both bounds, start before end", ErrInvalidInput)
	ErrInvalidSemanticRatio = fmt.Errorf("%w: semantic ratio must be between 0 and 1", ErrInvalidInput)

	// ErrResyncInProgress is returned when a resync is requested while
	// another one holds the guard.
	ErrResyncInProgress = errors.New("resync already in progress")

	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
)

// UpstreamError reports that a collaborator (the relational store or the
// search engine) failed or was unreachable.
type UpstreamError struct {
	Collaborator string
	Err          error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Collaborator, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// NewUpstreamError wraps err as a failure of the named collaborator.
func NewUpstreamError(collaborator string, err error) *UpstreamError {
	return &UpstreamError{Collaborator: collaborator, Err: err}
}

// PartialIndexError reports a resync that committed some batches before a
// later batch failed. DocumentsIndexed counts documents durably written by
// the batches that succeeded.
type PartialIndexError struct {
	DocumentsIndexed int
	FailedBatch      int
	Err              error
}

func (e *PartialIndexError) Error() string {
	return fmt.Sprintf("resync aborted at batch %d after indexing %d documents: %v",
		e.FailedBatch, e.DocumentsIndexed, e.Err)
}

func (e *PartialIndexError) Unwrap() error { return e.Err }
