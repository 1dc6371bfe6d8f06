package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/lib/pq"

	"github.com/custodia-labs/caseindex-core/internal/core/domain"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.CaseRecordStore = (*RecordStore)(nil)

// RecordStore implements driven.CaseRecordStore using PostgreSQL.
// Submissions live in sub_module_data, joined with sub_module for the
// category name. The store is read-only.
type RecordStore struct {
	db *DB
}

// NewRecordStore creates a new RecordStore
func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

// ListEligible retrieves every record whose sub-module is on the indexing
// allow-list. Rows with malformed form data keep an empty map rather than
// failing the whole listing.
func (s *RecordStore) ListEligible(ctx context.Context) ([]*domain.CaseRecord, error) {
	query := `
		SELECT smd."id", smd."sub_moduleId", smd."submissionDate", smd."formData", smd."location", smd."narrative",
		       sm.name AS sub_module_name
		FROM sub_module_data smd
		JOIN sub_module sm ON smd."sub_moduleId" = sm.id
		WHERE sm.name = ANY($1)
	`

	rows, err := s.db.QueryContext(ctx, query, pq.Array(domain.EligibleCategories))
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []*domain.CaseRecord
	for rows.Next() {
		var rec domain.CaseRecord
		var submissionDate sql.NullTime
		var formJSON []byte
		var location, narrative sql.NullString

		if err := rows.Scan(
			&rec.ID,
			&rec.SubModuleID,
			&submissionDate,
			&formJSON,
			&location,
			&narrative,
			&rec.SubModuleName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		rec.SubmissionDate = TimePtr(submissionDate)
		rec.Location = StringPtr(location)
		rec.Narrative = StringPtr(narrative)

		rec.FormData = domain.FormData{}
		if len(formJSON) > 0 {
			// Tolerate malformed form data: the record still gets indexed
			// with its column values.
			_ = json.Unmarshal(formJSON, &rec.FormData)
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	return records, nil
}

// ListCategories retrieves the distinct sub-module names present in the store.
func (s *RecordStore) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT name FROM sub_module ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}

	return names, nil
}

// Ping checks if the database is reachable
func (s *RecordStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
