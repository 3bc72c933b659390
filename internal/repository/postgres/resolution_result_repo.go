package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"actas/internal/domain"
	"actas/internal/port"
)

type resolutionResultRepo struct {
	db *sqlx.DB
}

// NewResolutionResultRepo creates a new PostgreSQL-backed ResolutionResultRepository.
func NewResolutionResultRepo(db *sqlx.DB) port.ResolutionResultRepository {
	return &resolutionResultRepo{db: db}
}

func (r *resolutionResultRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, results []domain.ResolutionResult) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("resolutionResultRepo.ReplaceForDocument begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM resolution_results WHERE document_id = $1", docID); err != nil {
		return fmt.Errorf("resolutionResultRepo.ReplaceForDocument delete: %w", err)
	}

	query := `INSERT INTO resolution_results
		(document_id, position, table_id, field_id, value, confidence, method, origin, rationale)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for i := range results {
		res := &results[i]
		if _, err := tx.ExecContext(ctx, query,
			docID, i, res.TableID, res.FieldID, res.Value,
			res.Confidence, res.Method, res.Origin, res.Rationale); err != nil {
			return fmt.Errorf("resolutionResultRepo.ReplaceForDocument insert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("resolutionResultRepo.ReplaceForDocument commit: %w", err)
	}
	return nil
}

func (r *resolutionResultRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.ResolutionResult, error) {
	var results []domain.ResolutionResult
	err := r.db.SelectContext(ctx, &results,
		`SELECT table_id, field_id, value, confidence, method, origin, rationale
		 FROM resolution_results
		 WHERE document_id = $1
		 ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("resolutionResultRepo.ListByDocument: %w", err)
	}
	return results, nil
}
