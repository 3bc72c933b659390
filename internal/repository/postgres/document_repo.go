package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"actas/internal/domain"
	"actas/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document) error {
	now := time.Now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	query := `INSERT INTO documents
		(id, name, status, candidates, resolve_attempts, field_count,
		 escalated_count, unresolved_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.Name, doc.Status, doc.Candidates, doc.ResolveAttempts,
		doc.FieldCount, doc.EscalatedCount, doc.UnresolvedCount,
		doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", docID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) List(ctx context.Context, offset, limit int) ([]domain.Document, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents")
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List count: %w", err)
	}

	var docs []domain.Document
	err = r.db.SelectContext(ctx, &docs,
		`SELECT * FROM documents ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("documentRepo.List: %w", err)
	}
	return docs, total, nil
}

// ClaimQueued moves up to limit queued documents to resolving and returns
// them. The FOR UPDATE SKIP LOCKED subquery keeps concurrent workers from
// claiming the same rows.
func (r *documentRepo) ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error) {
	query := `UPDATE documents SET status = $1, updated_at = $2
		WHERE id IN (
			SELECT id FROM documents
			WHERE status = $3
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING *`

	var docs []domain.Document
	err := r.db.SelectContext(ctx, &docs, query,
		domain.DocumentStatusResolving, time.Now().UTC(), domain.DocumentStatusQueued, limit)
	if err != nil {
		return nil, fmt.Errorf("documentRepo.ClaimQueued: %w", err)
	}
	return docs, nil
}

func (r *documentRepo) UpdateOutcome(ctx context.Context, doc *domain.Document) error {
	doc.UpdatedAt = time.Now().UTC()

	query := `UPDATE documents SET
		status = $1, resolve_attempts = $2, field_count = $3,
		escalated_count = $4, unresolved_count = $5, last_error = $6,
		resolved_at = $7, updated_at = $8
		WHERE id = $9`

	res, err := r.db.ExecContext(ctx, query,
		doc.Status, doc.ResolveAttempts, doc.FieldCount, doc.EscalatedCount,
		doc.UnresolvedCount, doc.LastError, doc.ResolvedAt, doc.UpdatedAt, doc.ID)
	if err != nil {
		return fmt.Errorf("documentRepo.UpdateOutcome: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *documentRepo) Requeue(ctx context.Context, docID uuid.UUID, attempts int, lastError string) error {
	query := `UPDATE documents SET status = $1, resolve_attempts = $2, last_error = $3, updated_at = $4
		WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query,
		domain.DocumentStatusQueued, attempts, lastError, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.Requeue: %w", err)
	}
	return nil
}

func (r *documentRepo) MarkFailed(ctx context.Context, docID uuid.UUID, attempts int, lastError string) error {
	query := `UPDATE documents SET status = $1, resolve_attempts = $2, last_error = $3, updated_at = $4
		WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query,
		domain.DocumentStatusFailed, attempts, lastError, time.Now().UTC(), docID)
	if err != nil {
		return fmt.Errorf("documentRepo.MarkFailed: %w", err)
	}
	return nil
}
