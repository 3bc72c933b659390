package port

import (
	"context"

	"github.com/google/uuid"

	"actas/internal/domain"
)

// DocumentRepository persists submitted documents and their lifecycle state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, offset, limit int) ([]domain.Document, int, error)
	// ClaimQueued atomically moves up to limit queued documents to resolving
	// and returns them, so concurrent workers never claim the same document.
	ClaimQueued(ctx context.Context, limit int) ([]domain.Document, error)
	UpdateOutcome(ctx context.Context, doc *domain.Document) error
	Requeue(ctx context.Context, docID uuid.UUID, attempts int, lastError string) error
	MarkFailed(ctx context.Context, docID uuid.UUID, attempts int, lastError string) error
}

// ResolutionResultRepository persists the per-field results of a document.
type ResolutionResultRepository interface {
	// ReplaceForDocument deletes any previous results for the document and
	// inserts the given ones, preserving their order.
	ReplaceForDocument(ctx context.Context, docID uuid.UUID, results []domain.ResolutionResult) error
	ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.ResolutionResult, error)
}
