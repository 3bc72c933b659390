package port

import (
	"context"

	"actas/internal/domain"
)

// BatchValidator abstracts the external arbitration capability. It receives
// every escalated field of a document in one call and answers per field.
// The engine treats it as an opaque oracle.
type BatchValidator interface {
	Validate(ctx context.Context, batch domain.EscalationBatch) (map[int][]domain.ExternalAnswer, error)
}
