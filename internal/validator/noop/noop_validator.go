package noop

import (
	"context"
	"log"

	"actas/internal/domain"
	"actas/internal/port"
)

// Validator answers nothing for every batch, so escalated fields surface as
// unresolved. Used when no validator endpoint is configured.
type Validator struct{}

// NewValidator creates a no-op BatchValidator.
func NewValidator() port.BatchValidator {
	return &Validator{}
}

func (v *Validator) Validate(ctx context.Context, batch domain.EscalationBatch) (map[int][]domain.ExternalAnswer, error) {
	if n := batch.Size(); n > 0 {
		log.Printf("noop.Validator: dropping %d escalated fields (no validator configured)", n)
	}
	return map[int][]domain.ExternalAnswer{}, nil
}
