package metrics

import (
	"context"

	"actas/internal/domain"
	"actas/internal/port"
)

type instrumentedValidator struct {
	inner port.BatchValidator
	m     *Metrics
}

// InstrumentValidator wraps a BatchValidator so every escalation call and
// failure is counted.
func InstrumentValidator(inner port.BatchValidator, m *Metrics) port.BatchValidator {
	if m == nil {
		return inner
	}
	return &instrumentedValidator{inner: inner, m: m}
}

func (v *instrumentedValidator) Validate(ctx context.Context, batch domain.EscalationBatch) (map[int][]domain.ExternalAnswer, error) {
	if batch.Size() == 0 {
		return v.inner.Validate(ctx, batch)
	}
	v.m.EscalationCallsTotal.Inc()
	answers, err := v.inner.Validate(ctx, batch)
	if err != nil {
		v.m.EscalationFailuresTotal.Inc()
	}
	return answers, err
}
