package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"actas/internal/domain"
)

// MockBatchValidator is a mock implementation of port.BatchValidator.
type MockBatchValidator struct {
	mock.Mock
}

func (m *MockBatchValidator) Validate(ctx context.Context, batch domain.EscalationBatch) (map[int][]domain.ExternalAnswer, error) {
	args := m.Called(ctx, batch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int][]domain.ExternalAnswer), args.Error(1)
}
