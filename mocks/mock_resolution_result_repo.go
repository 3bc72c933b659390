package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"actas/internal/domain"
)

// MockResolutionResultRepo is a mock implementation of
// port.ResolutionResultRepository.
type MockResolutionResultRepo struct {
	mock.Mock
}

func (m *MockResolutionResultRepo) ReplaceForDocument(ctx context.Context, docID uuid.UUID, results []domain.ResolutionResult) error {
	args := m.Called(ctx, docID, results)
	return args.Error(0)
}

func (m *MockResolutionResultRepo) ListByDocument(ctx context.Context, docID uuid.UUID) ([]domain.ResolutionResult, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolutionResult), args.Error(1)
}
