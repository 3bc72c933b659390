package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"actas/internal/domain"
	"actas/internal/pipeline"
	"actas/mocks"
)

func candidate(fieldID string, tableID int, contents ...string) domain.RawFieldCandidate {
	return domain.RawFieldCandidate{FieldID: fieldID, TableID: tableID, Contents: contents}
}

func TestResolveDocument_AllLocal(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	candidates := []domain.RawFieldCandidate{
		candidate("1", 1, "128", "ciento veintiocho"),
		candidate("2", 1, "42", "cuarenta y dos"),
		candidate("3", 2, "7", "siete"),
	}

	results, err := r.ResolveDocument(context.Background(), candidates)

	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "1", results[0].FieldID)
	assert.Equal(t, "2", results[1].FieldID)
	assert.Equal(t, "3", results[2].FieldID)
	for _, res := range results {
		assert.Equal(t, domain.MethodExactMatch, res.Method)
		assert.Equal(t, domain.OriginLocal, res.Origin)
	}

	// no field fell below the threshold, so no external call happened
	validator.AssertNotCalled(t, "Validate")
}

func TestResolveDocument_SingleEscalationCall(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	candidates := []domain.RawFieldCandidate{
		candidate("1", 1, "128", "ciento veintiocho"),
		candidate("2", 1, "42", "zzzzzzz"),
		candidate("3", 2, "qqqqqq"),
		candidate("4", 2, "9", "nueve"),
	}

	nine := 41
	three := 3
	validator.On("Validate", mock.Anything, mock.MatchedBy(func(batch domain.EscalationBatch) bool {
		// both failing fields travel in the one batch
		return batch.Size() == 2 && len(batch[1]) == 1 && len(batch[2]) == 1
	})).Return(map[int][]domain.ExternalAnswer{
		1: {{FieldID: "2", TableID: 1, Value: &nine, Label: domain.ConfidenceAlta, Rationale: "digito legible"}},
		2: {{FieldID: "3", TableID: 2, Value: &three, Label: domain.ConfidenceMedia, Rationale: "letra parcial"}},
	}, nil).Once()

	results, err := r.ResolveDocument(context.Background(), candidates)

	require.NoError(t, err)
	require.Len(t, results, 4)
	validator.AssertExpectations(t)

	// original order preserved, externals slotted in place
	assert.Equal(t, []string{"1", "2", "3", "4"},
		[]string{results[0].FieldID, results[1].FieldID, results[2].FieldID, results[3].FieldID})

	assert.Equal(t, domain.MethodExternal, results[1].Method)
	assert.Equal(t, domain.OriginExternal, results[1].Origin)
	assert.Equal(t, 41, *results[1].Value)
	assert.Equal(t, 0.95, results[1].Confidence)

	assert.Equal(t, domain.MethodExternal, results[2].Method)
	assert.Equal(t, 0.75, results[2].Confidence)
}

func TestResolveDocument_EscalationFailure(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	candidates := []domain.RawFieldCandidate{
		candidate("1", 1, "128", "ciento veintiocho"),
		candidate("2", 1, "zzzzzzz"),
	}

	validator.On("Validate", mock.Anything, mock.Anything).
		Return(nil, errors.New("api timeout")).Once()

	results, err := r.ResolveDocument(context.Background(), candidates)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrEscalationFailed))

	// partial results: accepted fields untouched, escalated ones unresolved
	require.Len(t, results, 2)
	assert.Equal(t, domain.MethodExactMatch, results[0].Method)
	assert.Equal(t, 128, *results[0].Value)
	assert.Equal(t, domain.MethodUnresolved, results[1].Method)
	assert.Nil(t, results[1].Value)
	assert.Equal(t, domain.OriginLocal, results[1].Origin)
}

func TestResolveDocument_MissingAnswerBecomesUnresolved(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	candidates := []domain.RawFieldCandidate{
		candidate("1", 1, "zzzzzzz"),
		candidate("2", 1, "qqqqqq"),
	}

	five := 5
	validator.On("Validate", mock.Anything, mock.Anything).
		Return(map[int][]domain.ExternalAnswer{
			1: {{FieldID: "1", TableID: 1, Value: &five, Label: domain.ConfidenceBaja}},
		}, nil).Once()

	results, err := r.ResolveDocument(context.Background(), candidates)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.MethodExternal, results[0].Method)
	assert.Equal(t, 0.50, results[0].Confidence)
	assert.Equal(t, domain.MethodUnresolved, results[1].Method)
	assert.Nil(t, results[1].Value)
}

func TestResolveDocument_UnknownFieldAnswersAppended(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	candidates := []domain.RawFieldCandidate{
		candidate("1", 1, "zzzzzzz"),
	}

	one, two := 1, 2
	validator.On("Validate", mock.Anything, mock.Anything).
		Return(map[int][]domain.ExternalAnswer{
			1: {
				{FieldID: "1", TableID: 1, Value: &one, Label: domain.ConfidenceAlta},
				{FieldID: "ghost", TableID: 1, Value: &two, Label: domain.ConfidenceBaja},
			},
		}, nil).Once()

	results, err := r.ResolveDocument(context.Background(), candidates)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "1", results[0].FieldID)
	assert.Equal(t, "ghost", results[1].FieldID)
	assert.Equal(t, domain.MethodExternal, results[1].Method)
}

func TestResolveDocument_EmptyCandidates(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	results, err := r.ResolveDocument(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, results)
	validator.AssertNotCalled(t, "Validate")
}

func TestResolveDocument_Idempotent(t *testing.T) {
	validator := new(mocks.MockBatchValidator)
	r := pipeline.New(validator, pipeline.DefaultAcceptanceThreshold)

	ten := 10
	validator.On("Validate", mock.Anything, mock.Anything).
		Return(map[int][]domain.ExternalAnswer{
			2: {{FieldID: "b", TableID: 2, Value: &ten, Label: domain.ConfidenceMedia}},
		}, nil).Twice()

	candidates := []domain.RawFieldCandidate{
		candidate("a", 1, "545", "quinientos cuarenta y cinco"),
		candidate("b", 2, "zzzzzzz"),
	}

	first, err := r.ResolveDocument(context.Background(), candidates)
	require.NoError(t, err)
	second, err := r.ResolveDocument(context.Background(), candidates)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
