package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"actas/internal/config"
	"actas/internal/domain"
	"actas/internal/validator"
)

func testBatch() domain.EscalationBatch {
	return domain.EscalationBatch{
		1: {{FieldID: "94", TableID: 1, Contents: []string{"veinisinco", "25"}}},
		2: {{FieldID: "12", TableID: 2, Contents: []string{"zzz"}}},
	}
}

func chatReply(t *testing.T, content string) string {
	t.Helper()
	body, err := json.Marshal(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	})
	require.NoError(t, err)
	return string(body)
}

func TestValidate_Success(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chatReply(t,
			`{"resultados":[
				{"id":"94","tabla":1,"valor":25,"confianza":"alta","razonamiento":"letra corregida"},
				{"id":"12","tabla":2,"valor":null,"confianza":"baja","razonamiento":"ilegible"}
			]}`)))
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test", Model: "gpt-4o"}, srv.URL)

	answers, err := v.Validate(context.Background(), testBatch())

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
	assert.Equal(t, "gpt-4o", gotBody["model"])

	require.Len(t, answers[1], 1)
	assert.Equal(t, "94", answers[1][0].FieldID)
	require.NotNil(t, answers[1][0].Value)
	assert.Equal(t, 25, *answers[1][0].Value)
	assert.Equal(t, domain.ConfidenceAlta, answers[1][0].Label)

	require.Len(t, answers[2], 1)
	assert.Nil(t, answers[2][0].Value)
	assert.Equal(t, domain.ConfidenceBaja, answers[2][0].Label)
}

func TestValidate_EmptyBatchSkipsCall(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	answers, err := v.Validate(context.Background(), domain.EscalationBatch{})

	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestValidate_UnknownLabelDowngradedToBaja(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(t,
			`{"resultados":[{"id":"94","tabla":1,"valor":25,"confianza":"altisima","razonamiento":""}]}`)))
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	answers, err := v.Validate(context.Background(), testBatch())

	require.NoError(t, err)
	require.Len(t, answers[1], 1)
	assert.Equal(t, domain.ConfidenceBaja, answers[1][0].Label)
}

func TestValidate_ResultsUnderDifferentKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(t,
			`{"campos":[{"id":"94","tabla":1,"valor":14,"confianza":"media","razonamiento":""}]}`)))
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	answers, err := v.Validate(context.Background(), testBatch())

	require.NoError(t, err)
	require.Len(t, answers[1], 1)
	assert.Equal(t, 14, *answers[1][0].Value)
}

func TestValidate_MalformedVerdict(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(chatReply(t, `not json at all`)))
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	_, err := v.Validate(context.Background(), testBatch())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "verdict")
}

func TestValidate_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "30")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	_, err := v.Validate(context.Background(), testBatch())

	require.Error(t, err)
	var rateErr *validator.RateLimitError
	require.True(t, errors.As(err, &rateErr))
	assert.Equal(t, 30*time.Second, rateErr.RetryAfter)
	assert.Equal(t, "openai", rateErr.Provider)
}

func TestValidate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	v := NewValidatorWithEndpoint(&config.ValidatorConfig{APIKey: "sk-test"}, srv.URL)

	_, err := v.Validate(context.Background(), testBatch())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestBuildUserMessage_DeterministicTableOrder(t *testing.T) {
	batch := domain.EscalationBatch{
		3: {{FieldID: "c", TableID: 3, Contents: []string{"x"}}},
		1: {{FieldID: "a", TableID: 1, Contents: []string{"y"}}},
		2: {{FieldID: "b", TableID: 2, Contents: []string{"z"}}},
	}

	first := buildUserMessage(batch)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, buildUserMessage(batch))
	}

	aIdx := strings.Index(first, "ID del campo: a")
	bIdx := strings.Index(first, "ID del campo: b")
	cIdx := strings.Index(first, "ID del campo: c")
	assert.True(t, aIdx >= 0 && aIdx < bIdx && bIdx < cIdx)
}
