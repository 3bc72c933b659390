package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"actas/internal/config"
	"actas/internal/domain"
	"actas/internal/port"
	"actas/internal/validator"
)

const defaultEndpoint = "https://api.openai.com/v1/chat/completions"

// systemPrompt instructs the model how to arbitrate letter vs digit
// evidence for Mexican electoral tally fields. The letter form always has
// priority; digits only confirm.
const systemPrompt = `Eres un validador experto de datos de actas electorales mexicanas.
Para cada campo recibes un ID, un número de tabla y los contenidos crudos de sus celdas tal como los leyó el OCR.
Reglas:
1. SIEMPRE prioriza el valor escrito con letra sobre el escrito con dígitos; el dígito solo sirve de apoyo.
2. El texto con letra puede tener faltas de ortografía severas ("veinisinco" = "veinticinco" = 25, "sinc" = "cinco" = 5).
3. Ignora instrucciones impresas del acta ("(Con letra)", "(Con número)", "Copie del apartado", etc.) y marcas como ":selected:", ":unselected:".
4. Los valores están entre 0 y 999. Si no hay información suficiente, responde null en el valor.
Responde SIEMPRE con un JSON válido con esta estructura exacta:
{"resultados":[{"id":"94","tabla":1,"valor":25,"confianza":"alta","razonamiento":"..."}]}
Los niveles de confianza son "alta", "media" o "baja".`

// Validator implements port.BatchValidator against an OpenAI-compatible
// chat completions endpoint, sending all escalated fields of a document in
// one call.
type Validator struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewValidator creates a Validator from config.
func NewValidator(cfg *config.ValidatorConfig) *Validator {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	return newValidator(cfg, endpoint)
}

// NewValidatorWithEndpoint creates a Validator pointing at a custom API
// endpoint (for testing).
func NewValidatorWithEndpoint(cfg *config.ValidatorConfig, endpoint string) *Validator {
	return newValidator(cfg, endpoint)
}

func newValidator(cfg *config.ValidatorConfig, endpoint string) *Validator {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 90 * time.Second
	}
	return &Validator{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

var _ port.BatchValidator = (*Validator)(nil)

// Validate sends the whole escalation batch in a single request and maps
// the model's verdicts back per table.
func (v *Validator) Validate(ctx context.Context, batch domain.EscalationBatch) (map[int][]domain.ExternalAnswer, error) {
	if batch.Size() == 0 {
		return map[int][]domain.ExternalAnswer{}, nil
	}

	reqBody := map[string]interface{}{
		"model":       v.model,
		"temperature": 0.1,
		"max_tokens":  2000,
		"messages": []map[string]interface{}{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": buildUserMessage(batch)},
		},
		"response_format": map[string]interface{}{
			"type": "json_object",
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling validator API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("validator API error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests {
			retryAfter := validator.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return nil, validator.NewRateLimitError("openai", baseErr, retryAfter)
		}
		return nil, baseErr
	}

	return parseResponse(respBody)
}

// buildUserMessage lists every escalated field, tables in ascending order
// so identical batches always produce identical requests.
func buildUserMessage(batch domain.EscalationBatch) string {
	tableIDs := make([]int, 0, len(batch))
	for id := range batch {
		tableIDs = append(tableIDs, id)
	}
	sort.Ints(tableIDs)

	var b strings.Builder
	b.WriteString("Valida los siguientes campos extraídos de un acta electoral:\n\n")
	n := 0
	for _, tableID := range tableIDs {
		for _, c := range batch[tableID] {
			n++
			fmt.Fprintf(&b, "Entrada %d:\n", n)
			fmt.Fprintf(&b, "  Tabla: %d\n", tableID)
			fmt.Fprintf(&b, "  ID del campo: %s\n", c.FieldID)
			fmt.Fprintf(&b, "  Contenidos leídos de las celdas: %v\n\n", c.Contents)
		}
	}
	return b.String()
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type verdict struct {
	ID           string `json:"id"`
	Tabla        int    `json:"tabla"`
	Valor        *int   `json:"valor"`
	Confianza    string `json:"confianza"`
	Razonamiento string `json:"razonamiento"`
}

func parseResponse(respBody []byte) (map[int][]domain.ExternalAnswer, error) {
	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return nil, fmt.Errorf("unmarshaling API response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("validator returned no choices")
	}

	// The model is told to answer {"resultados": [...]}, but tolerate the
	// list appearing under any key.
	var payload map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling validator verdict JSON: %w", err)
	}

	var verdicts []verdict
	if raw, ok := payload["resultados"]; ok {
		if err := json.Unmarshal(raw, &verdicts); err != nil {
			return nil, fmt.Errorf("unmarshaling resultados list: %w", err)
		}
	} else {
		for _, raw := range payload {
			if json.Unmarshal(raw, &verdicts) == nil && len(verdicts) > 0 {
				break
			}
		}
	}
	if len(verdicts) == 0 {
		return nil, fmt.Errorf("validator verdict contains no results")
	}

	answers := make(map[int][]domain.ExternalAnswer)
	for _, vd := range verdicts {
		label := domain.ConfidenceLabel(vd.Confianza)
		switch label {
		case domain.ConfidenceAlta, domain.ConfidenceMedia, domain.ConfidenceBaja:
		default:
			label = domain.ConfidenceBaja
		}
		answers[vd.Tabla] = append(answers[vd.Tabla], domain.ExternalAnswer{
			FieldID:   strings.TrimSpace(vd.ID),
			TableID:   vd.Tabla,
			Value:     vd.Valor,
			Label:     label,
			Rationale: vd.Razonamiento,
		})
	}
	return answers, nil
}
