package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RawFieldCandidate is one numeric field as handed over by the extraction
// step: every OCR token read from the field's cells, in reading order.
// Immutable once handed to the engine.
type RawFieldCandidate struct {
	FieldID  string   `json:"field_id"`
	TableID  int      `json:"table_id"`
	Contents []string `json:"contents"`
}

// Evidence is the letter/digit pair classified out of a candidate's raw
// token list. An empty string means that form is absent.
type Evidence struct {
	LetterText string
	DigitText  string
}

// ResolutionResult is the final decision for one field. Value is nil when
// no tier (local or external) could produce a number.
type ResolutionResult struct {
	FieldID    string  `json:"field_id" db:"field_id"`
	TableID    int     `json:"table_id" db:"table_id"`
	Value      *int    `json:"value" db:"value"`
	Confidence float64 `json:"confidence" db:"confidence"`
	Method     Method  `json:"method" db:"method"`
	Rationale  string  `json:"rationale" db:"rationale"`
	Origin     Origin  `json:"origin" db:"origin"`
}

// Accepted reports whether the result clears the acceptance threshold
// without needing escalation.
func (r *ResolutionResult) Accepted(threshold float64) bool {
	return r.Method != MethodNeedsEscalation &&
		r.Method != MethodUnresolved &&
		r.Confidence >= threshold
}

// EscalationBatch groups the candidates that could not be resolved locally,
// keyed by table, preserving per-table field order. Built once per document
// and consumed by a single validator call.
type EscalationBatch map[int][]RawFieldCandidate

// Size returns the total number of fields across all tables in the batch.
func (b EscalationBatch) Size() int {
	n := 0
	for _, fields := range b {
		n += len(fields)
	}
	return n
}

// ExternalAnswer is the validator's verdict for one escalated field.
type ExternalAnswer struct {
	FieldID   string          `json:"field_id"`
	TableID   int             `json:"table_id"`
	Value     *int            `json:"value"`
	Label     ConfidenceLabel `json:"label"`
	Rationale string          `json:"rationale"`
}

// Document is a submitted acta awaiting or holding field resolution.
type Document struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Status          DocumentStatus  `json:"status" db:"status"`
	Candidates      json.RawMessage `json:"candidates,omitempty" db:"candidates"`
	ResolveAttempts int             `json:"resolve_attempts" db:"resolve_attempts"`
	FieldCount      int             `json:"field_count" db:"field_count"`
	EscalatedCount  int             `json:"escalated_count" db:"escalated_count"`
	UnresolvedCount int             `json:"unresolved_count" db:"unresolved_count"`
	LastError       *string         `json:"last_error,omitempty" db:"last_error"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
	ResolvedAt      *time.Time      `json:"resolved_at,omitempty" db:"resolved_at"`
}

// CandidateList decodes the document's stored raw candidates.
func (d *Document) CandidateList() ([]RawFieldCandidate, error) {
	var candidates []RawFieldCandidate
	if err := json.Unmarshal(d.Candidates, &candidates); err != nil {
		return nil, err
	}
	return candidates, nil
}
