// Package pipeline runs the whole-document resolution flow: classify each
// raw candidate into letter/digit evidence, arbitrate locally, collect the
// fields below the acceptance threshold into one escalation batch, make a
// single validator call, and merge the answers back in original field order.
package pipeline

import (
	"context"
	"fmt"
	"log"

	"actas/internal/domain"
	"actas/internal/port"
	"actas/internal/resolver"
)

// DefaultAcceptanceThreshold is the minimum local confidence for a field
// to skip escalation.
const DefaultAcceptanceThreshold = 0.75

// Resolver resolves whole documents. Instances are cheap and stateless
// beyond their configuration; the package-level lexicon is the only shared
// state and is immutable.
type Resolver struct {
	validator port.BatchValidator
	threshold float64
}

// New creates a document Resolver. A non-positive threshold falls back to
// DefaultAcceptanceThreshold.
func New(validator port.BatchValidator, threshold float64) *Resolver {
	if threshold <= 0 {
		threshold = DefaultAcceptanceThreshold
	}
	return &Resolver{validator: validator, threshold: threshold}
}

type provisional struct {
	candidate domain.RawFieldCandidate
	result    domain.ResolutionResult
}

// ResolveDocument produces exactly one ResolutionResult per candidate,
// ordered by table (first appearance) and original per-table field order.
// Escalation happens in at most one batched validator call. If that call
// fails, locally-accepted results are returned unchanged, escalated fields
// become unresolved placeholders, and the error wraps
// domain.ErrEscalationFailed so the caller can signal partial success.
func (r *Resolver) ResolveDocument(ctx context.Context, candidates []domain.RawFieldCandidate) ([]domain.ResolutionResult, error) {
	byTable := make(map[int][]provisional)
	var tableOrder []int
	batch := make(domain.EscalationBatch)

	for _, c := range candidates {
		ev := ClassifyEvidence(c)
		res := resolver.Arbitrate(ev.LetterText, ev.DigitText)
		res.FieldID = c.FieldID
		res.TableID = c.TableID

		if _, seen := byTable[c.TableID]; !seen {
			tableOrder = append(tableOrder, c.TableID)
		}
		byTable[c.TableID] = append(byTable[c.TableID], provisional{candidate: c, result: res})

		if !res.Accepted(r.threshold) {
			batch[c.TableID] = append(batch[c.TableID], c)
		}
	}

	var answers map[int][]domain.ExternalAnswer
	var escErr error
	if batch.Size() > 0 {
		answers, escErr = r.validator.Validate(ctx, batch)
		if escErr != nil {
			log.Printf("pipeline.Resolver: escalation of %d fields failed: %v", batch.Size(), escErr)
			answers = nil
		}
	}

	results := make([]domain.ResolutionResult, 0, len(candidates))
	for _, tableID := range tableOrder {
		answerByField := make(map[string]domain.ExternalAnswer)
		for _, a := range answers[tableID] {
			answerByField[a.FieldID] = a
		}

		merged := make(map[string]bool)
		for _, p := range byTable[tableID] {
			merged[p.result.FieldID] = true
			if p.result.Accepted(r.threshold) {
				results = append(results, p.result)
				continue
			}
			if a, ok := answerByField[p.result.FieldID]; ok {
				results = append(results, externalResult(a, tableID))
				continue
			}
			results = append(results, unresolvedResult(p.result))
		}

		// Answers for fields the extraction step never listed go last.
		for _, a := range answers[tableID] {
			if !merged[a.FieldID] {
				results = append(results, externalResult(a, tableID))
			}
		}
	}

	if escErr != nil {
		return results, fmt.Errorf("%w: %v", domain.ErrEscalationFailed, escErr)
	}
	return results, nil
}

func externalResult(a domain.ExternalAnswer, tableID int) domain.ResolutionResult {
	return domain.ResolutionResult{
		FieldID:    a.FieldID,
		TableID:    tableID,
		Value:      a.Value,
		Confidence: a.Label.Score(),
		Method:     domain.MethodExternal,
		Rationale:  a.Rationale,
		Origin:     domain.OriginExternal,
	}
}

func unresolvedResult(local domain.ResolutionResult) domain.ResolutionResult {
	return domain.ResolutionResult{
		FieldID:    local.FieldID,
		TableID:    local.TableID,
		Value:      nil,
		Confidence: 0.0,
		Method:     domain.MethodUnresolved,
		Rationale:  "escalated but no external answer: " + local.Rationale,
		Origin:     domain.OriginLocal,
	}
}
