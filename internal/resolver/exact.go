package resolver

import (
	"strings"

	"actas/internal/lexicon"
)

// maxValue bounds every resolved field; a compound whose sum falls outside
// [0, maxValue] is malformed OCR input, not a number.
const maxValue = 999

// ConvertExact converts normalized Spanish number text to an integer.
// It tolerates case, accents and noise characters but not misspellings:
// a single word must be an exact lexicon hit, and every token of a
// compound ("doscientos treinta y seis") must be one, since additive
// summation is only unambiguous over verified tokens.
func ConvertExact(text string) (int, bool) {
	normalized := Normalize(text)
	if normalized == "" {
		return 0, false
	}
	if v, ok := lexicon.Lookup(normalized); ok {
		return v, true
	}
	return parseCompound(normalized)
}

func parseCompound(normalized string) (int, bool) {
	tokens := splitNumberTokens(normalized)
	if len(tokens) == 0 {
		return 0, false
	}

	total := 0
	for _, tok := range tokens {
		v, ok := lexicon.Lookup(tok)
		if !ok {
			return 0, false
		}
		total += v
	}
	if total > maxValue {
		return 0, false
	}
	return total, true
}

// splitNumberTokens splits normalized text into words, dropping the "y"
// connective that joins tens and units.
func splitNumberTokens(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f == "y" {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
