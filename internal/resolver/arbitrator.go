package resolver

import (
	"fmt"
	"strconv"
	"strings"

	"actas/internal/domain"
)

const (
	// Fuzzy results below this confidence are not trusted locally.
	fuzzyAcceptFloor = 0.60

	// A fuzzy value can never be as certain as an exact parse; cap the
	// reported confidence depending on whether the digit evidence agrees.
	fuzzyAgreeCap    = 0.95
	fuzzyPriorityCap = 0.85
)

// Arbitrate combines the letter-token and digit-token evidence of one field
// into a single decision. The spelled-out text always outranks the digit
// transcription: the word form carries redundant letter-level information
// that survives single-character OCR slips a bare digit string does not.
// FieldID and TableID are attached by the caller.
func Arbitrate(letterText, digitText string) domain.ResolutionResult {
	digitValue, hasDigit := ExtractDigits(digitText)

	if exactValue, ok := ConvertExact(letterText); ok {
		if hasDigit && digitValue == exactValue {
			return domain.ResolutionResult{
				Value:      &exactValue,
				Confidence: 1.0,
				Method:     domain.MethodExactMatch,
				Rationale:  fmt.Sprintf("letter %q = %d, digit %q agrees", letterText, exactValue, digitText),
				Origin:     domain.OriginLocal,
			}
		}
		rationale := fmt.Sprintf("letter %q = %d", letterText, exactValue)
		if hasDigit {
			rationale += fmt.Sprintf("; digit reads %d but letter takes priority", digitValue)
		}
		return domain.ResolutionResult{
			Value:      &exactValue,
			Confidence: 1.0,
			Method:     domain.MethodExactPriority,
			Rationale:  rationale,
			Origin:     domain.OriginLocal,
		}
	}

	if fuzzyValue, fuzzyConf, ok := ConvertFuzzy(letterText); ok && fuzzyConf >= fuzzyAcceptFloor {
		if hasDigit && digitValue == fuzzyValue {
			return domain.ResolutionResult{
				Value:      &fuzzyValue,
				Confidence: capped(fuzzyConf, fuzzyAgreeCap),
				Method:     domain.MethodFuzzyMatch,
				Rationale:  fmt.Sprintf("corrupted letter %q fuzzy-matched to %d (confidence %.2f); digit confirms", letterText, fuzzyValue, fuzzyConf),
				Origin:     domain.OriginLocal,
			}
		}
		rationale := fmt.Sprintf("corrupted letter %q fuzzy-matched to %d (confidence %.2f)", letterText, fuzzyValue, fuzzyConf)
		if hasDigit {
			rationale += fmt.Sprintf("; digit reads %d", digitValue)
		}
		return domain.ResolutionResult{
			Value:      &fuzzyValue,
			Confidence: capped(fuzzyConf, fuzzyPriorityCap),
			Method:     domain.MethodFuzzyPriority,
			Rationale:  rationale,
			Origin:     domain.OriginLocal,
		}
	}

	if hasDigit {
		return domain.ResolutionResult{
			Value:      &digitValue,
			Confidence: 0.0,
			Method:     domain.MethodNeedsEscalation,
			Rationale:  fmt.Sprintf("letter %q not convertible; digit reads %d", letterText, digitValue),
			Origin:     domain.OriginLocal,
		}
	}

	return domain.ResolutionResult{
		Value:      nil,
		Confidence: 0.0,
		Method:     domain.MethodUnresolved,
		Rationale:  "no usable letter or digit evidence",
		Origin:     domain.OriginLocal,
	}
}

// ExtractDigits parses digit-form evidence by stripping every non-digit
// character. Absent or digit-free text yields no evidence.
func ExtractDigits(digitText string) (int, bool) {
	var b strings.Builder
	for _, r := range digitText {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, false
	}
	v, err := strconv.Atoi(b.String())
	if err != nil {
		return 0, false
	}
	return v, true
}

func capped(v, cap float64) float64 {
	if v > cap {
		return cap
	}
	return v
}
