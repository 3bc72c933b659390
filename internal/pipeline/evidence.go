package pipeline

import (
	"strings"
	"unicode"

	"actas/internal/domain"
)

// noiseMarkers is the OCR junk the layout service leaves in cell text:
// selection-mark artifacts plus the acta's own printed instructions.
var noiseMarkers = []string{
	":unselected:", ":selected:",
	"○", "□", "✓", "—", "@",
	"(Con letra)", "(Con número)", "(Con numera)",
}

func cleanToken(raw string) string {
	s := raw
	for _, m := range noiseMarkers {
		s = strings.ReplaceAll(s, m, "")
	}
	return strings.Trim(s, " .-_,")
}

// isInstruction filters printed form instructions that OCR reads alongside
// the handwritten content ("Copie del apartado...", "Escriba con letra...").
func isInstruction(s string) bool {
	l := strings.ToLower(s)
	return strings.HasPrefix(l, "copie") ||
		strings.HasPrefix(l, "escriba") ||
		strings.Contains(l, "del apartado") ||
		strings.Contains(l, "de la hoja") ||
		len(s) > 60
}

func digitRatio(s string) float64 {
	total := 0
	digits := 0
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(digits) / float64(total)
}

func alphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

// ClassifyEvidence selects, from a candidate's raw token list, the digit
// form (first token whose digit-character ratio is at least 0.70) and the
// letter form (longest token with at least 3 alphabetic characters). This
// is a best-effort classifier: with more than two meaningful tokens it can
// pick the wrong pair, which degrades to escalation rather than a wrongly
// accepted value.
func ClassifyEvidence(c domain.RawFieldCandidate) domain.Evidence {
	var ev domain.Evidence
	for _, raw := range c.Contents {
		tok := cleanToken(raw)
		if tok == "" || isInstruction(tok) {
			continue
		}
		if ev.DigitText == "" && digitRatio(tok) >= 0.70 {
			ev.DigitText = tok
			continue
		}
		if alphaCount(tok) >= 3 && len(tok) > len(ev.LetterText) {
			ev.LetterText = tok
		}
	}
	return ev
}
