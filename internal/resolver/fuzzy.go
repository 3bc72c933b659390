package resolver

import "actas/internal/lexicon"

const (
	// Candidate words whose length differs wildly from the token are never
	// plausible matches ("cinco" vs "doscientos").
	minLengthRatio = 0.65
	maxLengthRatio = 1.50

	// Accept an edit-distance match up to max(2, 35% of the candidate length).
	distanceFraction = 0.35
	minEditDistance  = 2

	minEditConfidence  = 0.50
	fingerprintBonus   = 0.10
	fallbackConfidence = 0.65
)

// ConvertFuzzy converts Spanish number text tolerating OCR corruption.
// Exact conversion is tried first and reported with confidence 1.0; after
// that each token is resolved by edit distance with a fingerprint fallback.
// A compound's confidence is the minimum across its tokens, and a single
// unresolvable token fails the whole conversion.
func ConvertFuzzy(text string) (int, float64, bool) {
	if v, ok := ConvertExact(text); ok {
		return v, 1.0, true
	}

	normalized := Normalize(text)
	if normalized == "" {
		return 0, 0, false
	}
	tokens := splitNumberTokens(normalized)
	if len(tokens) == 0 {
		return 0, 0, false
	}

	if len(tokens) == 1 {
		return fuzzyWord(tokens[0])
	}

	total := 0
	minConf := 1.0
	for _, tok := range tokens {
		if v, ok := lexicon.Lookup(tok); ok {
			total += v
			continue
		}
		v, conf, ok := fuzzyWord(tok)
		if !ok {
			return 0, 0, false
		}
		total += v
		if conf < minConf {
			minConf = conf
		}
	}
	if total > maxValue {
		return 0, 0, false
	}
	return total, minConf, true
}

// fuzzyWord resolves a single corrupted token. It picks the minimum edit
// distance lexicon entry among length-compatible candidates (ties broken by
// the lexicographically smaller word, so results do not depend on lexicon
// iteration order). A match beyond the distance threshold falls back to
// fingerprint lookup, which only answers when the fingerprint is unique.
func fuzzyWord(token string) (int, float64, bool) {
	if token == "" {
		return 0, 0, false
	}

	var best lexicon.Entry
	bestDist := -1
	for _, e := range lexicon.Entries() {
		ratio := float64(len(token)) / float64(e.Length)
		if ratio < minLengthRatio || ratio > maxLengthRatio {
			continue
		}
		d := levenshtein(token, e.Word)
		if bestDist < 0 || d < bestDist || (d == bestDist && e.Word < best.Word) {
			best = e
			bestDist = d
		}
	}
	if bestDist < 0 {
		// No length-compatible candidate at all.
		return 0, 0, false
	}

	maxDistance := int(float64(best.Length) * distanceFraction)
	if maxDistance < minEditDistance {
		maxDistance = minEditDistance
	}

	if bestDist > maxDistance {
		if len(token) >= 2 {
			if e, ok := lexicon.UniqueByFingerprint(lexicon.FingerprintOf(token)); ok {
				return e.Value, fallbackConfidence, true
			}
		}
		return 0, 0, false
	}

	conf := 1.0 - float64(bestDist)/float64(best.Length)
	if conf < minEditConfidence {
		conf = minEditConfidence
	}
	if lexicon.FingerprintOf(token) == lexicon.FingerprintOf(best.Word) {
		conf += fingerprintBonus
		if conf > 1.0 {
			conf = 1.0
		}
	}
	return best.Value, conf, true
}
