// Package lexicon holds the static table of Spanish number words covering
// 0–999 as written on hand-filled actas, with a precomputed fingerprint
// index. Everything is built once at init and read-only afterwards, so the
// tables are safe to share across concurrently running pipelines.
package lexicon

// Entry is one number word with its value and cached fingerprint parts.
// Words are lowercase, accent-free, alphabetic-only.
type Entry struct {
	Word      string
	Value     int
	Length    int
	FirstChar byte
	LastChar  byte
}

// Fingerprint is the coarse signature (length, first letter, last letter)
// used to disambiguate a severely corrupted word when edit distance is
// unreliable. Several words may share one; it is "unique" only when exactly
// one entry maps to it.
type Fingerprint struct {
	Length    int
	FirstChar byte
	LastChar  byte
}

// wordValues lists every base word in value order. Feminine variants are
// included because tally-sheet fields mix "boletas" (f.) and "votos" (m.)
// phrasing.
var wordValues = []struct {
	word  string
	value int
}{
	// units
	{"cero", 0},
	{"uno", 1},
	{"una", 1},
	{"dos", 2},
	{"tres", 3},
	{"cuatro", 4},
	{"cinco", 5},
	{"seis", 6},
	{"siete", 7},
	{"ocho", 8},
	{"nueve", 9},
	// teens
	{"diez", 10},
	{"once", 11},
	{"doce", 12},
	{"trece", 13},
	{"catorce", 14},
	{"quince", 15},
	{"dieciseis", 16},
	{"diecisiete", 17},
	{"dieciocho", 18},
	{"diecinueve", 19},
	// twenties (single words in Spanish)
	{"veinte", 20},
	{"veintiuno", 21},
	{"veintiuna", 21},
	{"veintidos", 22},
	{"veintitres", 23},
	{"veinticuatro", 24},
	{"veinticinco", 25},
	{"veintiseis", 26},
	{"veintisiete", 27},
	{"veintiocho", 28},
	{"veintinueve", 29},
	// tens
	{"treinta", 30},
	{"cuarenta", 40},
	{"cincuenta", 50},
	{"sesenta", 60},
	{"setenta", 70},
	{"ochenta", 80},
	{"noventa", 90},
	// hundreds ("cien" stands alone, "ciento" composes)
	{"cien", 100},
	{"ciento", 100},
	{"doscientos", 200},
	{"doscientas", 200},
	{"trescientos", 300},
	{"trescientas", 300},
	{"cuatrocientos", 400},
	{"cuatrocientas", 400},
	{"quinientos", 500},
	{"quinientas", 500},
	{"seiscientos", 600},
	{"seiscientas", 600},
	{"setecientos", 700},
	{"setecientas", 700},
	{"ochocientos", 800},
	{"ochocientas", 800},
	{"novecientos", 900},
	{"novecientas", 900},
}

var (
	entries       []Entry
	valueByWord   map[string]int
	byFingerprint map[Fingerprint][]Entry
)

func init() {
	entries = make([]Entry, 0, len(wordValues))
	valueByWord = make(map[string]int, len(wordValues))
	byFingerprint = make(map[Fingerprint][]Entry, len(wordValues))

	for _, wv := range wordValues {
		e := Entry{
			Word:      wv.word,
			Value:     wv.value,
			Length:    len(wv.word),
			FirstChar: wv.word[0],
			LastChar:  wv.word[len(wv.word)-1],
		}
		entries = append(entries, e)
		valueByWord[e.Word] = e.Value

		fp := Fingerprint{Length: e.Length, FirstChar: e.FirstChar, LastChar: e.LastChar}
		byFingerprint[fp] = append(byFingerprint[fp], e)
	}
}

// Lookup returns the value of an exact lexicon word.
func Lookup(word string) (int, bool) {
	v, ok := valueByWord[word]
	return v, ok
}

// Entries returns every lexicon entry in declaration (value) order. The
// returned slice must not be modified.
func Entries() []Entry {
	return entries
}

// FingerprintOf computes the fingerprint of an arbitrary token. The token
// must be non-empty.
func FingerprintOf(token string) Fingerprint {
	return Fingerprint{
		Length:    len(token),
		FirstChar: token[0],
		LastChar:  token[len(token)-1],
	}
}

// ByFingerprint returns the entries sharing the given fingerprint.
func ByFingerprint(fp Fingerprint) []Entry {
	return byFingerprint[fp]
}

// UniqueByFingerprint returns the single entry for a fingerprint, or false
// when the fingerprint is ambiguous or unknown.
func UniqueByFingerprint(fp Fingerprint) (Entry, bool) {
	matches := byFingerprint[fp]
	if len(matches) != 1 {
		return Entry{}, false
	}
	return matches[0], true
}
