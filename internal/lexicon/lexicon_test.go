package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	cases := []struct {
		word  string
		value int
	}{
		{"cero", 0},
		{"uno", 1},
		{"quince", 15},
		{"veinticinco", 25},
		{"cuarenta", 40},
		{"cien", 100},
		{"ciento", 100},
		{"quinientos", 500},
		{"novecientos", 900},
	}
	for _, tc := range cases {
		v, ok := Lookup(tc.word)
		assert.True(t, ok, tc.word)
		assert.Equal(t, tc.value, v, tc.word)
	}
}

func TestLookup_FeminineVariants(t *testing.T) {
	for word, value := range map[string]int{
		"una":           1,
		"veintiuna":     21,
		"doscientas":    200,
		"cuatrocientas": 400,
		"novecientas":   900,
	} {
		v, ok := Lookup(word)
		assert.True(t, ok, word)
		assert.Equal(t, value, v, word)
	}
}

func TestLookup_Unknown(t *testing.T) {
	_, ok := Lookup("calorce")
	assert.False(t, ok)

	_, ok = Lookup("")
	assert.False(t, ok)
}

func TestFingerprintOf(t *testing.T) {
	fp := FingerprintOf("catorce")
	assert.Equal(t, Fingerprint{Length: 7, FirstChar: 'c', LastChar: 'e'}, fp)
}

func TestUniqueByFingerprint(t *testing.T) {
	t.Run("unique", func(t *testing.T) {
		// "catorce" is the only 7-letter c...e word.
		e, ok := UniqueByFingerprint(Fingerprint{Length: 7, FirstChar: 'c', LastChar: 'e'})
		assert.True(t, ok)
		assert.Equal(t, 14, e.Value)
	})

	t.Run("ambiguous", func(t *testing.T) {
		// "sesenta" and "setenta" collide.
		_, ok := UniqueByFingerprint(Fingerprint{Length: 7, FirstChar: 's', LastChar: 'a'})
		assert.False(t, ok)
	})

	t.Run("unknown", func(t *testing.T) {
		_, ok := UniqueByFingerprint(Fingerprint{Length: 3, FirstChar: 'z', LastChar: 'z'})
		assert.False(t, ok)
	})
}

func TestEntries_CoverWholeLexicon(t *testing.T) {
	es := Entries()
	assert.Len(t, es, len(wordValues))
	for _, e := range es {
		v, ok := Lookup(e.Word)
		assert.True(t, ok, e.Word)
		assert.Equal(t, e.Value, v, e.Word)
		assert.Equal(t, len(e.Word), e.Length, e.Word)
	}
}
