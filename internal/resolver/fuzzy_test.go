package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertFuzzy_ExactInputKeepsFullConfidence(t *testing.T) {
	v, conf, ok := ConvertFuzzy("doscientos treinta y seis")
	require.True(t, ok)
	assert.Equal(t, 236, v)
	assert.Equal(t, 1.0, conf)
}

func TestConvertFuzzy_SingleCorruptedWord(t *testing.T) {
	t.Run("calorce", func(t *testing.T) {
		v, conf, ok := ConvertFuzzy("calorce")
		require.True(t, ok)
		assert.Equal(t, 14, v)
		assert.GreaterOrEqual(t, conf, 0.80)
	})

	t.Run("veinisinco", func(t *testing.T) {
		v, conf, ok := ConvertFuzzy("veinisinco")
		require.True(t, ok)
		assert.Equal(t, 25, v)
		assert.GreaterOrEqual(t, conf, 0.80)
	})

	t.Run("sinco", func(t *testing.T) {
		v, _, ok := ConvertFuzzy("sinco")
		require.True(t, ok)
		assert.Equal(t, 5, v)
	})
}

func TestConvertFuzzy_CorruptedCompound(t *testing.T) {
	// "beinticinco" is a common phonetic misspelling of "veinticinco".
	v, conf, ok := ConvertFuzzy("doscientos beinticinco")
	require.True(t, ok)
	assert.Equal(t, 225, v)
	assert.Greater(t, conf, 0.0)
	assert.Less(t, conf, 1.0)

	// confidence of a compound is its weakest token
	_, single, ok := ConvertFuzzy("beinticinco")
	require.True(t, ok)
	assert.Equal(t, single, conf)
}

func TestConvertFuzzy_FingerprintFallback(t *testing.T) {
	// Too corrupted for edit distance, but the 7-letter c...e fingerprint
	// is unique to "catorce".
	v, conf, ok := ConvertFuzzy("czzzzce")
	require.True(t, ok)
	assert.Equal(t, 14, v)
	assert.Equal(t, 0.65, conf)
}

func TestConvertFuzzy_Rejections(t *testing.T) {
	cases := []string{
		"",
		"zzzzzzz",
		"xqwkjpt",
		"cuatrosientos zzzzzzz", // one hopeless token fails the compound
	}
	for _, in := range cases {
		t.Run(in, func(t *testing.T) {
			_, _, ok := ConvertFuzzy(in)
			assert.False(t, ok, in)
		})
	}
}

func TestConvertFuzzy_DeterministicTieBreak(t *testing.T) {
	// "seienta" is one edit from both "sesenta" (60) and "setenta" (70);
	// the lexicographically smaller word wins, on every run.
	for i := 0; i < 10; i++ {
		v, _, ok := ConvertFuzzy("seienta")
		require.True(t, ok)
		assert.Equal(t, 60, v)
	}
}
