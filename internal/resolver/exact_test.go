package resolver

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"actas/internal/lexicon"
)

func TestConvertExact_SingleWords(t *testing.T) {
	// every lexicon word converts to itself
	for _, e := range lexicon.Entries() {
		v, ok := ConvertExact(e.Word)
		assert.True(t, ok, e.Word)
		assert.Equal(t, e.Value, v, e.Word)
	}
}

func TestConvertExact_Compounds(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"cuatrocientos veintiuno", 421},
		{"doscientos treinta y seis", 236},
		{"ciento diez", 110},
		{"quinientos cuarenta y cinco", 545},
		{"novecientos noventa y nueve", 999},
		{"treinta y dos", 32},
		{"ciento uno", 101},
		{"doscientas cuarenta y una", 241},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			v, ok := ConvertExact(tc.in)
			assert.True(t, ok)
			assert.Equal(t, tc.want, v)
		})
	}
}

func TestConvertExact_ToleratesCaseAccentsAndNoise(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"VEINTICINCO", 25},
		{"dieciséis", 16},
		{"  ciento   diez  ", 110},
		{"veinticinco.", 25},
	}
	for _, tc := range cases {
		v, ok := ConvertExact(tc.in)
		assert.True(t, ok, tc.in)
		assert.Equal(t, tc.want, v, tc.in)
	}
}

func TestConvertExact_Rejections(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"calorce",                  // misspelling is not exact
		"cuatrocientos xyz",        // one bad token fails the compound
		"novecientos novecientos",  // 1800 is out of range
		"quinientos seiscientos",   // 1100 is out of range
		"y",                        // connective alone
	}
	for _, in := range cases {
		t.Run(fmt.Sprintf("%q", in), func(t *testing.T) {
			_, ok := ConvertExact(in)
			assert.False(t, ok)
		})
	}
}
