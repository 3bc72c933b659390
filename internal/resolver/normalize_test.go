package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "VEINTICINCO", "veinticinco"},
		{"accents stripped", "dieciséis", "dieciseis"},
		{"enie stripped to n", "señalado", "senalado"},
		{"punctuation dropped", "veinticinco.", "veinticinco"},
		{"whitespace collapsed", "  doscientos   treinta  ", "doscientos treinta"},
		{"tabs and newlines", "ciento\tdiez\n", "ciento diez"},
		{"digits dropped", "25", ""},
		{"empty", "", ""},
		{"only noise", "—@#!", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, 0, levenshtein("catorce", "catorce"))
	assert.Equal(t, 1, levenshtein("calorce", "catorce"))
	assert.Equal(t, 2, levenshtein("veinisinco", "veinticinco"))
	assert.Equal(t, 7, levenshtein("", "catorce"))
	assert.Equal(t, 4, levenshtein("cinco", "ocho"))

	// symmetric
	assert.Equal(t, levenshtein("sesenta", "setenta"), levenshtein("setenta", "sesenta"))
}
