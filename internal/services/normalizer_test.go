package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"whitespace only", " \n\t\r\n ", ""},
		{"wrapped word", "experi\nence with go", "experi ence with go"},
		{"crlf wrap", "data\r\nengineer", "data engineer"},
		{"capitalised lines untouched", "Skills\nGo, SQL", "Skills Go, SQL"},
		{"collapse runs", "  Go   developer \n\n\n Berlin  ", "Go developer Berlin"},
		{"strip non ascii", "José — Müller ✓ résumé", "Jos Mller rsum"},
		{"control chars", "a\x00b\x07c", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"Jane Doe\njane@x.com\n\nSenior engi\nneer, 7 years",
		"\ttabs\tand nbsp em space",
		"Ünïcödé\r\nlines\r\nand\nmore",
		"a\nb\nc\nd",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once), "input %q", in)
	}
}
