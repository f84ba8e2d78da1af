package services

import (
	"regexp"
	"strings"
	"unicode"
)

var wrappedWordPattern = regexp.MustCompile(`([a-z]+)\r?\n([a-z]+)`)

// NormalizeText repairs words split by PDF line wrapping, drops everything
// outside 7-bit ASCII and collapses whitespace to single spaces.
// Accented characters are lost.
func NormalizeText(raw string) string {
	if raw == "" {
		return ""
	}

	text := wrappedWordPattern.ReplaceAllString(raw, "$1 $2")

	text = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		if unicode.IsSpace(r) {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)

	return strings.Join(strings.Fields(text), " ")
}
