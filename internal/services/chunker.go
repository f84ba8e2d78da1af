package services

import (
	"strings"
	"unicode/utf8"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

type TextChunker interface {
	Chunk(text string) []string
}

type textChunker struct {
	maxChars int
	overlap  int
}

// NewTextChunker splits text into word-aligned windows of at most maxChars
// runes. Consecutive windows share roughly overlap runes of trailing words.
func NewTextChunker(maxChars, overlap int) TextChunker {
	if maxChars <= 0 {
		maxChars = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChars {
		overlap = maxChars / 4
	}
	return &textChunker{maxChars: maxChars, overlap: overlap}
}

func (tc *textChunker) Chunk(text string) []string {
	words := splitLongWords(strings.Fields(text), tc.maxChars)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := start
		size := 0
		for end < len(words) {
			add := utf8.RuneCountInString(words[end])
			if end > start {
				add++
			}
			if size+add > tc.maxChars && end > start {
				break
			}
			size += add
			end++
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}

		next := end
		carried := 0
		for next > start+1 {
			w := utf8.RuneCountInString(words[next-1]) + 1
			if carried+w > tc.overlap {
				break
			}
			carried += w
			next--
		}
		start = next
	}

	return chunks
}

func splitLongWords(words []string, limit int) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		runes := []rune(w)
		for len(runes) > limit {
			out = append(out, string(runes[:limit]))
			runes = runes[limit:]
		}
		if len(runes) > 0 {
			out = append(out, string(runes))
		}
	}
	return out
}
