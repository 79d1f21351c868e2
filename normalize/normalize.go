// Package normalize turns raw engine output into the result shape returned
// to clients.
package normalize

import (
	"strings"
	"unicode/utf8"
)

// Result is the normalized extraction outcome. CharacterCount is the number
// of Unicode code points in Text, WordCount the number of whitespace-delimited
// non-empty tokens, and LineCount the number of newline-delimited segments
// (at least 1, even for empty text).
type Result struct {
	Text           string `json:"text"`
	CharacterCount int    `json:"characterCount"`
	WordCount      int    `json:"wordCount"`
	LineCount      int    `json:"lineCount"`
}

// Normalize trims outer whitespace from raw and computes derived counts.
// Internal whitespace is preserved: line breaks carry layout information the
// user cares about. Any input, including the empty string, yields a valid
// result.
func Normalize(raw string) Result {
	text := strings.TrimSpace(raw)
	return Result{
		Text:           text,
		CharacterCount: utf8.RuneCountInString(text),
		WordCount:      len(strings.Fields(text)),
		LineCount:      strings.Count(text, "\n") + 1,
	}
}
