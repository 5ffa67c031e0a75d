// Package tokenizer turns article text into index terms.
// It lower-cases input and splits it into maximal runs of letters, numbers
// (including superscripts and fractions) and underscores. There is no stemming and no stop-word removal, so "ant"
// and "ants" are distinct terms.
package tokenizer

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tokenize returns the terms of text in order of occurrence.
func Tokenize(text string) []string {
	return strings.FieldsFunc(Lower(text), isSeparator)
}

// Frequencies counts the occurrences of every term in text.
func Frequencies(text string) map[string]int {
	counts := make(map[string]int)
	for _, term := range Tokenize(text) {
		counts[term]++
	}
	return counts
}

// Lower lower-cases s using Unicode case mapping rules.
// A fresh Caser is used per call because cases.Caser is not safe for
// concurrent use.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func isSeparator(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_'
}
