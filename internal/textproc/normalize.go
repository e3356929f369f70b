// Package textproc provides the shared text normalization pipeline used by
// every document entering the matching vector space. Resume and vacancy
// texts must pass through the same pipeline so their vocabularies agree.
package textproc

import (
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

const minTokenLen = 3

// Normalize lowercases the text, collapses non-alphanumeric runs into single
// spaces, splits on whitespace, drops short tokens and English stop words and
// reduces the rest to a canonical stemmed form. It is a pure function of its
// input.
func Normalize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))

	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))

	for _, word := range fields {
		if len([]rune(word)) < minTokenLen {
			continue
		}
		if stopWords[word] {
			continue
		}

		stemmed, err := snowball.Stem(word, "english", false)
		if err != nil || stemmed == "" {
			// Tokens the stemmer cannot handle pass through unchanged.
			stemmed = word
		}

		tokens = append(tokens, stemmed)
	}

	return tokens
}
