package pipeline

import (
	"regexp"
	"strings"
)

var wordRE = regexp.MustCompile(`\pL+`)

// SimpleAnalyzer is a fallback analyzer for running without an NLP
// backend: it extracts alphabetic tokens and uses the lowercased surface
// form as its own lemma, with no part-of-speech information. Good enough
// for harvesting, not for grammar.
type SimpleAnalyzer struct{}

// Analyze splits text into word tokens
func (SimpleAnalyzer) Analyze(text string) ([]Token, error) {
	words := wordRE.FindAllString(text, -1)
	tokens := make([]Token, 0, len(words))
	for _, w := range words {
		tokens = append(tokens, Token{
			Surface: strings.ToLower(w),
			Lemma:   strings.ToLower(w),
		})
	}
	return tokens, nil
}
