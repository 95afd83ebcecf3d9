// Package wordcloud turns the catalog's use-case text into a styled
// word-cloud image.
package wordcloud

import (
	"sort"
	"strings"
	"unicode"
)

// minTokenLength drops short connective scraps ("a", "of", "to"). It also
// drops the ubiquitous "ai", which would otherwise dominate every cloud.
const minTokenLength = 3

// stopwords are high-frequency English words that carry no signal in
// use-case text.
var stopwords = map[string]struct{}{
	"and": {}, "the": {}, "for": {}, "with": {}, "that": {}, "this": {},
	"from": {}, "into": {}, "your": {}, "their": {}, "them": {}, "they": {},
	"are": {}, "can": {}, "will": {}, "has": {}, "have": {}, "had": {},
	"was": {}, "were": {}, "been": {}, "being": {}, "its": {}, "our": {},
	"you": {}, "all": {}, "any": {}, "more": {}, "most": {}, "other": {},
	"such": {}, "than": {}, "then": {}, "also": {}, "each": {}, "via": {},
	"per": {}, "not": {}, "but": {}, "out": {}, "how": {}, "what": {},
	"when": {}, "where": {}, "which": {}, "while": {}, "who": {}, "why": {},
	"about": {}, "across": {}, "after": {}, "based": {}, "both": {},
	"between": {}, "through": {}, "using": {}, "within": {}, "without": {},
}

// Frequencies tokenizes the given texts and counts word occurrences.
// Tokens are case-folded, split on non-letter/digit runes, and filtered
// against the stopword list and the minimum length.
func Frequencies(texts []string) map[string]int {
	freq := make(map[string]int)
	for _, text := range texts {
		tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		})
		for _, tok := range tokens {
			if len(tok) < minTokenLength {
				continue
			}
			if _, stop := stopwords[tok]; stop {
				continue
			}
			freq[tok]++
		}
	}
	return freq
}

// TopN returns the n most frequent words. Ties break alphabetically so the
// selection is stable across runs.
func TopN(freq map[string]int, n int) map[string]int {
	if n <= 0 || len(freq) <= n {
		return freq
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})

	out := make(map[string]int, n)
	for _, w := range words[:n] {
		out[w] = freq[w]
	}
	return out
}
