// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match decides whether two title strings likely name the same paper.
// Open-access indexes often truncate, wrap, or re-punctuate titles, so the
// comparison is deliberately recall-biased: containment is accepted before
// the token-overlap fallback is consulted.
package match

import (
	"strings"
	"unicode"
)

// stopWords are excluded from the token-overlap comparison.
var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "of": true, "in": true, "on": true,
	"at": true, "to": true, "for": true, "and": true, "or": true, "with": true,
}

// overlapThreshold is the minimum token-overlap ratio for a fuzzy match.
const overlapThreshold = 0.7

// Normalize returns the canonical comparison form of a title: lower-cased,
// punctuation mapped to spaces, whitespace collapsed.
func Normalize(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Titles reports whether two titles are similar enough to be the same paper.
// Exact match after normalization and substring containment in either
// direction are accepted outright. Otherwise stop words are removed from
// each token set and the titles match when the overlap ratio
// |A∩B| / min(|A|,|B|) exceeds 0.7; a set emptied by stop-word removal
// never matches.
func Titles(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == nb {
		return true
	}
	if na == "" || nb == "" {
		return false
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	setA := contentWords(na)
	setB := contentWords(nb)
	if len(setA) == 0 || len(setB) == 0 {
		return false
	}

	shared := 0
	for w := range setA {
		if setB[w] {
			shared++
		}
	}
	smaller := len(setA)
	if len(setB) < smaller {
		smaller = len(setB)
	}
	return float64(shared)/float64(smaller) > overlapThreshold
}

// contentWords splits a normalized title into its non-stop-word token set.
func contentWords(normalized string) map[string]bool {
	words := make(map[string]bool)
	for _, w := range strings.Fields(normalized) {
		if !stopWords[w] {
			words[w] = true
		}
	}
	return words
}
