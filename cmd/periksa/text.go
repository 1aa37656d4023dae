// cmd/periksa/text.go
package main

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	wordRe       = regexp.MustCompile(`\w+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// Tokenize lowercases the text and splits it into word tokens
func Tokenize(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// tokenSet builds the unique-token set used for similarity
func tokenSet(text string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range Tokenize(text) {
		set[tok] = true
	}
	return set
}

// JaccardSimilarity computes token-set overlap between two texts:
// intersection size over union size, in [0,1].
func JaccardSimilarity(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// ExtractKeywords returns the topN most frequent tokens after dropping
// stop-words and tokens of three characters or fewer. Ties keep their
// first-seen order so results stay deterministic.
func ExtractKeywords(text string, stopwords map[string]bool, topN int) []string {
	freq := make(map[string]int)
	var order []string

	for _, tok := range Tokenize(text) {
		if len(tok) <= 3 || stopwords[tok] {
			continue
		}
		if _, seen := freq[tok]; !seen {
			order = append(order, tok)
		}
		freq[tok]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > topN {
		order = order[:topN]
	}
	return order
}

// cleanText collapses runs of whitespace and NFC-normalizes the result
// so scraped fragments compare consistently.
func cleanText(text string) string {
	text = whitespaceRe.ReplaceAllString(text, " ")
	return norm.NFC.String(strings.TrimSpace(text))
}

// countOccurrences counts non-overlapping occurrences of needle in text
func countOccurrences(text, needle string) int {
	if needle == "" {
		return 0
	}
	return strings.Count(text, needle)
}
