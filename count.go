package wordembed

import "github.com/unixpickle/essentials"

// TokenCounts keeps track of how many times different
// tokens occur in some corpus.
type TokenCounts map[string]int

// CountTokens counts the tokens from a stream.
func CountTokens(stream <-chan string) TokenCounts {
	counts := TokenCounts{}
	for tok := range stream {
		counts[tok]++
	}
	return counts
}

// Add tallies each of the tokens.
func (t TokenCounts) Add(tokens ...string) {
	for _, tok := range tokens {
		t[tok]++
	}
}

// MostCommon produces the n tokens with the most
// occurrences, most frequent first.
// Tokens with equal counts are ordered lexicographically.
//
// If there are less than n total tokens, then all tokens
// are returned.
func (t TokenCounts) MostCommon(n int) []string {
	if n <= 0 {
		return nil
	}
	var counts []int
	var tokens []string
	for tok, num := range t {
		tokens = append(tokens, tok)
		counts = append(counts, num)
	}

	essentials.VoodooSort(counts, func(i, j int) bool {
		if counts[i] != counts[j] {
			return counts[i] > counts[j]
		}
		return tokens[i] < tokens[j]
	}, tokens)

	if len(tokens) > n {
		tokens = tokens[:n]
	}
	return tokens
}
