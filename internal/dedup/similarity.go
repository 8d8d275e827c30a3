// Package dedup flags probable duplicate CRM records using normalized
// edit-distance similarity over a small, pre-filtered candidate pool.
package dedup

import "strings"

// Similarity returns a score in [0, 1] where 1 means the strings are equal
// after lower-casing. The score is (maxLen - editDistance) / maxLen.
func Similarity(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)

	if a == b {
		return 1
	}

	longer, shorter := []rune(a), []rune(b)
	if len(shorter) > len(longer) {
		longer, shorter = shorter, longer
	}
	if len(longer) == 0 {
		return 1
	}

	distance := levenshtein(longer, shorter)
	return float64(len(longer)-distance) / float64(len(longer))
}

// levenshtein computes the classic O(n*m) edit distance over runes. Quadratic
// cost is acceptable here because callers bound the pool with a pre-filter
// query.
func levenshtein(ra, rb []rune) int {
	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)

	for j := 0; j <= len(ra); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(rb); i++ {
		curr[0] = i
		for j := 1; j <= len(ra); j++ {
			if rb[i-1] == ra[j-1] {
				curr[j] = prev[j-1]
			} else {
				curr[j] = min3(prev[j-1], curr[j-1], prev[j]) + 1
			}
		}
		prev, curr = curr, prev
	}

	return prev[len(ra)]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
