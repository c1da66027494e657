// Package fuzzy finds near-miss candidates for unknown flag and subcommand
// names so parse errors can carry a "did you mean" suggestion.
package fuzzy

import "strings"

// minInputLen guards against suggesting matches for one-letter typos where
// almost anything is within editing distance.
const minInputLen = 2

// Suggest returns the candidate closest to input within maxDistance edits,
// or "" when nothing is close enough. Exact matches are not suggestions and
// are skipped. Ties are broken by preferring a longer common prefix, then by
// candidate order.
func Suggest(input string, candidates []string, maxDistance int) string {
	if len(input) < minInputLen {
		return ""
	}
	input = strings.ToLower(input)

	best := ""
	bestDist := maxDistance + 1
	bestPrefix := -1
	for _, cand := range candidates {
		lower := strings.ToLower(cand)
		if lower == input {
			continue
		}
		d := distance(input, lower, maxDistance)
		if d > maxDistance {
			continue
		}
		p := commonPrefix(input, lower)
		if d < bestDist || (d == bestDist && p > bestPrefix) {
			best, bestDist, bestPrefix = cand, d, p
		}
	}
	return best
}

// distance computes the Levenshtein distance between a and b, bailing out
// with max+1 as soon as the result is known to exceed max.
func distance(a, b string, max int) int {
	if abs(len(a)-len(b)) > max {
		return max + 1
	}
	if len(a) > len(b) {
		a, b = b, a
	}

	prev := make([]int, len(a)+1)
	cur := make([]int, len(a)+1)
	for i := range prev {
		prev[i] = i
	}

	for i := 1; i <= len(b); i++ {
		cur[0] = i
		rowMin := i
		for j := 1; j <= len(a); j++ {
			cost := 1
			if a[j-1] == b[i-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
			if cur[j] < rowMin {
				rowMin = cur[j]
			}
		}
		if rowMin > max {
			return max + 1
		}
		prev, cur = cur, prev
	}
	return prev[len(a)]
}

func commonPrefix(a, b string) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
