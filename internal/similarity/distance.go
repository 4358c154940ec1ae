package similarity

import "strings"

// minSubstringLen is the shortest common substring worth scoring;
// anything below is incidental character overlap.
const minSubstringLen = 4

// charLevenshteinMax bounds the quadratic character-level edit-distance
// computation. Longer inputs switch to whitespace words as the edit
// alphabet, which keeps the cost near-linear in character count.
const charLevenshteinMax = 300

// substringScore scales the longest common substring against the
// shorter input, so a long overlap inside two long strings is not
// rewarded the way the same overlap inside short strings is.
func substringScore(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	l := longestCommonSubstring(ra, rb)
	if l < minSubstringLen {
		return 0
	}
	return clamp01(float64(l) / float64(min(len(ra), len(rb))))
}

// longestCommonSubstring finds the length of the longest contiguous
// shared run (case-sensitive) via dynamic programming with two rolling
// rows.
func longestCommonSubstring(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}
	return best
}

// editDistanceScore is normalized Levenshtein similarity:
// 1 − distance/max(len1, len2). Character-level for short inputs,
// word-level beyond charLevenshteinMax.
func editDistanceScore(a, b string) float64 {
	if len(a) <= charLevenshteinMax && len(b) <= charLevenshteinMax {
		ra, rb := []rune(a), []rune(b)
		d := levenshtein(ra, rb)
		return clamp01(1 - float64(d)/float64(max(len(ra), len(rb))))
	}
	wa, wb := strings.Fields(a), strings.Fields(b)
	longest := max(len(wa), len(wb))
	if longest == 0 {
		return 0
	}
	d := levenshtein(wa, wb)
	return clamp01(1 - float64(d)/float64(longest))
}

// levenshtein computes edit distance over any comparable alphabet —
// runes for short inputs, whitespace words for long ones.
func levenshtein[T comparable](a, b []T) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
