// internal/matching/similarity.go
package matching

import "strings"

// TitleSimilarity returns a case-insensitive similarity ratio in [0,1]
// between two titles: twice the number of characters in matching runs
// divided by the total length (Ratcliff/Obershelp).
func TitleSimilarity(a, b string) float64 {
	ar := []rune(strings.ToLower(a))
	br := []rune(strings.ToLower(b))

	total := len(ar) + len(br)
	if total == 0 {
		return 0
	}

	return 2 * float64(matchingRunes(ar, br)) / float64(total)
}

// matchingRunes counts characters covered by matching runs: the longest
// common run, plus matching runs found recursively to its left and right.
func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	ai, bi, size := longestCommonRun(a, b)
	if size == 0 {
		return 0
	}

	return size +
		matchingRunes(a[:ai], b[:bi]) +
		matchingRunes(a[ai+size:], b[bi+size:])
}

// longestCommonRun finds the longest run of characters common to a and b,
// returning its start index in each and its length.
func longestCommonRun(a, b []rune) (ai, bi, size int) {
	prev := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		cur := make([]int, len(b)+1)
		for j := 0; j < len(b); j++ {
			if a[i] != b[j] {
				continue
			}
			cur[j+1] = prev[j] + 1
			if cur[j+1] > size {
				size = cur[j+1]
				ai = i - size + 1
				bi = j - size + 1
			}
		}
		prev = cur
	}
	return ai, bi, size
}
