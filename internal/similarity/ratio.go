// Package similarity implements the multi-metric candidate/job scoring
// engine: a per-job context cache, seven scoring metrics, and the weighted
// combination used for batch ranking.
package similarity

// Ratio returns a normalized similarity between two strings in [0,1].
// It is symmetric and returns 1.0 iff a == b. The measure is
// Ratcliff/Obershelp (2*M/T over recursive longest common blocks), which is
// what the metric thresholds (0.6, 0.7, 0.8) were calibrated against.
func Ratio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1.0
	}
	m := matchingTotal(ra, rb)
	return 2.0 * float64(m) / float64(total)
}

// matchingTotal counts matching runes across the longest matching block and,
// recursively, the regions to its left and right.
func matchingTotal(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	ai, bi, size := longestMatch(a, b)
	if size == 0 {
		return 0
	}
	return size + matchingTotal(a[:ai], b[:bi]) + matchingTotal(a[ai+size:], b[bi+size:])
}

// longestMatch finds the longest block a[ai:ai+size] == b[bi:bi+size],
// preferring the earliest position in a, then in b, on ties.
func longestMatch(a, b []rune) (ai, bi, size int) {
	b2j := make(map[rune][]int, len(b))
	for j, r := range b {
		b2j[r] = append(b2j[r], j)
	}
	j2len := make(map[int]int)
	for i, r := range a {
		newJ2len := make(map[int]int)
		for _, j := range b2j[r] {
			k := j2len[j-1] + 1
			newJ2len[j] = k
			if k > size {
				ai, bi, size = i-k+1, j-k+1, k
			}
		}
		j2len = newJ2len
	}
	return ai, bi, size
}
