package textmatch

// Ratio scores the similarity of two strings in [0,100] using edit distance
// with substitutions weighted double, so it matches the classic
// (matches*2)/(len(a)+len(b)) sequence ratio. Two empty strings score 100.
func Ratio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 100
	}
	dist := weightedEditDistance(ra, rb)
	return (100*(total-dist) + total/2) / total
}

// Score is the partial-ratio similarity: the best Ratio between the shorter
// string and any equal-length window of the longer one. 100 means the
// shorter string aligns fully inside the longer; 0 means no run of common
// characters. Tolerant of extra trailing tokens and truncation. Not exactly
// symmetric for unequal lengths because the shorter side picks the window.
func Score(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		if len(rb) == 0 {
			return 100
		}
		return 0
	}
	if len(ra) == len(rb) {
		return Ratio(string(ra), string(rb))
	}

	best := 0
	for i := 0; i+len(ra) <= len(rb); i++ {
		total := 2 * len(ra)
		dist := weightedEditDistance(ra, rb[i:i+len(ra)])
		r := (100*(total-dist) + total/2) / total
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

// weightedEditDistance is Levenshtein distance with substitution cost 2 and
// insert/delete cost 1, computed over two rune slices.
func weightedEditDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			sub := prev[j-1]
			if a[i-1] != b[j-1] {
				sub += 2
			}
			del := prev[j] + 1
			ins := cur[j-1] + 1
			m := sub
			if del < m {
				m = del
			}
			if ins < m {
				m = ins
			}
			cur[j] = m
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
