package triage

// Distance returns the minimum number of single-character insertions,
// deletions and substitutions needed to transform a into b. Two-row dynamic
// programming; inputs are short task names so no early exit is needed.
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

// Similarity scores how alike two task names are, in [0, 1]. Both names are
// normalized first, so the score is case- and punctuation-insensitive. Two
// empty normalized names are defined as identical.
func Similarity(a, b string) float64 {
	na, nb := Normalize(a), Normalize(b)

	la, lb := len([]rune(na)), len([]rune(nb))
	if la == 0 && lb == 0 {
		return 1
	}

	maxLen := la
	if lb > maxLen {
		maxLen = lb
	}

	return 1 - float64(Distance(na, nb))/float64(maxLen)
}

func minInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
