package textmatch

// Candidate is one possible match target for an unresolved record.
type Candidate struct {
	Name string
	ID   int64
}

// Match is a successful greedy-match outcome.
type Match struct {
	Name  string
	ID    int64
	Score int
}

// Best returns the highest-scoring candidate for query, or ok=false when no
// candidate reaches threshold. Both sides are normalized before scoring.
// Ties keep the first-seen candidate; an exact 100 returns immediately.
func Best(query string, candidates []Candidate, threshold int) (Match, bool) {
	q := Normalize(query)

	var best Match
	found := false
	for _, c := range candidates {
		score := Score(q, Normalize(c.Name))
		if !found || score > best.Score {
			best = Match{Name: c.Name, ID: c.ID, Score: score}
			found = true
			if score == 100 {
				break
			}
		}
	}
	if !found || best.Score < threshold {
		return Match{}, false
	}
	return best, true
}
