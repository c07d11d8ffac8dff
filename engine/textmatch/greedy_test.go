package textmatch

import "testing"

func kicksCandidates() []Candidate {
	return []Candidate{
		{Name: "Nissan Kicks Advance", ID: 1},
		{Name: "Nissan Versa", ID: 2},
	}
}

func TestBest(t *testing.T) {
	m, ok := Best("Nissan Kicks", kicksCandidates(), 65)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.ID != 1 {
		t.Errorf("matched ID %d, want 1", m.ID)
	}
	if m.Score != 100 {
		t.Errorf("score = %d, want 100 (query contained in candidate)", m.Score)
	}
}

func TestBest_BelowThreshold(t *testing.T) {
	if _, ok := Best("Peugeot 208", kicksCandidates(), 65); ok {
		t.Error("expected no match for an unrelated query")
	}
}

func TestBest_NoCandidates(t *testing.T) {
	if _, ok := Best("Nissan Kicks", nil, 0); ok {
		t.Error("expected no match for empty candidate set")
	}
}

func TestBest_TieKeepsFirstSeen(t *testing.T) {
	candidates := []Candidate{
		{Name: "abxd", ID: 10},
		{Name: "abyd", ID: 20},
	}
	m, ok := Best("abcd", candidates, 70)
	if !ok {
		t.Fatal("expected a match")
	}
	if m.ID != 10 {
		t.Errorf("tie resolved to ID %d, want first-seen 10", m.ID)
	}
}

func TestBest_ExactShortCircuit(t *testing.T) {
	// An exact match may stop the scan early; the outcome is the same either way.
	candidates := []Candidate{
		{Name: "Nissan Kicks", ID: 1},
		{Name: "Nissan Kicks", ID: 2},
	}
	m, ok := Best("nissan kicks", candidates, 65)
	if !ok || m.ID != 1 {
		t.Errorf("match = %+v, %v; want ID 1", m, ok)
	}
}
