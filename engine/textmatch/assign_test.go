package textmatch

import "testing"

// pairMap indexes matched pairs by row for assertions.
func pairMap(pairs []Pair) (byRow map[int]int, unmatchedRows, unmatchedCols []int) {
	byRow = make(map[int]int)
	for _, p := range pairs {
		switch {
		case p.Row >= 0 && p.Col >= 0:
			byRow[p.Row] = p.Col
		case p.Row >= 0:
			unmatchedRows = append(unmatchedRows, p.Row)
		default:
			unmatchedCols = append(unmatchedCols, p.Col)
		}
	}
	return byRow, unmatchedRows, unmatchedCols
}

func TestPairs_CrossedAssignment(t *testing.T) {
	// Index-aligned pairing would be wrong here; the optimal assignment
	// crosses the indices.
	cars := []string{"Advance", "Exclusive"}
	prices := []string{"Exclusive", "Advance"}

	byRow, ur, uc := pairMap(Pairs(cars, prices))
	if len(ur) != 0 || len(uc) != 0 {
		t.Fatalf("unexpected unmatched: rows %v cols %v", ur, uc)
	}
	if byRow[0] != 1 {
		t.Errorf("Advance matched col %d, want 1", byRow[0])
	}
	if byRow[1] != 0 {
		t.Errorf("Exclusive matched col %d, want 0", byRow[1])
	}
}

func TestPairs_MoreRowsThanCols(t *testing.T) {
	cars := []string{"Advance", "Exclusive", "Sense"}
	prices := []string{"Exclusive", "Advance"}

	byRow, ur, uc := pairMap(Pairs(cars, prices))
	if byRow[0] != 1 || byRow[1] != 0 {
		t.Errorf("matched pairs = %v", byRow)
	}
	if len(ur) != 1 || ur[0] != 2 {
		t.Errorf("unmatched rows = %v, want [2]", ur)
	}
	if len(uc) != 0 {
		t.Errorf("unmatched cols = %v, want none", uc)
	}
}

func TestPairs_MoreColsThanRows(t *testing.T) {
	cars := []string{"Advance", "Sense"}
	prices := []string{"Exclusive", "Sense MT", "Advance CVT"}

	byRow, ur, uc := pairMap(Pairs(cars, prices))
	if byRow[0] != 2 {
		t.Errorf("Advance matched col %d, want 2", byRow[0])
	}
	if byRow[1] != 1 {
		t.Errorf("Sense matched col %d, want 1", byRow[1])
	}
	if len(ur) != 0 {
		t.Errorf("unmatched rows = %v", ur)
	}
	if len(uc) != 1 || uc[0] != 0 {
		t.Errorf("unmatched cols = %v, want [0]", uc)
	}
}

func TestPairs_EmptySides(t *testing.T) {
	if got := Pairs(nil, nil); got != nil {
		t.Errorf("Pairs(nil, nil) = %v, want nil", got)
	}

	pairs := Pairs([]string{"Advance"}, nil)
	if len(pairs) != 1 || pairs[0].Row != 0 || pairs[0].Col != -1 {
		t.Errorf("Pairs with empty cols = %v", pairs)
	}

	pairs = Pairs(nil, []string{"Advance"})
	if len(pairs) != 1 || pairs[0].Row != -1 || pairs[0].Col != 0 {
		t.Errorf("Pairs with empty rows = %v", pairs)
	}
}

func TestPairs_PoorMatchesStillPair(t *testing.T) {
	// No similarity floor: nonsense pairs are still assigned.
	pairs := Pairs([]string{"Advance"}, []string{"Zzzz"})
	byRow, ur, uc := pairMap(pairs)
	if byRow[0] != 0 || len(ur) != 0 || len(uc) != 0 {
		t.Errorf("pairs = %v, want single forced pairing", pairs)
	}
}
