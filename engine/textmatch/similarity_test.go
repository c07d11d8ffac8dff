package textmatch

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Kicks-Advance!", "kicksadvance"},
		{"Nissan Kicks", "nissan kicks"},
		{"Citroën C3", "citron c3"},
		{"208 GT-Line (2024)", "208 gtline 2024"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, s := range []string{"Nissan Kicks Advance CVT", "FICHA TÉCNICA:", "a-b_c d"} {
		once := Normalize(s)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalizePunctuationEquivalence(t *testing.T) {
	if Normalize("Kicks-Advance!") != Normalize("kicksadvance") {
		t.Error("punctuation should not affect the normalized form")
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"kicks", "kicks", 100},
		{"", "", 100},
		{"abcd", "abxd", 75},
		{"advance", "", 0},
	}
	for _, tt := range tests {
		if got := Ratio(tt.a, tt.b); got != tt.want {
			t.Errorf("Ratio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestScoreIdentity(t *testing.T) {
	for _, s := range []string{"nissan kicks", "a", "chevrolet onix 10 turbo"} {
		if got := Score(s, s); got != 100 {
			t.Errorf("Score(%q, %q) = %d, want 100", s, s, got)
		}
	}
}

func TestScoreEmpty(t *testing.T) {
	if got := Score("", ""); got != 100 {
		t.Errorf("Score of two empties = %d, want 100", got)
	}
	if got := Score("kicks", ""); got != 0 {
		t.Errorf("Score against empty = %d, want 0", got)
	}
}

func TestScoreContainment(t *testing.T) {
	// Extra trailing tokens on the longer side do not hurt the score.
	if got := Score("kicks advance", "nissan kicks advance cvt"); got != 100 {
		t.Errorf("Score = %d, want 100 for contained string", got)
	}
	if got := Score("nissan kicks advance cvt", "kicks advance"); got != 100 {
		t.Errorf("Score = %d, want 100 regardless of argument order", got)
	}
}

func TestScorePartialOverlap(t *testing.T) {
	got := Score("peugeot 208", "nissan versa")
	if got >= 65 {
		t.Errorf("Score of unrelated names = %d, want < 65", got)
	}
}
