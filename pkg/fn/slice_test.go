package fn

import (
	"reflect"
	"testing"
)

func TestMap(t *testing.T) {
	got := Map([]int{1, 2, 3}, func(n int) int { return n * 2 })
	if !reflect.DeepEqual(got, []int{2, 4, 6}) {
		t.Errorf("Map = %v", got)
	}
}

func TestFilter(t *testing.T) {
	got := Filter([]int{1, 2, 3, 4}, func(n int) bool { return n%2 == 0 })
	if !reflect.DeepEqual(got, []int{2, 4}) {
		t.Errorf("Filter = %v", got)
	}
	if Filter([]int{1, 3}, func(n int) bool { return n > 5 }) != nil {
		t.Error("expected nil for no matches")
	}
}

func TestGroupBy(t *testing.T) {
	got := GroupBy([]string{"aa", "b", "cc", "d"}, func(s string) int { return len(s) })
	if len(got[1]) != 2 || len(got[2]) != 2 {
		t.Errorf("GroupBy = %v", got)
	}
	if got[2][0] != "aa" || got[2][1] != "cc" {
		t.Error("group order not preserved")
	}
}

func TestUnique(t *testing.T) {
	got := Unique([]string{"a", "b", "a", "c", "b"})
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Unique = %v", got)
	}
}

func TestChunk(t *testing.T) {
	got := Chunk([]int{1, 2, 3, 4, 5}, 2)
	if len(got) != 3 || len(got[2]) != 1 {
		t.Errorf("Chunk = %v", got)
	}
	if Chunk([]int{1}, 0) != nil {
		t.Error("expected nil for n <= 0")
	}
}

func TestMostCommon(t *testing.T) {
	v, ok := MostCommon([]string{"kicks", "versa", "kicks"})
	if !ok || v != "kicks" {
		t.Errorf("MostCommon = %q, %v", v, ok)
	}

	// Tie broken by first appearance.
	v, _ = MostCommon([]string{"a", "b"})
	if v != "a" {
		t.Errorf("tie-break = %q, want a", v)
	}

	if _, ok := MostCommon([]int(nil)); ok {
		t.Error("expected false for empty input")
	}
}
