package suffixtree

import (
	"testing"

	"github.com/musclesoft/tiazip/internal/alphabet"
)

func chars(vals ...int) []alphabet.AlphaChar {
	out := make([]alphabet.AlphaChar, len(vals))
	for i, v := range vals {
		out[i] = alphabet.AlphaChar(v)
	}
	return out
}

func TestFindPriorMatchesEarlierRepeat(t *testing.T) {
	seq := chars(1, 2, 3, 1, 2, 3, 4)
	tree := Build(seq)

	sp := tree.FindPrior(3)
	if sp.Length == 0 {
		t.Fatal("expected a match for the repeated 1,2,3 run")
	}
	if sp.Start != 0 {
		t.Errorf("start = %d, want 0", sp.Start)
	}
	if sp.Length < 3 {
		t.Errorf("length = %d, want at least 3", sp.Length)
	}
}

func TestFindPriorNoMatchAtOrigin(t *testing.T) {
	seq := chars(1, 2, 3)
	tree := Build(seq)

	sp := tree.FindPrior(0)
	if sp.Length != 0 {
		t.Errorf("expected no match at position 0, got %+v", sp)
	}
}

func TestFindPriorOnlyLooksBackward(t *testing.T) {
	// The repeated pattern occurs at position 4, after position 1; a query
	// at position 1 must not report a match against a position that comes
	// later in the sequence.
	seq := chars(9, 1, 2, 3, 1, 2, 3)
	tree := Build(seq)

	sp := tree.FindPrior(1)
	if sp.Length != 0 {
		t.Errorf("expected no backward match at position 1, got %+v", sp)
	}
}

func TestFindPriorHandlesDistinctSymbols(t *testing.T) {
	seq := chars(1, 2, 3, 4, 5)
	tree := Build(seq)
	for i := range seq {
		sp := tree.FindPrior(i)
		if sp.Length != 0 {
			t.Errorf("position %d: expected no match among all-distinct symbols, got %+v", i, sp)
		}
	}
}
