package abstraction

import (
	"testing"

	"github.com/lox/pokerforbots/cards"
)

func TestClusterLookupRoundTrips(t *testing.T) {
	deck := cards.Deck()
	hole := [2]cards.Card{deck[0], deck[1]}
	situation := cards.Situation{Hole: hole}
	c := cards.Canonicalize(situation)

	lookup, err := NewClusterLookup(Preflop, []cards.Canonical{c}, []int{7})
	if err != nil {
		t.Fatalf("NewClusterLookup: %v", err)
	}
	if got := lookup.Bucket(situation); got != 7 {
		t.Fatalf("Bucket() = %d, want 7", got)
	}
	if lookup.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", lookup.Size())
	}
}

func TestClusterLookupUnknownSituationReturnsZero(t *testing.T) {
	lookup, err := NewClusterLookup(Preflop, nil, nil)
	if err != nil {
		t.Fatalf("NewClusterLookup: %v", err)
	}
	deck := cards.Deck()
	if got := lookup.Bucket(cards.Situation{Hole: [2]cards.Card{deck[0], deck[1]}}); got != 0 {
		t.Fatalf("Bucket() = %d, want 0 for unknown situation", got)
	}
}

func TestClusterLookupRejectsLengthMismatch(t *testing.T) {
	deck := cards.Deck()
	c := cards.Canonicalize(cards.Situation{Hole: [2]cards.Card{deck[0], deck[1]}})
	if _, err := NewClusterLookup(Preflop, []cards.Canonical{c}, nil); err == nil {
		t.Fatal("expected error for mismatched lengths")
	}
}
