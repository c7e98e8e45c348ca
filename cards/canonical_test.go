package cards

import "testing"

func sit(hole [2]Card, board ...Card) Situation {
	return Situation{Hole: hole, Board: board}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	s := sit([2]Card{{Rank: Ace, Suit: Hearts}, {Rank: King, Suit: Spades}},
		Card{Rank: Five, Suit: Diamonds}, Card{Rank: Three, Suit: Spades}, Card{Rank: Seven, Suit: Clubs})

	once := Canonicalize(s)
	twice := Canonicalize(once.situation())
	if once != twice {
		t.Fatalf("canonicalize not idempotent: %+v vs %+v", once, twice)
	}
}

func TestCanonicalizeSuitPermutationInvariant(t *testing.T) {
	base := sit([2]Card{{Rank: Ace, Suit: Hearts}, {Rank: Ace, Suit: Spades}},
		Card{Rank: King, Suit: Hearts}, Card{Rank: Two, Suit: Diamonds}, Card{Rank: Seven, Suit: Clubs})

	permuted := sit([2]Card{{Rank: Ace, Suit: Diamonds}, {Rank: Ace, Suit: Clubs}},
		Card{Rank: King, Suit: Diamonds}, Card{Rank: Two, Suit: Hearts}, Card{Rank: Seven, Suit: Spades})

	a := Canonicalize(base)
	b := Canonicalize(permuted)
	if a != b {
		t.Fatalf("suit permutation changed canonical form: %+v vs %+v", a, b)
	}
}

func TestCanonicalizePreservesFlushStructure(t *testing.T) {
	suited := sit([2]Card{{Rank: Ace, Suit: Hearts}, {Rank: King, Suit: Hearts}},
		Card{Rank: Two, Suit: Hearts}, Card{Rank: Three, Suit: Diamonds}, Card{Rank: Four, Suit: Clubs})
	offsuit := sit([2]Card{{Rank: Ace, Suit: Hearts}, {Rank: King, Suit: Diamonds}},
		Card{Rank: Two, Suit: Hearts}, Card{Rank: Three, Suit: Diamonds}, Card{Rank: Four, Suit: Clubs})

	a := Canonicalize(suited)
	b := Canonicalize(offsuit)
	if a.Hole[0].Suit != a.Hole[1].Suit {
		t.Fatalf("expected suited hole cards to remain same-suit after canonicalization: %+v", a)
	}
	if b.Hole[0].Suit == b.Hole[1].Suit {
		t.Fatalf("expected offsuit hole cards to remain different-suit after canonicalization: %+v", b)
	}
}

func TestCanonicalizeSortsHoleAndFlop(t *testing.T) {
	s := sit([2]Card{{Rank: Two, Suit: Spades}, {Rank: Ace, Suit: Hearts}},
		Card{Rank: Seven, Suit: Diamonds}, Card{Rank: Two, Suit: Clubs}, Card{Rank: King, Suit: Spades})
	c := Canonicalize(s)
	if c.Hole[0].Rank > c.Hole[1].Rank {
		t.Fatalf("hole cards not sorted by rank: %+v", c.Hole)
	}
	for i := 0; i+1 < 3; i++ {
		if c.Board[i].Rank > c.Board[i+1].Rank {
			t.Fatalf("flop cards not sorted by rank: %+v", c.Board[:3])
		}
	}
}

func TestDedupSortedCanonicals(t *testing.T) {
	a := Canonicalize(sit([2]Card{{Rank: Ace, Suit: Hearts}, {Rank: Ace, Suit: Spades}}))
	b := Canonicalize(sit([2]Card{{Rank: Ace, Suit: Diamonds}, {Rank: Ace, Suit: Clubs}}))
	c := Canonicalize(sit([2]Card{{Rank: King, Suit: Hearts}, {Rank: King, Suit: Spades}}))

	all := []Canonical{a, b, c}
	SortCanonicals(all)
	deduped := DedupSortedCanonicals(all)
	if len(deduped) != 2 {
		t.Fatalf("len(deduped) = %d, want 2 (a and b are suit-isomorphic pairs)", len(deduped))
	}
}
