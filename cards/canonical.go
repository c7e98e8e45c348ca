package cards

import "sort"

// Situation is a single hand/deck sample laid out with the positional
// convention used throughout the pipeline: two hole cards for the hand under
// consideration, followed by zero or more community cards in deal order
// (flop, flop, flop, turn, river).
type Situation struct {
	Hole  [2]Card
	Board []Card
}

// Canonical is the archetypal form of a Situation: hole cards sorted by
// rank, the flop (the first three board cards, if present) sorted by rank,
// and suits relabeled by first-occurrence order to the fixed palette
// {s, h, d, c}. Two situations that are strategically equivalent under suit
// permutation and within-street reordering map to the same Canonical value,
// which is why it is comparable with ==.
type Canonical struct {
	Hole  [2]Card
	Board [5]Card
	Cards int // number of valid board entries (0, 3, 4, or 5)
}

// Canonicalize normalizes s into its archetypal form. It runs in O(9) time
// regardless of hand size and allocates only the one small slice
// relabelSuits needs for its output, since it is called billions of times
// during abstraction construction and must not dominate the Monte Carlo
// rollout budget.
func Canonicalize(s Situation) Canonical {
	hole := s.Hole
	if rankLess(hole[1], hole[0]) {
		hole[0], hole[1] = hole[1], hole[0]
	}

	var flop [3]Card
	flopLen := 0
	if len(s.Board) >= 3 {
		flop[0], flop[1], flop[2] = s.Board[0], s.Board[1], s.Board[2]
		flopLen = 3
		sortThreeByRank(&flop)
	} else {
		for i := 0; i < len(s.Board) && i < 3; i++ {
			flop[i] = s.Board[i]
			flopLen++
		}
	}

	var sequence [9]Card
	n := 0
	sequence[n] = hole[0]
	n++
	sequence[n] = hole[1]
	n++
	for i := 0; i < flopLen; i++ {
		sequence[n] = flop[i]
		n++
	}
	for i := 3; i < len(s.Board); i++ {
		sequence[n] = s.Board[i]
		n++
	}

	relabel := relabelSuits(sequence[:n])

	var out Canonical
	out.Hole[0] = relabel[0]
	out.Hole[1] = relabel[1]
	out.Cards = n - 2
	for i := 2; i < n; i++ {
		out.Board[i-2] = relabel[i]
	}
	return out
}

// rankLess orders two cards by rank only, used to sort the hole pair.
func rankLess(a, b Card) bool {
	return a.Rank < b.Rank
}

// sortThreeByRank sorts a fixed 3-card array by rank using a manual
// comparison network: constant-time, no allocation, and avoids sort.Slice's
// interface overhead inside the hot canonicalization path.
func sortThreeByRank(c *[3]Card) {
	if c[0].Rank > c[1].Rank {
		c[0], c[1] = c[1], c[0]
	}
	if c[1].Rank > c[2].Rank {
		c[1], c[2] = c[2], c[1]
	}
	if c[0].Rank > c[1].Rank {
		c[0], c[1] = c[1], c[0]
	}
}

// relabelSuits rewrites every suit in seq to the fixed palette
// {Spades, Hearts, Diamonds, Clubs} assigned in first-occurrence order, so
// hands equivalent under any suit permutation collapse to one canonical
// representative. Flush structure survives because cards that already
// shared a suit keep sharing the same relabeled suit.
func relabelSuits(seq []Card) []Card {
	var mapping [4]Suit
	var assigned [4]bool
	next := Spades

	out := make([]Card, len(seq))
	for i, c := range seq {
		if !assigned[c.Suit] {
			mapping[c.Suit] = next
			assigned[c.Suit] = true
			next++
		}
		out[i] = Card{Rank: c.Rank, Suit: mapping[c.Suit]}
	}
	return out
}

// situation expands c back into a Situation, so tests can check the
// round-trip law Canonicalize(Canonicalize(s)) == Canonicalize(s).
func (c Canonical) situation() Situation {
	board := append([]Card(nil), c.Board[:c.Cards]...)
	return Situation{Hole: c.Hole, Board: board}
}

// Less provides a deterministic ordering over Canonical values so archetype
// enumeration can deduplicate via sort+compact instead of a map, matching
// the memory-conscious style the abstraction builder needs at tens-of-
// millions-of-entries scale.
func (c Canonical) Less(other Canonical) bool {
	if c.Hole != other.Hole {
		return cardSliceLess(c.Hole[:], other.Hole[:])
	}
	if c.Cards != other.Cards {
		return c.Cards < other.Cards
	}
	return cardSliceLess(c.Board[:c.Cards], other.Board[:c.Cards])
}

func cardSliceLess(a, b []Card) bool {
	for i := range a {
		if a[i].Rank != b[i].Rank {
			return a[i].Rank < b[i].Rank
		}
		if a[i].Suit != b[i].Suit {
			return a[i].Suit < b[i].Suit
		}
	}
	return false
}

// SortCanonicals sorts a slice of Canonical hands using Less, the first step
// of the enumerate-then-dedup pipeline in the abstraction builder.
func SortCanonicals(cs []Canonical) {
	sort.Slice(cs, func(i, j int) bool { return cs[i].Less(cs[j]) })
}

// DedupSortedCanonicals compacts a sorted slice in place, returning the
// deduplicated prefix.
func DedupSortedCanonicals(cs []Canonical) []Canonical {
	if len(cs) == 0 {
		return cs
	}
	out := cs[:1]
	for _, c := range cs[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}
