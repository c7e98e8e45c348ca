package abstraction

import "github.com/lox/pokerforbots/cards"

// PreflopBucket maps a hole-card pair to one of the 169 strategically
// distinct starting hands: 13 pocket pairs, 78 suited combos, and 78
// offsuit combos. Unlike postflop buckets (which come from k-means over
// equity distributions), preflop gets a direct hash because 169 is small
// enough to enumerate exactly and every hand in a class is a precise
// isomorphism of every other.
func PreflopBucket(hole [2]cards.Card) int {
	hi, lo := hole[0].Rank, hole[1].Rank
	if hi < lo {
		hi, lo = lo, hi
	}
	hiIdx := int(hi - cards.Two)
	loIdx := int(lo - cards.Two)

	if hiIdx == loIdx {
		return hiIdx // 13 pocket pairs occupy buckets 0..12
	}

	// 78 unordered rank pairs above the diagonal, each split into a suited
	// and an offsuit bucket.
	pairIndex := offDiagonalIndex(hiIdx, loIdx)
	suited := hole[0].Suit == hole[1].Suit
	base := 13 + pairIndex*2
	if suited {
		return base
	}
	return base + 1
}

// offDiagonalIndex returns a dense index in [0, 78) for the unordered pair
// (hi, lo) with hi > lo, both in [0, 13).
func offDiagonalIndex(hi, lo int) int {
	// Count pairs with a smaller high rank first, then offset by lo within
	// the current high-rank row.
	idx := 0
	for h := 1; h < hi; h++ {
		idx += h
	}
	return idx + lo
}

// PreflopBucketCount is the fixed number of preflop buckets: 13 pairs plus
// 78 suited plus 78 offsuit combos.
const PreflopBucketCount = 13 + 78 + 78
