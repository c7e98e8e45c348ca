package cfr

import (
	"github.com/lox/pokerforbots/abstraction"
	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/history"
)

// BucketSource assigns a card-abstraction bucket id to a player's hole cards
// and the board dealt so far on street. The trainer only depends on this
// interface, not on how the buckets were produced, so a traversal can run
// against a cheap preflop-only source in a test and a full equity/k-means
// pipeline in production.
type BucketSource interface {
	Bucket(street history.Street, hole [2]cards.Card, board []cards.Card) int
}

// StreetBuckets composes the exact 169-hash preflop bucketer with one
// abstraction.ClusterLookup per postflop street, mirroring the shape of the
// teacher's BucketMapper (HoleBucket combined with BoardBucket) but
// generalized to the street-dispatched equity/k-means abstraction this
// trainer uses instead of the teacher's hand-tuned scoring formula.
type StreetBuckets struct {
	Flop  *abstraction.ClusterLookup
	Turn  *abstraction.ClusterLookup
	River *abstraction.ClusterLookup
}

// Bucket implements BucketSource. A nil lookup for the requested street
// falls back to the preflop bucket, which keeps a partially-built
// abstraction (e.g. flop clusters trained but not yet turn/river) usable
// rather than requiring every street's clustering to finish before any
// traversal can run.
func (b StreetBuckets) Bucket(street history.Street, hole [2]cards.Card, board []cards.Card) int {
	switch street {
	case history.Preflop:
		return abstraction.PreflopBucket(hole)
	case history.Flop:
		return b.lookup(b.Flop, hole, board)
	case history.Turn:
		return b.lookup(b.Turn, hole, board)
	case history.River:
		return b.lookup(b.River, hole, board)
	default:
		return abstraction.PreflopBucket(hole)
	}
}

func (b StreetBuckets) lookup(l *abstraction.ClusterLookup, hole [2]cards.Card, board []cards.Card) int {
	if l == nil {
		return abstraction.PreflopBucket(hole)
	}
	return l.Bucket(cards.Situation{Hole: hole, Board: board})
}
