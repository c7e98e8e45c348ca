package cfr

import (
	"math/rand/v2"

	"github.com/lox/pokerforbots/history"
	"github.com/lox/pokerforbots/infoset"
	"github.com/lox/pokerforbots/internal/randutil"
)

// Exploitability estimates how far the trainer's current average strategy
// is from a Nash equilibrium by sampling hands, computing each training
// player's best response utility against the opponent's average strategy,
// and averaging best-response minus average-strategy utility over both
// seats. It is a convergence indicator to report at checkpoints (spec.md
// §4.G), not an exact game value — samples trades accuracy for the cost of
// a true best-response tree walk over the full abstracted game.
func Exploitability(table *infoset.Table, buckets BucketSource, blinds history.BlindStructure, samples int, seed int64) float64 {
	if samples <= 0 {
		return 0
	}
	rng := randutil.New(seed)
	total := 0.0
	for i := 0; i < samples; i++ {
		d := dealHand(rng)
		for player := 0; player < 2; player++ {
			br := bestResponseUtility(table, buckets, d, history.New(blinds), player, rng)
			avg := averageStrategyUtility(table, buckets, d, history.New(blinds), player, rng)
			total += br - avg
		}
	}
	return total / float64(2*samples)
}

// bestResponseUtility evaluates the best-response player's optimal utility
// against the opponent's average strategy, recursing exhaustively at the
// best-response player's own nodes and by average strategy at the
// opponent's.
func bestResponseUtility(table *infoset.Table, buckets BucketSource, d deal, h history.ActionHistory, brPlayer int, rng *rand.Rand) float64 {
	if h.HandOver() {
		u, err := terminalUtility(d, h, brPlayer)
		if err != nil {
			return 0
		}
		return u
	}
	actions, err := h.LegalActions()
	if err != nil {
		return 0
	}
	actions = filterFeasible(h, actions)
	if len(actions) == 0 {
		return 0
	}

	player := h.WhoseTurn()
	if player == brPlayer {
		best := 0.0
		for i, a := range actions {
			u := bestResponseUtility(table, buckets, d, h.Extend(a), brPlayer, rng)
			if i == 0 || u > best {
				best = u
			}
		}
		return best
	}

	street := h.Street()
	bucket := buckets.Bucket(street, d.hole[player], boardSoFar(d, street))
	strategy := averageStrategyOrUniform(table, infoset.InfoSet{Bucket: bucket, History: h}, len(actions))
	total := 0.0
	for i, a := range actions {
		total += strategy[i] * bestResponseUtility(table, buckets, d, h.Extend(a), brPlayer, rng)
	}
	return total
}

// averageStrategyOrUniform looks up key without creating a table entry,
// returning its average strategy if trained or a uniform distribution over
// actionCount actions if the key was never visited during training.
func averageStrategyOrUniform(table *infoset.Table, key infoset.InfoSet, actionCount int) []float64 {
	if node, ok := table.Find(key); ok {
		return node.AverageStrategy()
	}
	uniform := make([]float64, actionCount)
	p := 1.0 / float64(actionCount)
	for i := range uniform {
		uniform[i] = p
	}
	return uniform
}

// averageStrategyUtility evaluates brPlayer's utility when both players
// play their average strategy, by Monte-Carlo sampling one action per node
// weighted by whichever player's average strategy applies there.
func averageStrategyUtility(table *infoset.Table, buckets BucketSource, d deal, h history.ActionHistory, brPlayer int, rng *rand.Rand) float64 {
	if h.HandOver() {
		u, err := terminalUtility(d, h, brPlayer)
		if err != nil {
			return 0
		}
		return u
	}
	actions, err := h.LegalActions()
	if err != nil {
		return 0
	}
	actions = filterFeasible(h, actions)
	if len(actions) == 0 {
		return 0
	}

	player := h.WhoseTurn()
	street := h.Street()
	bucket := buckets.Bucket(street, d.hole[player], boardSoFar(d, street))
	strategy := averageStrategyOrUniform(table, infoset.InfoSet{Bucket: bucket, History: h}, len(actions))

	idx, _ := sampleStrategyIndex(strategy, rng)
	return averageStrategyUtility(table, buckets, d, h.Extend(actions[idx]), brPlayer, rng)
}
