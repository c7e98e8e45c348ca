package blueprint

import (
	"math/rand/v2"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/cfr"
	"github.com/lox/pokerforbots/history"
	"github.com/lox/pokerforbots/infoset"
)

// postflopBetFractions are the two on-tree postflop sizing fractions this
// alphabet distinguishes (see history.HalfPot/history.Pot); an opponent's
// observed bet fraction is translated against this pair.
const (
	halfPotFraction = 0.5
	potFraction     = 1.0
)

// TranslateBet maps a live opponent's postflop bet, expressed as a fraction
// of the pot before it, onto whichever of HalfPot or Pot the pseudo-harmonic
// rule prefers (spec.md §4.H): an exact match returns that action outright;
// an off-tree fraction strictly between the two is resolved probabilistically
// via PseudoHarmonic, preserving the bet's implied pot odds rather than
// always rounding to the nearer abstracted size. observedFraction at or
// below halfPotFraction returns HalfPot; at or above potFraction returns
// Pot.
func TranslateBet(observedFraction float64, rng *rand.Rand) history.Action {
	if ChooseFraction(halfPotFraction, potFraction, observedFraction, rng) == potFraction {
		return history.Pot
	}
	return history.HalfPot
}

// Query returns the blueprint's recommended action and chip amount for the
// player to act in h, holding hole with board dealt so far, per spec.md
// §4.H's query path: form the InfoSet from buckets.Bucket and h, look up
// its stored average strategy, and sample an action from it. A miss (the
// InfoSet was never visited during training, or the stored record doesn't
// match) falls back to the uniform distribution over legal actions; if even
// the legal-action set can't be computed, Query degrades to {Fold, 0}.
// Query never returns a non-nil error, per spec.md §7's policy that the
// query path never aborts — callers that want to distinguish a trained hit
// from a fallback should call Hit instead.
func (bp *Blueprint) Query(hole [2]cards.Card, board []cards.Card, h history.ActionHistory, buckets cfr.BucketSource, rng *rand.Rand) (history.Action, int, error) {
	if h.HandOver() {
		return history.Fold, 0, nil
	}
	actions, err := h.LegalActions()
	if err != nil || len(actions) == 0 {
		return history.Fold, 0, nil
	}
	actions = cfr.FilterFeasible(h, actions)
	if len(actions) == 0 {
		return history.Fold, 0, nil
	}

	player := h.WhoseTurn()
	street := h.Street()
	bucket := buckets.Bucket(street, hole, board)
	fp := infoset.InfoSet{Bucket: bucket, History: h}.Fingerprint()

	strategy, hit := bp.lookup(fp, len(actions))
	if !hit {
		strategy = uniformStrategy(len(actions))
	}

	idx, _ := cfr.SampleStrategyIndex(strategy, rng)
	action := actions[idx]

	stacksBefore, err := h.Stacks()
	if err != nil {
		return history.Fold, 0, nil
	}
	stacksAfter, err := h.Extend(action).Stacks()
	if err != nil {
		return history.Fold, 0, nil
	}
	amount := stacksBefore[player] - stacksAfter[player]
	return action, amount, nil
}

// Hit reports whether the InfoSet formed from hole, board, h, and buckets
// has a trained record in this blueprint, for callers (e.g. a fallback-rate
// counter per spec.md §7) that want to distinguish a genuine blueprint hit
// from Query's uniform fallback without duplicating its lookup logic.
func (bp *Blueprint) Hit(hole [2]cards.Card, board []cards.Card, h history.ActionHistory, buckets cfr.BucketSource) bool {
	actions, err := h.LegalActions()
	if err != nil {
		return false
	}
	actions = cfr.FilterFeasible(h, actions)
	if len(actions) == 0 {
		return false
	}
	street := h.Street()
	bucket := buckets.Bucket(street, hole, board)
	fp := infoset.InfoSet{Bucket: bucket, History: h}.Fingerprint()
	_, hit := bp.lookup(fp, len(actions))
	return hit
}

func uniformStrategy(n int) []float64 {
	out := make([]float64, n)
	p := 1.0 / float64(n)
	for i := range out {
		out[i] = p
	}
	return out
}
