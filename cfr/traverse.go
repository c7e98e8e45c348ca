package cfr

import (
	"math/rand/v2"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/eval"
	"github.com/lox/pokerforbots/history"
	"github.com/lox/pokerforbots/infoset"
)

// iterationContext bundles the per-goroutine state a single iterate() call
// tree shares: the node table it reads and writes, the chance outcome it was
// dealt, the sampler driving the opponent's Monte-Carlo branch, and the
// instrumentation counters it accumulates into.
type iterationContext struct {
	table   *infoset.Table
	buckets BucketSource
	deal    deal
	sampler *rand.Rand
	stats   *Stats
}

// iterate runs one CFR+ traversal for trainingPlayer over ctx.deal's chance
// outcome, starting from h, with reach[p] the probability that player p's
// own strategy has played the actions in h leading here. It returns the
// traversal's utility to trainingPlayer, updating ctx.table's regrets and
// strategy sums along the way.
func (t *Trainer) iterate(ctx *iterationContext, h history.ActionHistory, trainingPlayer int, reach [2]float64, depth int) (float64, error) {
	if ctx.stats != nil {
		ctx.stats.NodesVisited++
		if depth > ctx.stats.MaxDepth {
			ctx.stats.MaxDepth = depth
		}
	}

	if h.HandOver() {
		if ctx.stats != nil {
			ctx.stats.TerminalNodes++
		}
		return terminalUtility(ctx.deal, h, trainingPlayer)
	}

	actions, err := h.LegalActions()
	if err != nil {
		return 0, err
	}
	actions = filterFeasible(h, actions)

	player := h.WhoseTurn()
	street := h.Street()
	bucket := ctx.buckets.Bucket(street, ctx.deal.hole[player], boardSoFar(ctx.deal, street))
	node := ctx.table.Get(infoset.InfoSet{Bucket: bucket, History: h}, len(actions))
	strategy := node.CurrentStrategy(reach[player])

	if player == trainingPlayer {
		utils := make([]float64, len(actions))
		nodeUtil := 0.0
		for i, a := range actions {
			nextReach := reach
			nextReach[player] *= strategy[i]
			u, err := t.iterate(ctx, h.Extend(a), trainingPlayer, nextReach, depth+1)
			if err != nil {
				return 0, err
			}
			utils[i] = u
			nodeUtil += strategy[i] * u
		}

		opponentReach := reach[1-player]
		for i := range actions {
			node.AddRegret(i, opponentReach*(utils[i]-nodeUtil))
		}
		return nodeUtil, nil
	}

	idx, prob := sampleStrategyIndex(strategy, ctx.sampler)
	nextReach := reach
	nextReach[player] *= prob
	return t.iterate(ctx, h.Extend(actions[idx]), trainingPlayer, nextReach, depth+1)
}

// filterFeasible drops any action whose decoded bet size would exceed the
// acting player's remaining stack, per LegalActions' documented contract
// that stack-feasibility filtering is the caller's responsibility. This
// also guarantees traversal termination: without it, a postflop MinRaise
// chain is legal indefinitely since the decision table loops back to
// {Fold, Call, MinRaise, AllIn} after every MinRaise, but AllIn's decoded
// size is always exactly the acting player's remaining stack, so it never
// gets filtered out and the hand is forced toward a decision that ends it.
// Fold is always feasible, so the result is never empty.
func filterFeasible(h history.ActionHistory, actions []history.Action) []history.Action {
	out := make([]history.Action, 0, len(actions))
	for _, a := range actions {
		if _, err := h.Extend(a).Stacks(); err != nil {
			continue
		}
		out = append(out, a)
	}
	return out
}

// FilterFeasible exports filterFeasible for consumers outside the package
// (the blueprint query path) that must index into a trained strategy using
// the exact same legal-action set a traversal would have used to build it.
func FilterFeasible(h history.ActionHistory, actions []history.Action) []history.Action {
	return filterFeasible(h, actions)
}

// SampleStrategyIndex exports sampleStrategyIndex for the blueprint query
// path, which samples from a stored average strategy the same way training
// samples from a current regret-matching strategy.
func SampleStrategyIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	return sampleStrategyIndex(strategy, rng)
}

// terminalUtility returns trainingPlayer's signed utility at a terminal
// history: the amount they net relative to their starting stack, positive
// if they show a profit on the hand. A fold forfeits the pot to the
// non-folder; otherwise showdown (or an all-in runout reaching showdown)
// evaluates both 7-card hands and splits the pot on a tie.
func terminalUtility(d deal, h history.ActionHistory, trainingPlayer int) (float64, error) {
	stacks, err := h.Stacks()
	if err != nil {
		return 0, err
	}
	contributed := [2]int{
		h.Blinds().StackSize - stacks[0],
		h.Blinds().StackSize - stacks[1],
	}

	if folder, folded := h.FoldedPlayer(); folded {
		return netUtility(contributed, 1-folder, trainingPlayer, false), nil
	}

	hand0, err := showdownHand(d, 0)
	if err != nil {
		return 0, err
	}
	hand1, err := showdownHand(d, 1)
	if err != nil {
		return 0, err
	}
	s0, err := eval.Evaluate(hand0)
	if err != nil {
		return 0, err
	}
	s1, err := eval.Evaluate(hand1)
	if err != nil {
		return 0, err
	}

	switch eval.Compare(s0, s1) {
	case 0:
		return netUtility(contributed, -1, trainingPlayer, true), nil
	case 1:
		return netUtility(contributed, 0, trainingPlayer, false), nil
	default:
		return netUtility(contributed, 1, trainingPlayer, false), nil
	}
}

func showdownHand(d deal, seat int) (cards.Hand, error) {
	cs := make([]cards.Card, 0, 7)
	cs = append(cs, d.hole[seat][0], d.hole[seat][1])
	cs = append(cs, d.board[:]...)
	return cards.NewHand(cs)
}

// netUtility computes trainingPlayer's signed winnings given each player's
// total chip contribution this hand and the winner (ignored if split is
// true, in which case the pot is shared evenly).
func netUtility(contributed [2]int, winner int, trainingPlayer int, split bool) float64 {
	pot := contributed[0] + contributed[1]
	if split {
		return float64(pot)/2 - float64(contributed[trainingPlayer])
	}
	if trainingPlayer == winner {
		return float64(pot - contributed[trainingPlayer])
	}
	return -float64(contributed[trainingPlayer])
}

// sampleStrategyIndex draws one action index from strategy (a probability
// distribution that should already sum to ~1) and returns it along with the
// probability it was drawn with. A non-positive or empty distribution falls
// back to a uniform draw.
func sampleStrategyIndex(strategy []float64, rng *rand.Rand) (int, float64) {
	if len(strategy) == 0 {
		return 0, 0
	}
	total := 0.0
	for _, p := range strategy {
		if p > 0 {
			total += p
		}
	}
	if total <= 0 {
		idx := rng.IntN(len(strategy))
		return idx, 1.0 / float64(len(strategy))
	}
	r := rng.Float64() * total
	acc := 0.0
	for i, p := range strategy {
		if p <= 0 {
			continue
		}
		acc += p
		if r <= acc {
			return i, p / total
		}
	}
	last := len(strategy) - 1
	return last, strategy[last] / total
}
