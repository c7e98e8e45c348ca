// Package equity estimates the showdown equity distribution of a hole-card
// and board combination against a sampled opponent range via Monte Carlo
// rollout. The resulting per-bucket histogram is the raw material the
// abstraction package clusters into card buckets.
package equity

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/eval"
	"github.com/lox/pokerforbots/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// ErrTooManyBins is returned when Config.Bins is non-positive.
var ErrTooManyBins = fmt.Errorf("equity: Bins must be positive")

// Config controls a Distribution estimation run.
type Config struct {
	// OuterSamples is how many opponent hole-card draws to take.
	OuterSamples int
	// InnerSamples is how many board-completion rollouts to run per
	// opponent draw. The product OuterSamples*InnerSamples is the total
	// number of showdowns simulated.
	InnerSamples int
	// Bins is the number of equal-width buckets the final win-rate
	// histogram is divided into; each opponent draw adds its win rate over
	// the inner rollouts to one bin.
	Bins int
	// Workers caps the number of goroutines sharding the outer loop. Zero
	// means runtime.NumCPU().
	Workers int
	// Seed makes the run reproducible; two calls with the same Seed and
	// Config on the same hand produce the same Distribution.
	Seed int64
}

// Distribution is a probability histogram over Bins equal-width equity
// ranges, estimated by Monte Carlo rollout. It sums to 1 (within floating
// point tolerance) and is the unit of comparison the k-means clusterer
// measures with earth mover's distance.
type Distribution []float64

// Estimate runs the two-loop Monte Carlo estimator described by cfg for the
// situation (hole cards plus any already-dealt board cards) and returns the
// resulting equity Distribution. The outer loop samples an opponent hole
// pair uniformly from the undealt deck; the inner loop completes the board
// by drawing without replacement from the cards left undealt (never reusing
// a card already committed to the situation or the opponent draw) and
// evaluates the showdown.
func Estimate(ctx context.Context, situation cards.Situation, cfg Config) (Distribution, error) {
	if cfg.Bins <= 0 {
		return nil, ErrTooManyBins
	}
	dead, err := cards.NewHand(append(append([]cards.Card{}, situation.Hole[:]...), situation.Board...))
	if err != nil {
		return nil, err
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > cfg.OuterSamples && cfg.OuterSamples > 0 {
		workers = cfg.OuterSamples
	}
	if workers < 1 {
		workers = 1
	}

	shares := splitEvenly(cfg.OuterSamples, workers)

	partials := make([]Distribution, workers)
	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w
		shareSeed := cfg.Seed + int64(uint64(w)*0x9e3779b97f4a7c15)
		g.Go(func() error {
			partials[w] = rolloutShare(gctx, situation, dead, cfg, shares[w], shareSeed)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := make(Distribution, cfg.Bins)
	count := 0
	for w, p := range partials {
		for i := range total {
			total[i] += p[i] * float64(shares[w])
		}
		count += shares[w]
	}
	if count == 0 {
		return total, nil
	}
	for i := range total {
		total[i] /= float64(count)
	}
	return total, nil
}

func splitEvenly(total, parts int) []int {
	out := make([]int, parts)
	base := total / parts
	rem := total % parts
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// rolloutShare runs outerSamples opponent draws (each contributing one
// bucketed win-rate to the running histogram) using an independent PRNG
// stream seeded from seed so worker shares never share RNG state.
func rolloutShare(ctx context.Context, situation cards.Situation, dead cards.Hand, cfg Config, outerSamples int, seed int64) Distribution {
	hist := make(Distribution, cfg.Bins)
	if outerSamples == 0 {
		return hist
	}
	rng := randutil.New(seed)
	undealt := cards.Remaining(dead)

	for i := 0; i < outerSamples; i++ {
		if ctx.Err() != nil {
			return hist
		}
		oppHole, rest, ok := drawTwo(undealt, rng)
		if !ok {
			continue
		}
		wins, ties, valid := 0, 0, 0
		board := make([]cards.Card, len(situation.Board), 5)
		copy(board, situation.Board)
		for j := 0; j < cfg.InnerSamples; j++ {
			full := completeBoard(board, rest, rng)
			if len(full) != 5 {
				continue
			}
			heroHand, err1 := cards.NewHand(append(append([]cards.Card{}, situation.Hole[:]...), full...))
			oppHand, err2 := cards.NewHand(append(append([]cards.Card{}, oppHole[:]...), full...))
			if err1 != nil || err2 != nil {
				continue
			}
			heroStrength, err1 := eval.Evaluate(heroHand)
			oppStrength, err2 := eval.Evaluate(oppHand)
			if err1 != nil || err2 != nil {
				continue
			}
			switch eval.Compare(heroStrength, oppStrength) {
			case 1:
				wins++
			case 0:
				ties++
			}
			valid++
		}
		if valid == 0 {
			continue
		}
		winRate := (float64(wins) + 0.5*float64(ties)) / float64(valid)
		hist[bucketOf(winRate, cfg.Bins)]++
	}

	sum := 0.0
	for _, v := range hist {
		sum += v
	}
	if sum > 0 {
		for i := range hist {
			hist[i] /= sum
		}
	}
	return hist
}

func bucketOf(winRate float64, bins int) int {
	idx := int(winRate * float64(bins))
	if idx >= bins {
		idx = bins - 1
	}
	if idx < 0 {
		idx = 0
	}
	return idx
}

func drawTwo(available []cards.Card, rng *rand.Rand) ([2]cards.Card, []cards.Card, bool) {
	if len(available) < 2 {
		return [2]cards.Card{}, nil, false
	}
	rest := append([]cards.Card(nil), available...)
	i1 := rng.IntN(len(rest))
	rest[i1], rest[len(rest)-1] = rest[len(rest)-1], rest[i1]
	c1 := rest[len(rest)-1]
	rest = rest[:len(rest)-1]

	i2 := rng.IntN(len(rest))
	rest[i2], rest[len(rest)-1] = rest[len(rest)-1], rest[i2]
	c2 := rest[len(rest)-1]
	rest = rest[:len(rest)-1]

	return [2]cards.Card{c1, c2}, rest, true
}

// completeBoard fills board (which may already hold 0, 3, or 4 cards) up to
// 5 cards by sampling without replacement from candidates.
func completeBoard(board []cards.Card, candidates []cards.Card, rng *rand.Rand) []cards.Card {
	need := 5 - len(board)
	if need <= 0 {
		return board[:5]
	}
	if need > len(candidates) {
		return nil
	}
	pool := append([]cards.Card(nil), candidates...)
	out := append([]cards.Card(nil), board...)
	for i := 0; i < need; i++ {
		idx := rng.IntN(len(pool))
		out = append(out, pool[idx])
		pool[idx] = pool[len(pool)-1]
		pool = pool[:len(pool)-1]
	}
	return out
}

