package abstraction

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/lox/pokerforbots/equity"
	"github.com/lox/pokerforbots/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// Metric is a distance function between two equal-length equity
// distributions. EMD is the default; Euclidean is an explicit opt-in
// fallback, never an implicit one — if EMD clustering looks unstable, a
// caller must ask for Euclidean by name.
type Metric int

const (
	EMD Metric = iota
	Euclidean
)

// ErrEmptyInput is returned when KMeans is given no histograms or k<=0.
var ErrEmptyInput = fmt.Errorf("abstraction: histograms and k must be positive")

// Result holds the outcome of one KMeans run.
type Result struct {
	Assignment []int                // len(histograms); cluster index per histogram
	Centroids  []equity.Distribution // len k
	Loss       []float64            // per-iteration sum of squared nearest distances
	Iterations int
}

// KMeans clusters histograms into k buckets using Earth Mover's Distance
// (or, if metric is Euclidean, ordinary L2 distance) as the nearest-centroid
// criterion, following the standard fixed-iteration Lloyd's-algorithm
// structure: random-sample initialization, nearest-centroid assignment,
// arithmetic-mean centroid update (the L1/L2 approximation to an EMD
// centroid, which has no closed form), early-stop when the assignment
// vector stops changing.
func KMeans(ctx context.Context, histograms []equity.Distribution, k, iters int, metric Metric, seed int64) (Result, error) {
	if len(histograms) == 0 || k <= 0 {
		return Result{}, ErrEmptyInput
	}
	if k > len(histograms) {
		k = len(histograms)
	}

	rng := randutil.New(seed)
	centroids := initCentroids(histograms, k, rng)
	assignment := make([]int, len(histograms))
	for i := range assignment {
		assignment[i] = -1
	}

	var losses []float64
	iteration := 0
	for ; iteration < iters; iteration++ {
		newAssignment, loss, err := assignStep(ctx, histograms, centroids, metric)
		if err != nil {
			return Result{}, err
		}
		losses = append(losses, loss)

		unchanged := true
		for i := range assignment {
			if assignment[i] != newAssignment[i] {
				unchanged = false
				break
			}
		}
		assignment = newAssignment
		centroids = updateCentroids(histograms, assignment, centroids, k)
		if unchanged {
			iteration++
			break
		}
	}

	return Result{Assignment: assignment, Centroids: centroids, Loss: losses, Iterations: iteration}, nil
}

func initCentroids(histograms []equity.Distribution, k int, rng *rand.Rand) []equity.Distribution {
	idx := rng.Perm(len(histograms))[:k]
	out := make([]equity.Distribution, k)
	for i, h := range idx {
		out[i] = append(equity.Distribution(nil), histograms[h]...)
	}
	return out
}

// assignStep computes, for every histogram, the nearest centroid (ties
// broken by lowest index), sharding the work across errgroup workers over
// available cores. It returns the new assignment vector and the total
// sum-of-squared-nearest-distances loss for this iteration.
func assignStep(ctx context.Context, histograms []equity.Distribution, centroids []equity.Distribution, metric Metric) ([]int, float64, error) {
	n := len(histograms)
	assignment := make([]int, n)
	losses := make([]float64, n)

	workers := runtime.NumCPU()
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		g.Go(func() error {
			for i := start; i < end; i++ {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				best, bestDist := 0, distance(histograms[i], centroids[0], metric)
				for c := 1; c < len(centroids); c++ {
					d := distance(histograms[i], centroids[c], metric)
					if d < bestDist {
						best, bestDist = c, d
					}
				}
				assignment[i] = best
				losses[i] = bestDist * bestDist
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	total := 0.0
	for _, l := range losses {
		total += l
	}
	return assignment, total, nil
}

func updateCentroids(histograms []equity.Distribution, assignment []int, prev []equity.Distribution, k int) []equity.Distribution {
	bins := len(prev[0])
	sums := make([]equity.Distribution, k)
	counts := make([]int, k)
	for c := 0; c < k; c++ {
		sums[c] = make(equity.Distribution, bins)
	}
	for i, c := range assignment {
		counts[c]++
		for b := 0; b < bins; b++ {
			sums[c][b] += histograms[i][b]
		}
	}

	out := make([]equity.Distribution, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			out[c] = prev[c] // empty clusters keep their previous centroid
			continue
		}
		mean := make(equity.Distribution, bins)
		for b := 0; b < bins; b++ {
			mean[b] = sums[c][b] / float64(counts[c])
		}
		out[c] = mean
	}
	return out
}

func distance(a, b equity.Distribution, metric Metric) float64 {
	switch metric {
	case Euclidean:
		return euclidean(a, b)
	default:
		return emd(a, b)
	}
}

// emd computes the Wasserstein-1 distance between two histograms sharing
// the same equal-width binning: the L1 distance between their cumulative
// distribution functions, which is the closed-form solution to 1-D optimal
// transport.
func emd(a, b equity.Distribution) float64 {
	var cumA, cumB, total float64
	for i := range a {
		cumA += a[i]
		cumB += b[i]
		d := cumA - cumB
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

func euclidean(a, b equity.Distribution) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
