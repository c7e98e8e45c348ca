// Package cfr implements the CFR+ blueprint trainer: outcome-sampling Monte
// Carlo counterfactual regret minimization over the abstracted heads-up
// betting tree defined by the history and infoset packages.
package cfr

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/pokerforbots/history"
	"github.com/lox/pokerforbots/infoset"
	"github.com/lox/pokerforbots/internal/randutil"
	"golang.org/x/sync/errgroup"
)

// ErrNoBucketSource is returned by NewTrainer when Config.Buckets is nil.
var ErrNoBucketSource = fmt.Errorf("cfr: Config.Buckets must not be nil")

// Config parameterizes a Trainer.
type Config struct {
	// Blinds fixes the stakes every traversal is dealt at. Zero value
	// means history.DefaultBlinds.
	Blinds history.BlindStructure
	// Buckets maps hole+board situations to card-abstraction buckets.
	Buckets BucketSource
	// Seed makes training reproducible. Zero means seed from wall time.
	Seed int64
	// Workers is how many traversals run concurrently per iteration, each
	// against its own private Table, merged into the shared Table at the
	// end of the iteration (spec's worker-pool concurrency mode). Zero or
	// one means the single-threaded driver mode.
	Workers int
}

// Stats captures instrumentation for one training iteration.
type Stats struct {
	NodesVisited  int64
	TerminalNodes int64
	MaxDepth      int
	IterationTime time.Duration
}

// Progress is reported periodically from Run.
type Progress struct {
	Iteration int
	TableSize int
	Stats     Stats
}

// Trainer orchestrates CFR+ iterations over a shared infoset.Table.
type Trainer struct {
	cfg       Config
	table     *infoset.Table
	iteration atomic.Int64
	rng       *rand.Rand
	clock     quartz.Clock

	statsMu sync.Mutex
	stats   Stats
}

// NewTrainer constructs a Trainer. cfg.Buckets is required; every other
// field has a usable zero value.
func NewTrainer(cfg Config) (*Trainer, error) {
	if cfg.Buckets == nil {
		return nil, ErrNoBucketSource
	}
	if cfg.Blinds == (history.BlindStructure{}) {
		cfg.Blinds = history.DefaultBlinds
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Trainer{
		cfg:   cfg,
		table: infoset.NewTable(),
		rng:   randutil.New(seed),
		clock: quartz.NewReal(),
	}, nil
}

// WithClock overrides the trainer's wall-clock source, for deterministic
// tests against a quartz.Mock.
func (t *Trainer) WithClock(clock quartz.Clock) {
	t.clock = clock
}

// Table returns the shared node table iterations accumulate into.
func (t *Trainer) Table() *infoset.Table {
	return t.table
}

// Iteration reports how many iterations have completed.
func (t *Trainer) Iteration() int64 {
	return t.iteration.Load()
}

// Stats returns the most recently completed iteration's traversal stats.
func (t *Trainer) Stats() Stats {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	return t.stats
}

func (t *Trainer) setStats(s Stats) {
	t.statsMu.Lock()
	defer t.statsMu.Unlock()
	t.stats = s
}

// Budget bounds a Run call: whichever of MaxIterations or MaxDuration is hit
// first stops the loop. Zero means unbounded on that axis.
type Budget struct {
	MaxIterations int
	MaxDuration   time.Duration
}

// Run executes iterations until ctx is cancelled or budget is exhausted. No
// partial iteration is ever left half-applied: Run only checks the budget
// and ctx between complete iterations, and an interrupted Run can simply be
// called again later against the same Trainer — there is no resumable exact
// checkpoint format to restore RNG position from (see DESIGN.md).
func (t *Trainer) Run(ctx context.Context, budget Budget, progress func(Progress)) error {
	start := t.clock.Now()

	for budget.MaxIterations <= 0 || int(t.iteration.Load()) < budget.MaxIterations {
		if budget.MaxDuration > 0 && t.clock.Since(start) >= budget.MaxDuration {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		iterStart := t.clock.Now()
		stats, err := t.singleIteration()
		if err != nil {
			return err
		}
		stats.IterationTime = t.clock.Since(iterStart)
		t.setStats(stats)
		iter := int(t.iteration.Add(1))

		if progress != nil {
			progress(Progress{Iteration: iter, TableSize: t.table.Size(), Stats: stats})
		}
	}
	return nil
}

// singleIteration runs one full CFR+ iteration: a fresh chance deal, then
// iterate() once per player as the training player. In worker-pool mode
// each worker traverses its own private Table against an independently
// seeded deal, and the results are merged into the shared Table at the end
// of the iteration — the parallel-tables concurrency mode of spec.md §5.
func (t *Trainer) singleIteration() (Stats, error) {
	workers := t.cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	seeds := make([]int64, workers)
	for i := range seeds {
		seeds[i] = t.rng.Int64()
	}

	statsSlice := make([]Stats, workers)
	tables := make([]*infoset.Table, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		w := w
		g.Go(func() error {
			table := t.table
			if workers > 1 {
				table = infoset.NewTable()
			}
			tables[w] = table

			rng := randutil.New(seeds[w])
			d := dealHand(rng)
			ctx := &iterationContext{
				table:   table,
				buckets: t.cfg.Buckets,
				deal:    d,
				sampler: rng,
				stats:   &statsSlice[w],
			}
			for player := 0; player < 2; player++ {
				if _, err := t.iterate(ctx, history.New(t.cfg.Blinds), player, [2]float64{1, 1}, 0); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Stats{}, err
	}

	if workers > 1 {
		for _, table := range tables {
			t.table.Merge(table)
		}
	}

	agg := Stats{}
	for _, s := range statsSlice {
		agg.NodesVisited += s.NodesVisited
		agg.TerminalNodes += s.TerminalNodes
		if s.MaxDepth > agg.MaxDepth {
			agg.MaxDepth = s.MaxDepth
		}
	}
	return agg, nil
}
