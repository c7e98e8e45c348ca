package infoset

import "sync"

// Node holds the CFR+ accumulators for one InfoSet: cumulative regret per
// legal action, the reach-weighted sum of strategies played (whose
// normalized form is the average strategy CFR converges to), and a visit
// counter.
type Node struct {
	mu          sync.Mutex
	regretSum   []float64
	strategySum []float64
	visits      int64
}

// NewNode allocates a Node with actionCount legal actions, all regrets and
// strategy sums starting at zero.
func NewNode(actionCount int) *Node {
	return &Node{
		regretSum:   make([]float64, actionCount),
		strategySum: make([]float64, actionCount),
	}
}

// ensureSize grows the node to accommodate at least n actions, in case the
// same InfoSet is later reached with a wider legal-action set than the
// call that first created it (possible if traversal order ever visits a
// narrower view of the same node first).
func (n *Node) ensureSize(actionCount int) {
	if len(n.regretSum) >= actionCount {
		return
	}
	missing := actionCount - len(n.regretSum)
	n.regretSum = append(n.regretSum, make([]float64, missing)...)
	n.strategySum = append(n.strategySum, make([]float64, missing)...)
}

// CurrentStrategy returns the regret-matching distribution over legal
// actions — r+[a] normalized, or uniform if every regret is non-positive —
// and accumulates reachProb*strategy[a] into the running strategy sum used
// to compute the average strategy at the end of training.
func (n *Node) CurrentStrategy(reachProb float64) []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	strat := n.regretMatchLocked()
	for i, p := range strat {
		n.strategySum[i] += reachProb * p
	}
	return strat
}

func (n *Node) regretMatchLocked() []float64 {
	strat := make([]float64, len(n.regretSum))
	total := 0.0
	for i, r := range n.regretSum {
		if r > 0 {
			strat[i] = r
			total += r
		}
	}
	if total <= 0 {
		uniform := 1.0 / float64(len(strat))
		for i := range strat {
			strat[i] = uniform
		}
		return strat
	}
	for i := range strat {
		strat[i] /= total
	}
	return strat
}

// AddRegret adds delta to the cumulative regret for action a, clamping the
// result to zero or above — the CFR+ variant, which empirically converges
// faster than vanilla CFR's unclamped running sum.
func (n *Node) AddRegret(a int, delta float64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.regretSum[a] += delta
	if n.regretSum[a] < 0 {
		n.regretSum[a] = 0
	}
	n.visits++
}

// AverageStrategy returns the normalized strategy-sum accumulator: the
// strategy the trainer actually recommends once training stops, as opposed
// to CurrentStrategy's per-iteration regret-matching policy.
func (n *Node) AverageStrategy() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]float64, len(n.strategySum))
	total := 0.0
	for _, s := range n.strategySum {
		total += s
	}
	if total <= 0 {
		uniform := 1.0 / float64(len(out))
		for i := range out {
			out[i] = uniform
		}
		return out
	}
	for i, s := range n.strategySum {
		out[i] = s / total
	}
	return out
}

// RegretSum returns a copy of the cumulative per-action regret, for
// checkpointing and inspection.
func (n *Node) RegretSum() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]float64, len(n.regretSum))
	copy(out, n.regretSum)
	return out
}

// StrategySum returns a copy of the cumulative reach-weighted strategy sum,
// for checkpointing and inspection.
func (n *Node) StrategySum() []float64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]float64, len(n.strategySum))
	copy(out, n.strategySum)
	return out
}

// Visits reports how many regret updates this node has received.
func (n *Node) Visits() int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visits
}

// ActionCount reports how many actions this node was sized for.
func (n *Node) ActionCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.regretSum)
}
