package infoset

import "sync"

const shardCount = 64
const shardMask = shardCount - 1

type shard struct {
	mu      sync.RWMutex
	entries map[uint64]*Node
}

// Table is a sharded, concurrency-safe map from InfoSet fingerprint to
// Node, following the teacher's sharded-map regret table shape so that
// parallel CFR workers contend on at most one of shardCount locks rather
// than a single global one.
type Table struct {
	shards [shardCount]shard
}

// NewTable returns an empty Table ready for concurrent use.
func NewTable() *Table {
	t := &Table{}
	for i := range t.shards {
		t.shards[i].entries = make(map[uint64]*Node)
	}
	return t
}

// Get returns the Node for key, creating one sized for actionCount legal
// actions if this is the first visit.
func (t *Table) Get(key InfoSet, actionCount int) *Node {
	fp := key.Fingerprint()
	sh := &t.shards[fp&shardMask]

	sh.mu.RLock()
	node, ok := sh.entries[fp]
	sh.mu.RUnlock()
	if ok {
		node.ensureSize(actionCount)
		return node
	}

	sh.mu.Lock()
	defer sh.mu.Unlock()
	if node, ok = sh.entries[fp]; ok {
		node.ensureSize(actionCount)
		return node
	}
	node = NewNode(actionCount)
	sh.entries[fp] = node
	return node
}

// Find returns the Node for key without creating one, for read-only
// consumers like exploitability estimation that must not grow the table
// with nodes a training run never actually visited.
func (t *Table) Find(key InfoSet) (*Node, bool) {
	fp := key.Fingerprint()
	sh := &t.shards[fp&shardMask]
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	node, ok := sh.entries[fp]
	return node, ok
}

// Size returns the total number of InfoSets tracked across all shards.
func (t *Table) Size() int {
	total := 0
	for i := range t.shards {
		t.shards[i].mu.RLock()
		total += len(t.shards[i].entries)
		t.shards[i].mu.RUnlock()
	}
	return total
}

// Each calls fn once per tracked (fingerprint, Node) pair. fn must not call
// back into the Table.
func (t *Table) Each(fn func(fingerprint uint64, node *Node)) {
	for i := range t.shards {
		t.shards[i].mu.RLock()
		for fp, node := range t.shards[i].entries {
			fn(fp, node)
		}
		t.shards[i].mu.RUnlock()
	}
}

// Merge folds another Table's regret sums and strategy sums into t,
// componentwise, for the parallel-workers CFR mode where each worker trains
// on a private shard of the node table and a driver periodically merges
// shards back together.
func (t *Table) Merge(other *Table) {
	other.Each(func(fp uint64, src *Node) {
		sh := &t.shards[fp&shardMask]
		sh.mu.Lock()
		dst, ok := sh.entries[fp]
		if !ok {
			dst = NewNode(len(src.regretSum))
			sh.entries[fp] = dst
		}
		dst.ensureSize(len(src.regretSum))
		src.mu.Lock()
		dst.mu.Lock()
		for i := range src.regretSum {
			dst.regretSum[i] += src.regretSum[i]
			if dst.regretSum[i] < 0 {
				dst.regretSum[i] = 0
			}
			dst.strategySum[i] += src.strategySum[i]
		}
		dst.visits += src.visits
		dst.mu.Unlock()
		src.mu.Unlock()
		sh.mu.Unlock()
	})
}
