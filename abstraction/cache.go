package abstraction

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/equity"
	"github.com/lox/pokerforbots/internal/fileutil"
	lru "github.com/opencoff/golang-lru"
)

// Fingerprint identifies the parameters a cached artifact was built under.
// A cache entry whose on-disk Fingerprint doesn't match the caller's current
// parameters is treated as a miss rather than silently reused, since equity
// bins, sample counts, or bucket counts changing invalidates everything
// downstream of it.
type Fingerprint struct {
	Street         Street
	Bins           int
	OpponentDraws  int
	RolloutSamples int
	Buckets        int
}

// artifact is the on-disk payload: the fingerprint the cache was built
// under, the archetype list and its parallel equity distributions (stage
// 1), and the archetype-index to bucket assignment produced by clustering
// them (stage 2). Assignment is nil until StoreAssignment records it, so a
// cache entry written before clustering still loads cleanly as a stage-1
// hit.
type artifact struct {
	Fingerprint Fingerprint
	Archetypes  []cards.Canonical
	Histograms  []equity.Distribution
	Assignment  []int
}

// Cache persists archetype/histogram builds to disk, fingerprinted by
// build parameters, and fronts repeat in-process lookups with a bounded
// in-memory LRU so a single abstraction-building run doesn't re-decode the
// same street's gob file over and over.
type Cache struct {
	dir string
	mem *lru.Cache
}

// NewCache returns a Cache rooted at dir, holding up to memEntries decoded
// artifacts in memory at once.
func NewCache(dir string, memEntries int) (*Cache, error) {
	mem, err := lru.New(memEntries)
	if err != nil {
		return nil, err
	}
	return &Cache{dir: dir, mem: mem}, nil
}

func (c *Cache) path(fp Fingerprint) string {
	name := fmt.Sprintf("%s-bins%d-opp%d-roll%d-buckets%d.gob",
		fp.Street, fp.Bins, fp.OpponentDraws, fp.RolloutSamples, fp.Buckets)
	return filepath.Join(c.dir, name)
}

// Load returns the archetypes, histograms, and cluster assignment (if any)
// previously stored under fp, or (nil, nil, nil, false, nil) on a clean
// miss. assignment is nil when the entry predates clustering, even on a
// hit; callers must check it separately from hit.
func (c *Cache) Load(fp Fingerprint) (archetypes []cards.Canonical, histograms []equity.Distribution, assignment []int, hit bool, err error) {
	a, hit, err := c.load(fp)
	if err != nil || !hit {
		return nil, nil, nil, false, err
	}
	return a.Archetypes, a.Histograms, a.Assignment, true, nil
}

func (c *Cache) load(fp Fingerprint) (artifact, bool, error) {
	if v, ok := c.mem.Get(fp); ok {
		return v.(artifact), true, nil
	}

	f, err := os.Open(c.path(fp))
	if os.IsNotExist(err) {
		return artifact{}, false, nil
	}
	if err != nil {
		return artifact{}, false, err
	}
	defer f.Close()

	var a artifact
	if err := gob.NewDecoder(f).Decode(&a); err != nil {
		return artifact{}, false, fmt.Errorf("abstraction: decode cache entry: %w", err)
	}
	if a.Fingerprint != fp {
		return artifact{}, false, nil
	}
	c.mem.Add(fp, a)
	return a, true, nil
}

// Store persists archetypes/histograms under fp, via fileutil.WriteFileAtomic
// so a crash mid-write never leaves a corrupt cache entry behind.
func (c *Cache) Store(fp Fingerprint, archetypes []cards.Canonical, histograms []equity.Distribution) error {
	return c.write(artifact{Fingerprint: fp, Archetypes: archetypes, Histograms: histograms})
}

// StoreAssignment records the cluster assignment produced by running
// KMeans over fp's histograms, so a later Load under the same fp can skip
// reclustering entirely. It rewrites the whole artifact file rather than
// appending, keeping the on-disk format a single self-contained gob value
// per fingerprint.
func (c *Cache) StoreAssignment(fp Fingerprint, assignment []int) error {
	a, hit, err := c.load(fp)
	if err != nil {
		return fmt.Errorf("abstraction: load cache entry before recording assignment: %w", err)
	}
	if !hit {
		return fmt.Errorf("abstraction: no cached archetypes/histograms for %+v to attach assignment to", fp)
	}
	a.Assignment = assignment
	return c.write(a)
}

func (c *Cache) write(a artifact) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("abstraction: create cache dir: %w", err)
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(a); err != nil {
		return fmt.Errorf("abstraction: encode cache entry: %w", err)
	}
	if err := fileutil.WriteFileAtomic(c.path(a.Fingerprint), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("abstraction: persist cache entry: %w", err)
	}

	c.mem.Add(a.Fingerprint, a)
	return nil
}
