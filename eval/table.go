package eval

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"

	"github.com/lox/pokerforbots/cards"
	"github.com/lox/pokerforbots/internal/fileutil"
	lru "github.com/opencoff/golang-lru"
)

// tableFormatVersion tags the on-disk hand-eval table layout. Bump it
// whenever the bit-packed Strength encoding or the file's gob shape
// changes, so a stale cache from an older build is treated as a miss
// instead of silently deserialized into the wrong values.
const tableFormatVersion = 1

// Table fronts Evaluate for exactly-5-card hands with a bounded LRU cache,
// keyed by the hand's bitset value. Hole-card equity rollouts and k-means
// archetype scoring re-evaluate the same 5-card boards many times over; the
// cache turns that into a handful of bit scans the first time and a map
// lookup every time after.
type Table struct {
	cache *lru.Cache
}

// NewTable builds a Table holding at most size recent 5-card evaluations,
// with nothing preloaded.
func NewTable(size int) (*Table, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Table{cache: c}, nil
}

// LoadTable builds a Table of the given size and seeds it from path if path
// names a file previously written by Save under the current
// tableFormatVersion. A missing file or a version mismatch is not an
// error — the Table just starts cold, identically to NewTable — since the
// table is reconstructible from Evaluate alone and never the only copy of
// its data.
func LoadTable(path string, size int) (*Table, error) {
	t, err := NewTable(size)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return t, nil
	}
	if err != nil {
		return nil, fmt.Errorf("eval: open hand eval table %s: %w", path, err)
	}
	defer f.Close()

	var tf tableFile
	if err := gob.NewDecoder(f).Decode(&tf); err != nil {
		return nil, fmt.Errorf("eval: decode hand eval table %s: %w", path, err)
	}
	if tf.Version != tableFormatVersion {
		return t, nil
	}
	for hand, s := range tf.Entries {
		t.cache.Add(hand, s)
	}
	return t, nil
}

// tableFile is the on-disk payload Save writes and LoadTable reads: a
// format version tag plus every hand/strength pair resident in the cache
// at save time.
type tableFile struct {
	Version int
	Entries map[uint64]Strength
}

// Save persists every hand/strength pair currently resident in the cache
// to path via fileutil.WriteFileAtomic, fingerprinted by
// tableFormatVersion, following the same pattern abstraction.Cache uses
// for its archetype/histogram artifacts.
func (t *Table) Save(path string) error {
	keys := t.cache.Keys()
	entries := make(map[uint64]Strength, len(keys))
	for _, k := range keys {
		if v, ok := t.cache.Peek(k); ok {
			entries[k.(uint64)] = v.(Strength)
		}
	}

	tf := tableFile{Version: tableFormatVersion, Entries: entries}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(tf); err != nil {
		return fmt.Errorf("eval: encode hand eval table: %w", err)
	}
	if err := fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("eval: persist hand eval table: %w", err)
	}
	return nil
}

// Evaluate5 scores a 5-card hand, consulting and populating the cache.
func (t *Table) Evaluate5(hand cards.Hand) (Strength, error) {
	if n := hand.Count(); n != 5 {
		return 0, ErrWrongCardCount
	}
	if v, ok := t.cache.Get(uint64(hand)); ok {
		return v.(Strength), nil
	}
	s := evaluate(hand)
	t.cache.Add(uint64(hand), s)
	return s, nil
}

// Len reports the number of entries currently cached.
func (t *Table) Len() int {
	return t.cache.Len()
}
