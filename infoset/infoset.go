// Package infoset implements the information-set identity and per-node
// regret/strategy bookkeeping the CFR+ trainer accumulates into.
package infoset

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/lox/pokerforbots/history"
)

// fingerprintK0, fingerprintK1 are the fixed siphash key halves used to
// fingerprint InfoSets. They only need to be stable across a single
// trainer run (and its blueprint consumers); they are not a security
// boundary, just a way to get a well-distributed 64-bit key.
const (
	fingerprintK0 = 0x5bd1e995623b3a7b
	fingerprintK1 = 0x9e3779b97f4a7c15
)

// InfoSet identifies a decision point for the player to act: which
// strategically-equivalent card bucket they hold, combined with the full
// betting history so far. Two InfoSets with equal Bucket and equal
// History.Bytes() are the same decision point and share one Node.
type InfoSet struct {
	Bucket  int
	History history.ActionHistory
}

// Fingerprint returns a 64-bit digest of the InfoSet suitable for use as a
// dense table key. Collisions are assumed negligible at the operating
// scale of this trainer (the same assumption the teacher's regret table
// makes about its 32-bit FNV shard hash, just at a width appropriate for
// the larger key space an uncompressed ActionHistory produces).
func (k InfoSet) Fingerprint() uint64 {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(int64(k.Bucket)))
	buf = append(buf, k.History.Bytes()...)
	return siphash.Hash(fingerprintK0, fingerprintK1, buf)
}
