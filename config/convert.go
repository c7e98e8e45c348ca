package config

import (
	"encoding/binary"

	"github.com/dchest/siphash"
	"github.com/lox/pokerforbots/abstraction"
	"github.com/lox/pokerforbots/equity"
	"github.com/lox/pokerforbots/history"
)

// fingerprintK0, fingerprintK1 are fixed siphash key halves playing the
// same role as infoset.InfoSet's, but a different pair; that only matters if two fingerprinted
// spaces are ever compared directly, which config's and infoset's aren't.
const (
	fingerprintK0 = 0x2545f4914f6cdd1d
	fingerprintK1 = 0x1f83d9ab9fb9d0c3
)

// BlindStructure converts the training block's stake fields into the
// history package's blind structure.
func (c TrainingConfig) BlindStructure() history.BlindStructure {
	return history.BlindStructure{
		SmallBlind: c.SmallBlind,
		BigBlind:   c.BigBlind,
		StackSize:  c.StackSize,
	}
}

// EquityConfig builds an equity.Config for sampling archetype populations
// under this abstraction budget; the same Config serves every street.
func (c AbstractionConfig) EquityConfig() equity.Config {
	return equity.Config{
		OuterSamples: c.OuterSamples,
		InnerSamples: c.InnerSamples,
		Bins:         c.EquityBins,
		Seed:         c.Seed,
	}
}

// BucketsFor returns the k-means cluster target for street. Preflop has no
// clustered bucket count (see AbstractionConfig's doc comment), so callers
// should not ask for it here.
func (c AbstractionConfig) BucketsFor(street abstraction.Street) int {
	switch street {
	case abstraction.Flop:
		return c.FlopBuckets
	case abstraction.Turn:
		return c.TurnBuckets
	case abstraction.River:
		return c.RiverBuckets
	default:
		return 0
	}
}

// Fingerprint returns a 64-bit digest of every abstraction field plus the
// training block's SmallBlind, BigBlind and StackSize, suitable as the
// parameter fingerprint a blueprint.Blueprint is built under (see
// blueprint.Build). The other training fields (iterations, workers, seed,
// durations, exploitability samples) do not enter the digest. Two configs
// that agree on the hashed fields always fingerprint identically, so a live
// player can refuse to load a blueprint trained under a different
// abstraction or stake.
func (c RootConfig) Fingerprint() uint64 {
	buf := make([]byte, 0, 128)
	buf = appendInt(buf, c.Abstraction.FlopBuckets)
	buf = appendInt(buf, c.Abstraction.TurnBuckets)
	buf = appendInt(buf, c.Abstraction.RiverBuckets)
	buf = appendInt(buf, c.Abstraction.EquityBins)
	buf = appendInt(buf, c.Abstraction.OuterSamples)
	buf = appendInt(buf, c.Abstraction.InnerSamples)
	buf = appendInt(buf, c.Abstraction.KMeansIters)
	buf = appendInt(buf, int(c.Abstraction.Seed))
	buf = appendInt(buf, c.Training.SmallBlind)
	buf = appendInt(buf, c.Training.BigBlind)
	buf = appendInt(buf, c.Training.StackSize)
	return siphash.Hash(fingerprintK0, fingerprintK1, buf)
}

func appendInt(buf []byte, v int) []byte {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(int64(v)))
	return append(buf, b[:]...)
}
