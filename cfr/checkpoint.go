package cfr

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/lox/pokerforbots/infoset"
	"github.com/lox/pokerforbots/internal/fileutil"
)

const checkpointFileVersion = 1

// checkpointSnapshot is a one-way dump of training progress: enough to
// inspect regrets and resume building a blueprint from, but not enough to
// resume training with exact RNG continuity. The teacher's
// LoadTrainerFromCheckpoint replays recorded RNG call counts to restore the
// exact random sequence; this trainer does not offer that (see DESIGN.md),
// so there is deliberately no LoadTrainerFromCheckpoint here.
type checkpointSnapshot struct {
	Version   int                       `json:"version"`
	SavedAt   time.Time                 `json:"saved_at"`
	Iteration int64                     `json:"iteration"`
	Stats     Stats                     `json:"stats"`
	Blinds    checkpointBlinds          `json:"blinds"`
	Nodes     map[string]checkpointNode `json:"nodes"`
}

type checkpointBlinds struct {
	SmallBlind int `json:"small_blind"`
	BigBlind   int `json:"big_blind"`
	StackSize  int `json:"stack_size"`
}

type checkpointNode struct {
	RegretSum   []float64 `json:"regret_sum"`
	StrategySum []float64 `json:"strategy_sum"`
	Visits      int64     `json:"visits"`
}

// SaveCheckpoint writes a snapshot of the current node table to path via
// fileutil.WriteFileAtomic, following the teacher's checkpoint.go
// persistence idiom.
func (t *Trainer) SaveCheckpoint(path string) error {
	snap := checkpointSnapshot{
		Version:   checkpointFileVersion,
		SavedAt:   time.Now().UTC(),
		Iteration: t.iteration.Load(),
		Stats:     t.Stats(),
		Blinds: checkpointBlinds{
			SmallBlind: t.cfg.Blinds.SmallBlind,
			BigBlind:   t.cfg.Blinds.BigBlind,
			StackSize:  t.cfg.Blinds.StackSize,
		},
		Nodes: make(map[string]checkpointNode),
	}

	t.table.Each(func(fp uint64, node *infoset.Node) {
		snap.Nodes[formatFingerprint(fp)] = checkpointNode{
			RegretSum:   node.RegretSum(),
			StrategySum: node.StrategySum(),
			Visits:      node.Visits(),
		}
	})

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(path, buf.Bytes(), 0o644)
}

func formatFingerprint(fp uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[fp&0xf]
		fp >>= 4
	}
	return string(buf)
}
