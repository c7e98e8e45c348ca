package cfr

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/lox/pokerforbots/history"
)

func TestNewTrainerRequiresBucketSource(t *testing.T) {
	if _, err := NewTrainer(Config{}); err == nil {
		t.Fatal("expected ErrNoBucketSource when Config.Buckets is nil")
	}
}

func TestNewTrainerDefaultsBlinds(t *testing.T) {
	trainer, err := NewTrainer(Config{Buckets: constantBucket{}, Seed: 1})
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	if trainer.cfg.Blinds != history.DefaultBlinds {
		t.Fatalf("cfg.Blinds = %+v, want DefaultBlinds", trainer.cfg.Blinds)
	}
}

func TestRunCompletesRequestedIterationsAndGrowsTable(t *testing.T) {
	trainer, err := NewTrainer(Config{Buckets: constantBucket{}, Seed: 7})
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}

	var lastProgress Progress
	err = trainer.Run(context.Background(), Budget{MaxIterations: 5}, func(p Progress) {
		lastProgress = p
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if trainer.Iteration() != 5 {
		t.Fatalf("Iteration() = %d, want 5", trainer.Iteration())
	}
	if lastProgress.Iteration != 5 {
		t.Fatalf("last progress iteration = %d, want 5", lastProgress.Iteration)
	}
	if trainer.Table().Size() == 0 {
		t.Fatal("expected the node table to have grown after training iterations")
	}
}

func TestRunRespectsContextCancellation(t *testing.T) {
	trainer, err := NewTrainer(Config{Buckets: constantBucket{}, Seed: 3})
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = trainer.Run(ctx, Budget{MaxIterations: 100}, nil)
	if err == nil {
		t.Fatal("expected Run to return the cancellation error")
	}
}

func TestSaveCheckpointWritesReadableFile(t *testing.T) {
	trainer, err := NewTrainer(Config{Buckets: constantBucket{}, Seed: 11})
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	if err := trainer.Run(context.Background(), Budget{MaxIterations: 3}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}

	path := filepath.Join(t.TempDir(), "checkpoint.json")
	if err := trainer.SaveCheckpoint(path); err != nil {
		t.Fatalf("SaveCheckpoint: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("checkpoint file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("checkpoint file is empty")
	}
}

func TestExploitabilityIsFiniteAfterTraining(t *testing.T) {
	trainer, err := NewTrainer(Config{Buckets: constantBucket{}, Seed: 5})
	if err != nil {
		t.Fatalf("NewTrainer: %v", err)
	}
	if err := trainer.Run(context.Background(), Budget{MaxIterations: 3}, nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	exploit := Exploitability(trainer.Table(), constantBucket{}, history.DefaultBlinds, 2, 99)
	if exploit != exploit { // NaN check
		t.Fatal("Exploitability returned NaN")
	}
}
