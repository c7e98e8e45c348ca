package main

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lox/pokerforbots/blueprint"
	"github.com/lox/pokerforbots/cfr"
	"github.com/lox/pokerforbots/config"
)

// TrainCmd runs MCCFR training to a fixed iteration or wall-clock budget
// and writes the resulting blueprint artifact, mirroring the shape of the
// teacher's TrainCmd but driven entirely by an HCL config file rather than
// a long flag list.
type TrainCmd struct {
	CacheDir       string `help:"directory for cached equity/clustering artifacts" default:"cache"`
	CheckpointPath string `help:"where periodic JSON training checkpoints are written" default:"checkpoint.json"`
	Out            string `help:"path to write the trained blueprint artifact" arg:""`
}

func (cmd *TrainCmd) Run(ctx context.Context, logger *log.Logger) error {
	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger.Info("building card abstraction", "flop_buckets", cfg.Abstraction.FlopBuckets,
		"turn_buckets", cfg.Abstraction.TurnBuckets, "river_buckets", cfg.Abstraction.RiverBuckets)
	buckets, err := buildAbstraction(ctx, cfg, cmd.CacheDir, logger)
	if err != nil {
		return err
	}

	trainer, err := cfr.NewTrainer(cfr.Config{
		Blinds:  cfg.Training.BlindStructure(),
		Buckets: buckets,
		Seed:    cfg.Training.Seed,
		Workers: cfg.Training.Workers,
	})
	if err != nil {
		return fmt.Errorf("construct trainer: %w", err)
	}

	lastCheckpoint := time.Now()
	checkpointEvery := cfg.Training.CheckpointInterval()

	progress := func(p cfr.Progress) {
		logger.Info("training progress", "iteration", p.Iteration, "table_size", p.TableSize,
			"nodes_visited", p.Stats.NodesVisited, "iteration_time", p.Stats.IterationTime)

		if checkpointEvery <= 0 || time.Since(lastCheckpoint) < checkpointEvery {
			return
		}
		lastCheckpoint = time.Now()
		if err := trainer.SaveCheckpoint(cmd.CheckpointPath); err != nil {
			logger.Warn("checkpoint failed", "error", err)
			return
		}
		logger.Info("checkpoint written", "path", cmd.CheckpointPath)
	}

	budget := cfr.Budget{
		MaxIterations: cfg.Training.Iterations,
		MaxDuration:   cfg.Training.MaxDuration(),
	}
	logger.Info("training started", "iterations", budget.MaxIterations, "max_duration", budget.MaxDuration)
	if err := trainer.Run(ctx, budget, progress); err != nil {
		return fmt.Errorf("training run: %w", err)
	}
	logger.Info("training finished", "iterations", trainer.Iteration())

	if cfg.Training.ExploitabilitySamples > 0 {
		exploit := cfr.Exploitability(trainer.Table(), buckets, cfg.Training.BlindStructure(),
			cfg.Training.ExploitabilitySamples, cfg.Training.Seed+1)
		logger.Info("exploitability estimate", "mbb_per_hand", exploit/float64(cfg.Training.BigBlind)*1000)
	}

	bp, err := blueprint.Build(trainer.Table(), cfg.Fingerprint())
	if err != nil {
		return fmt.Errorf("build blueprint: %w", err)
	}
	if err := bp.Save(cmd.Out); err != nil {
		return fmt.Errorf("save blueprint: %w", err)
	}
	logger.Info("blueprint written", "path", cmd.Out, "records", bp.Size())
	return nil
}
