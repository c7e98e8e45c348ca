// Package config loads the abstraction and training parameters the rest of
// the solver runs under from an HCL file, following the same
// parse-then-decode-then-default shape as the teacher's server
// configuration (internal/server/config.go), generalized from the
// teacher's table/bot configuration to card abstraction and CFR+ training.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// AbstractionConfig controls how the offline card-abstraction pipeline
// builds its postflop cluster lookups: the Monte Carlo equity sampling
// budget and the k-means cluster count, per street. Preflop has no entry
// here because its 169-bucket abstraction is an exact closed form
// (abstraction.PreflopBucket), not a sampled/clustered one.
type AbstractionConfig struct {
	FlopBuckets  int   `hcl:"flop_buckets,optional"`
	TurnBuckets  int   `hcl:"turn_buckets,optional"`
	RiverBuckets int   `hcl:"river_buckets,optional"`
	EquityBins   int   `hcl:"equity_bins,optional"`
	OuterSamples int   `hcl:"outer_samples,optional"`
	InnerSamples int   `hcl:"inner_samples,optional"`
	KMeansIters  int   `hcl:"kmeans_iterations,optional"`
	Seed         int64 `hcl:"seed,optional"`
}

// TrainingConfig controls one CFR+ training run. Durations are expressed in
// whole seconds in the file (gohcl's struct-tag decoding covers the
// primitive numeric/bool/string kinds; it has no built-in time.Duration
// conversion), converted to time.Duration by CheckpointInterval/MaxDuration.
type TrainingConfig struct {
	Iterations             int   `hcl:"iterations,optional"`
	Workers                int   `hcl:"workers,optional"`
	Seed                   int64 `hcl:"seed,optional"`
	SmallBlind             int   `hcl:"small_blind,optional"`
	BigBlind               int   `hcl:"big_blind,optional"`
	StackSize              int   `hcl:"stack_size,optional"`
	MaxDurationSeconds     int   `hcl:"max_duration_seconds,optional"`
	CheckpointEverySeconds int   `hcl:"checkpoint_every_seconds,optional"`
	ExploitabilitySamples  int   `hcl:"exploitability_samples,optional"`
}

// RootConfig is the top-level document LoadConfig decodes: one
// abstraction block and one training block, matching the teacher's
// single-named-block pattern (ServerSettings) rather than its
// multi-instance labeled-block pattern (TableConfig/BotConfig), since a
// single trainer process works under exactly one of each.
type RootConfig struct {
	Abstraction AbstractionConfig `hcl:"abstraction,block"`
	Training    TrainingConfig    `hcl:"training,block"`
}

// DefaultAbstractionConfig returns a conservative abstraction budget
// suitable for a development-scale build rather than a full solve.
func DefaultAbstractionConfig() AbstractionConfig {
	return AbstractionConfig{
		FlopBuckets:  200,
		TurnBuckets:  200,
		RiverBuckets: 200,
		EquityBins:   50,
		OuterSamples: 500,
		InnerSamples: 1,
		KMeansIters:  100,
		Seed:         1,
	}
}

// DefaultTrainingConfig returns a minimal configuration suitable for local
// experimentation, not a production blueprint build.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		Iterations:             100000,
		Workers:                1,
		Seed:                   1,
		SmallBlind:             50,
		BigBlind:               100,
		StackSize:              20000,
		MaxDurationSeconds:     0,
		CheckpointEverySeconds: 300,
		ExploitabilitySamples:  2000,
	}
}

// DefaultConfig returns the full default RootConfig.
func DefaultConfig() *RootConfig {
	return &RootConfig{
		Abstraction: DefaultAbstractionConfig(),
		Training:    DefaultTrainingConfig(),
	}
}

// LoadConfig reads and decodes an HCL configuration file at path, applying
// DefaultConfig's values for any field left zero. A missing file is not an
// error: it returns DefaultConfig() unchanged, matching
// LoadServerConfig's behavior of treating "no config file" as "run with
// defaults" rather than failing startup.
func LoadConfig(path string) (*RootConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: parse %s: %s", path, diags.Error())
	}

	cfg := RootConfig{}
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("config: decode %s: %s", path, diags.Error())
	}

	applyAbstractionDefaults(&cfg.Abstraction)
	applyTrainingDefaults(&cfg.Training)
	return &cfg, nil
}

func applyAbstractionDefaults(c *AbstractionConfig) {
	d := DefaultAbstractionConfig()
	if c.FlopBuckets == 0 {
		c.FlopBuckets = d.FlopBuckets
	}
	if c.TurnBuckets == 0 {
		c.TurnBuckets = d.TurnBuckets
	}
	if c.RiverBuckets == 0 {
		c.RiverBuckets = d.RiverBuckets
	}
	if c.EquityBins == 0 {
		c.EquityBins = d.EquityBins
	}
	if c.OuterSamples == 0 {
		c.OuterSamples = d.OuterSamples
	}
	if c.InnerSamples == 0 {
		c.InnerSamples = d.InnerSamples
	}
	if c.KMeansIters == 0 {
		c.KMeansIters = d.KMeansIters
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
}

func applyTrainingDefaults(c *TrainingConfig) {
	d := DefaultTrainingConfig()
	if c.Iterations == 0 {
		c.Iterations = d.Iterations
	}
	if c.Workers == 0 {
		c.Workers = d.Workers
	}
	if c.Seed == 0 {
		c.Seed = d.Seed
	}
	if c.SmallBlind == 0 {
		c.SmallBlind = d.SmallBlind
	}
	if c.BigBlind == 0 {
		c.BigBlind = d.BigBlind
	}
	if c.StackSize == 0 {
		c.StackSize = d.StackSize
	}
	if c.CheckpointEverySeconds == 0 {
		c.CheckpointEverySeconds = d.CheckpointEverySeconds
	}
	if c.ExploitabilitySamples == 0 {
		c.ExploitabilitySamples = d.ExploitabilitySamples
	}
}

// CheckpointInterval returns how often a training run should checkpoint.
func (c TrainingConfig) CheckpointInterval() time.Duration {
	return time.Duration(c.CheckpointEverySeconds) * time.Second
}

// MaxDuration returns the wall-clock training budget, or zero if
// unbounded (iteration count is the only limit).
func (c TrainingConfig) MaxDuration() time.Duration {
	return time.Duration(c.MaxDurationSeconds) * time.Second
}

// ErrInvalidConfig wraps every validation failure Validate reports.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Validate checks both blocks are internally consistent before a trainer
// run starts, so a misconfiguration surfaces immediately rather than after
// hours of training against a nonsensical abstraction or stake.
func (c RootConfig) Validate() error {
	if err := c.Abstraction.Validate(); err != nil {
		return err
	}
	return c.Training.Validate()
}

// Validate checks the abstraction block.
func (c AbstractionConfig) Validate() error {
	if c.FlopBuckets <= 0 || c.TurnBuckets <= 0 || c.RiverBuckets <= 0 {
		return fmt.Errorf("%w: bucket counts must be positive", ErrInvalidConfig)
	}
	if c.EquityBins <= 0 {
		return fmt.Errorf("%w: equity_bins must be positive", ErrInvalidConfig)
	}
	if c.OuterSamples <= 0 || c.InnerSamples <= 0 {
		return fmt.Errorf("%w: outer_samples and inner_samples must be positive", ErrInvalidConfig)
	}
	if c.KMeansIters <= 0 {
		return fmt.Errorf("%w: kmeans_iterations must be positive", ErrInvalidConfig)
	}
	return nil
}

// Validate checks the training block.
func (c TrainingConfig) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be positive", ErrInvalidConfig)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	}
	if c.SmallBlind <= 0 {
		return fmt.Errorf("%w: small_blind must be positive", ErrInvalidConfig)
	}
	if c.BigBlind <= c.SmallBlind {
		return fmt.Errorf("%w: big_blind must exceed small_blind", ErrInvalidConfig)
	}
	if c.StackSize <= c.BigBlind {
		return fmt.Errorf("%w: stack_size must exceed big_blind", ErrInvalidConfig)
	}
	if c.MaxDurationSeconds < 0 {
		return fmt.Errorf("%w: max_duration_seconds cannot be negative", ErrInvalidConfig)
	}
	if c.CheckpointEverySeconds < 0 {
		return fmt.Errorf("%w: checkpoint_every_seconds cannot be negative", ErrInvalidConfig)
	}
	if c.ExploitabilitySamples < 0 {
		return fmt.Errorf("%w: exploitability_samples cannot be negative", ErrInvalidConfig)
	}
	return nil
}
