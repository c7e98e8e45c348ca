// Command trainer runs CFR+ self-play training over the abstracted
// heads-up no-limit hold'em game and self-plays a trained blueprint to
// report its results, mirroring the teacher's cmd/solver tool
// (train/eval subcommands under one kong CLI), rebuilt around this
// repo's config/abstraction/cfr/blueprint packages in place of sdk/solver.
package main

import (
	"context"
	"os"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
)

var cli struct {
	Debug  bool   `help:"enable debug logging"`
	Config string `help:"path to an HCL configuration file (missing file uses defaults)" default:"trainer.hcl"`

	Train TrainCmd `cmd:"" help:"run MCCFR training and write a blueprint"`
	Eval  EvalCmd  `cmd:"" help:"self-play an existing blueprint and report results"`
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("trainer"),
		kong.Description("heads-up NLHE blueprint solver"),
		kong.UsageOnError(),
	)

	logger := log.New(os.Stderr)
	if cli.Debug {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	var err error
	switch ctx.Command() {
	case "train":
		err = cli.Train.Run(context.Background(), logger)
	case "eval":
		err = cli.Eval.Run(context.Background(), logger)
	default:
		logger.Fatal("unknown command", "command", ctx.Command())
	}
	if err != nil {
		logger.Fatal("command failed", "command", ctx.Command(), "error", err)
	}
}
