package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"pkg.jsn.cam/datagen/internal/log"
	"pkg.jsn.cam/datagen/internal/runner"
	"pkg.jsn.cam/datagen/pkg/dataset"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	verbose bool
	seed    int64
	logger  *zap.SugaredLogger
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "datagen",
		Short:         "Generate synthetic blog, product and log datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			a.logger = log.NewLogger(a.stderr, a.verbose)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = a.logger.Sync()
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", dataset.ErrInvalidArgument, err)
	})

	flags := root.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.Int64Var(&a.seed, "seed", 0, "random seed, 0 picks one from the clock")

	root.AddCommand(
		a.newGenerateCommand(),
		a.newRunCommand(),
		a.newKindsCommand(),
		a.newVerifyCommand(),
	)
	return root
}

func (a *app) runnerOptions(seed int64, atomic, mkdir, progress bool) runner.Options {
	opts := runner.DefaultOptions()
	opts.Seed = seed
	opts.Atomic = atomic
	opts.MakeDirs = mkdir
	if progress {
		opts.Progress = a.stderr
	}
	return opts
}

// exactArgs is cobra.ExactArgs reporting usage errors as invalid arguments.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", dataset.ErrInvalidArgument, err)
		}
		return nil
	}
}
