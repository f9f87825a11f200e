package main

import (
	"github.com/spf13/cobra"

	"pkg.jsn.cam/datagen/internal/config"
	"pkg.jsn.cam/datagen/internal/runner"
	"pkg.jsn.cam/datagen/pkg/kinds"
)

func (a *app) newGenerateCommand() *cobra.Command {
	var (
		count      int
		output     string
		format     string
		compress   string
		dir        string
		mkdir      bool
		atomic     bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:       "generate <kind>",
		Short:     "Generate one dataset",
		Example:   "  datagen generate blog --count 3 --output out.json\n  datagen generate app-log --format lines --compress zstd",
		Args:      exactArgs(1),
		ValidArgs: kinds.Names(),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := runner.Spec{Kind: args[0], Output: output, Format: format, Compress: compress}
			if cmd.Flags().Changed("count") {
				spec.Count = &count
			}
			job, err := runner.NewJob(spec, dir)
			if err != nil {
				return err
			}

			r := runner.New(a.logger, a.runnerOptions(a.seed, atomic, mkdir, !noProgress))
			results, err := r.Run(cmd.Context(), []runner.Job{job})
			if err != nil {
				return err
			}
			printResults(a.stdout, results)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVarP(&count, "count", "n", 0, "number of records (default: kind default)")
	flags.StringVarP(&output, "output", "o", "", "output path (default: kind default under --dir)")
	flags.StringVarP(&format, "format", "f", "", "array, lines or bolt (default: inferred from output)")
	flags.StringVar(&compress, "compress", "", "none, gzip or zstd (default: inferred from output)")
	flags.StringVar(&dir, "dir", config.DefaultDir, "base directory for relative outputs")
	flags.BoolVar(&mkdir, "mkdir", false, "create missing parent directories")
	flags.BoolVar(&atomic, "atomic", true, "write to a temporary file and rename it into place")
	flags.BoolVar(&noProgress, "no-progress", false, "hide the progress bar")
	return cmd
}
