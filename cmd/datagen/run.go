package main

import (
	"github.com/spf13/cobra"

	"pkg.jsn.cam/datagen/internal/config"
	"pkg.jsn.cam/datagen/internal/runner"
)

func (a *app) newRunCommand() *cobra.Command {
	var (
		configPath string
		mkdir      bool
		noProgress bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate every dataset of a config file, or the default set",
		Long: "Generate every dataset listed in the config file. Without --config the\n" +
			"default blog, product, access-log and app-log datasets are written under data/.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = a.seed
			}
			if cmd.Flags().Changed("mkdir") {
				cfg.MakeDirs = mkdir
			}

			jobs, err := runner.Plan(cfg)
			if err != nil {
				return err
			}

			r := runner.New(a.logger, a.runnerOptions(cfg.Seed, cfg.Atomic, cfg.MakeDirs, !noProgress))
			a.logger.Debugw("running batch", "datasets", len(jobs), "seed", r.Seed())
			results, err := r.Run(cmd.Context(), jobs)
			printResults(a.stdout, results)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML config file listing datasets")
	flags.BoolVar(&mkdir, "mkdir", false, "create missing parent directories")
	flags.BoolVar(&noProgress, "no-progress", false, "hide progress bars")
	return cmd
}
