package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/datagen/internal/runner"
	"pkg.jsn.cam/datagen/pkg/kinds"
)

func (a *app) newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the dataset kinds and their defaults",
		Args:  exactArgs(0),
		RunE: func(*cobra.Command, []string) error {
			w := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCOUNT\tFORMAT\tOUTPUT\tDESCRIPTION")
			for _, k := range kinds.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					k.Name, humanize.Comma(int64(k.DefaultCount)), k.DefaultFormat, k.DefaultOutput, k.Description)
			}
			return w.Flush()
		},
	}
}

func printResults(out io.Writer, results []runner.Result) {
	if len(results) == 0 {
		return
	}
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tRECORDS\tFORMAT\tSIZE\tOUTPUT")
	for _, res := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			res.Job.Kind.Name,
			humanize.Comma(int64(res.Records)),
			res.Job.Format,
			humanize.Bytes(uint64(res.Bytes)),
			res.Job.Output,
		)
	}
	_ = w.Flush()
}
