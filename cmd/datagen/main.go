// Command datagen generates synthetic datasets and writes them as JSON arrays,
// newline-delimited JSON or bbolt buckets.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCommand(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(stderr, "Error:", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, dataset.ErrInvalidArgument) {
		return exitUsage
	}
	return exitFailure
}
