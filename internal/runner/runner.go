// Package runner executes dataset jobs: generate, export, write the manifest.
package runner

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jonboulle/clockwork"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"pkg.jsn.cam/datagen/pkg/dataset"
	"pkg.jsn.cam/datagen/pkg/kinds"
	"pkg.jsn.cam/datagen/pkg/storage"
)

// Options configures a Runner. The zero value writes nothing useful; use
// DefaultOptions as a base.
type Options struct {
	// Fs receives array and lines outputs. Bolt outputs always go to the OS
	// filesystem because bbolt needs a real file.
	Fs    afero.Fs
	Clock clockwork.Clock
	// Seed for the first job; job i uses Seed+i. Zero derives a seed from the clock.
	Seed     int64
	Atomic   bool
	MakeDirs bool
	// Progress, when not nil, receives a progress bar per job.
	Progress io.Writer
}

// DefaultOptions writes to the OS filesystem with wall clock time.
func DefaultOptions() Options {
	return Options{
		Fs:     afero.NewOsFs(),
		Clock:  clockwork.NewRealClock(),
		Atomic: true,
	}
}

// Result reports one finished job.
type Result struct {
	Job      Job
	Records  int
	Bytes    int64
	Duration time.Duration
	Manifest dataset.Manifest
}

// Runner runs jobs one after another.
type Runner struct {
	logger *zap.SugaredLogger
	opts   Options
	seed   int64
}

// New creates a runner. A zero seed is replaced by one derived from the clock.
func New(logger *zap.SugaredLogger, opts Options) *Runner {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = opts.Clock.Now().UnixNano()
	}
	return &Runner{logger: logger, opts: opts, seed: seed}
}

// Seed returns the seed of the first job.
func (r *Runner) Seed() int64 {
	return r.seed
}

// Run executes jobs in order and stops at the first failure. Outputs of jobs
// that completed before the failure are kept.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, 0, len(jobs))
	for i, job := range jobs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.RunJob(job, r.seed+int64(i))
		if err != nil {
			r.logger.Errorw("dataset failed", "kind", job.Kind.Name, "output", job.Output, "error", err)
			return results, fmt.Errorf("%s -> %s: %w", job.Kind.Name, job.Output, err)
		}
		results = append(results, res)
	}
	return results, nil
}

// RunJob generates and exports a single job using seed.
func (r *Runner) RunJob(job Job, seed int64) (Result, error) {
	start := r.opts.Clock.Now()
	r.logger.Debugw("generating dataset", "kind", job.Kind.Name, "count", job.Count, "seed", seed)

	if r.opts.MakeDirs {
		if err := r.mkdir(job); err != nil {
			return Result{}, err
		}
	}

	bar := r.progressBar(job)
	var observe func(int)
	if bar != nil {
		observe = func(int) { _ = bar.Add(1) }
	}

	src := kinds.NewSource(seed, r.opts.Clock)
	records, err := job.Kind.Build(src, job.Count, observe)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil {
		return Result{}, err
	}

	manifest := dataset.NewManifest(job.Kind.Name, job.Format, job.Compression, records.Len(), seed, r.opts.Clock.Now())
	if err := r.export(job, records, manifest); err != nil {
		return Result{}, err
	}

	res := Result{
		Job:      job,
		Records:  records.Len(),
		Bytes:    r.size(job),
		Duration: r.opts.Clock.Since(start),
		Manifest: manifest,
	}
	r.logger.Infow("generated dataset",
		"kind", job.Kind.Name,
		"records", humanize.Comma(int64(res.Records)),
		"format", job.Format,
		"output", job.Output,
		"size", humanize.Bytes(uint64(res.Bytes)),
		"took", res.Duration,
	)
	return res, nil
}

func (r *Runner) export(job Job, records dataset.Records, manifest dataset.Manifest) error {
	if job.Format == dataset.FormatBolt {
		return storage.ExportBolt(job.Output, job.Kind.Name, records, manifest)
	}

	exporter := dataset.NewExporter(r.opts.Fs,
		dataset.WithCompression(job.Compression),
		dataset.WithAtomicWrite(r.opts.Atomic),
	)
	if err := exporter.Export(records, job.Output, job.Format); err != nil {
		return err
	}
	return dataset.WriteManifest(r.opts.Fs, job.Output, manifest)
}

func (r *Runner) mkdir(job Job) error {
	dir := filepath.Dir(job.Output)
	var err error
	if job.Format == dataset.FormatBolt {
		err = afero.NewOsFs().MkdirAll(dir, 0755)
	} else {
		err = r.opts.Fs.MkdirAll(dir, 0755)
	}
	if err != nil {
		return fmt.Errorf("%w: create directory %s: %w", dataset.ErrIOFailure, dir, err)
	}
	return nil
}

func (r *Runner) size(job Job) int64 {
	fs := r.opts.Fs
	if job.Format == dataset.FormatBolt {
		fs = afero.NewOsFs()
	}
	info, err := fs.Stat(job.Output)
	if err != nil {
		r.logger.Debugw("cannot stat output", "output", job.Output, "error", err)
		return 0
	}
	return info.Size()
}

func (r *Runner) progressBar(job Job) *progressbar.ProgressBar {
	if r.opts.Progress == nil || job.Count == 0 {
		return nil
	}
	return progressbar.NewOptions64(int64(job.Count),
		progressbar.OptionSetWriter(r.opts.Progress),
		progressbar.OptionSetDescription(job.Kind.Name),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("records"),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}
