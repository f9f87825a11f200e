package runner

import (
	"fmt"
	"path/filepath"

	"pkg.jsn.cam/datagen/internal/config"
	"pkg.jsn.cam/datagen/pkg/dataset"
	"pkg.jsn.cam/datagen/pkg/kinds"
)

// Job is one dataset to generate and export.
type Job struct {
	Kind        kinds.Kind
	Count       int
	Output      string
	Format      dataset.Format
	Compression dataset.Compression
}

// Spec is the loosely typed description of a job, as given on the command
// line or in a config file. Empty fields take the kind defaults.
type Spec struct {
	Kind     string
	Count    *int
	Output   string
	Format   string
	Compress string
}

// NewJob resolves spec against the kind registry. Relative outputs, including
// the kind default, are placed under dir. Without an explicit format only a
// .jsonl, .ndjson, .db or .bolt output overrides the kind's default format.
func NewJob(spec Spec, dir string) (Job, error) {
	kind, err := kinds.Get(spec.Kind)
	if err != nil {
		return Job{}, fmt.Errorf("%w: %w", dataset.ErrInvalidArgument, err)
	}

	job := Job{Kind: kind, Count: kind.DefaultCount, Output: spec.Output}
	if spec.Count != nil {
		job.Count = *spec.Count
	}
	if job.Count < 0 {
		return Job{}, fmt.Errorf("%w: count must be non-negative, got %d", dataset.ErrInvalidArgument, job.Count)
	}

	if spec.Compress != "" {
		if job.Compression, err = dataset.ParseCompression(spec.Compress); err != nil {
			return Job{}, err
		}
	} else if spec.Output != "" {
		job.Compression = dataset.CompressionFromPath(spec.Output)
	} else {
		job.Compression = dataset.CompressionNone
	}

	job.Format = kind.DefaultFormat
	if spec.Format != "" {
		if job.Format, err = dataset.ParseFormat(spec.Format); err != nil {
			return Job{}, err
		}
	} else if f, ok := dataset.FormatFromExt(spec.Output); ok {
		job.Format = f
	}

	if job.Format == dataset.FormatBolt && job.Compression != dataset.CompressionNone {
		return Job{}, fmt.Errorf("%w: bolt output cannot be compressed", dataset.ErrInvalidArgument)
	}

	if job.Output == "" {
		job.Output = kind.DefaultOutput + job.Compression.Ext()
	}
	if !filepath.IsAbs(job.Output) && dir != "" {
		job.Output = filepath.Join(dir, job.Output)
	}

	return job, nil
}

// Plan turns a loaded config into jobs.
func Plan(cfg config.Config) ([]Job, error) {
	jobs := make([]Job, 0, len(cfg.Datasets))
	for i, d := range cfg.Datasets {
		job, err := NewJob(Spec{
			Kind:     d.Kind,
			Count:    d.Count,
			Output:   d.Output,
			Format:   d.Format,
			Compress: d.Compress,
		}, cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("datasets[%d]: %w", i, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
