package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"pkg.jsn.cam/datagen/internal/config"
	"pkg.jsn.cam/datagen/pkg/dataset"
	"pkg.jsn.cam/datagen/pkg/storage"
)

var testNow = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

func newTestRunner(t *testing.T, fs afero.Fs, mutate func(*Options)) *Runner {
	t.Helper()
	opts := Options{
		Fs:     fs,
		Clock:  clockwork.NewFakeClockAt(testNow),
		Seed:   7,
		Atomic: true,
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(zaptest.NewLogger(t).Sugar(), opts)
}

func intPtr(i int) *int { return &i }

// manifestlessFs refuses to create manifest files.
type manifestlessFs struct {
	afero.Fs
}

func (m manifestlessFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if strings.Contains(filepath.Base(name), ".manifest.json") {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return m.Fs.OpenFile(name, flag, perm)
}

func mustJob(t *testing.T, spec Spec, dir string) Job {
	t.Helper()
	job, err := NewJob(spec, dir)
	require.NoError(t, err)
	return job
}

func TestRunDefaultPlan(t *testing.T) {
	fs := afero.NewMemMapFs()
	cfg := config.Default()
	cfg.Dir = "/data"
	for i := range cfg.Datasets {
		cfg.Datasets[i].Count = intPtr(5 + i)
	}
	jobs, err := Plan(cfg)
	require.NoError(t, err)

	r := newTestRunner(t, fs, func(o *Options) { o.MakeDirs = true })
	results, err := r.Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 4)

	want := []struct {
		path   string
		format dataset.Format
		count  int
		fields int
	}{
		{"/data/blog-posts/20k-blog-dataset.json", dataset.FormatArray, 5, 11},
		{"/data/e-commerce/products-dataset.json", dataset.FormatArray, 6, 8},
		{"/data/logs/apache-access-logs.json", dataset.FormatLines, 7, 6},
		{"/data/logs/application-logs.json", dataset.FormatLines, 8, 4},
	}
	for i, w := range want {
		assert.Equal(t, w.path, results[i].Job.Output)
		assert.Equal(t, w.count, results[i].Records)
		assert.Positive(t, results[i].Bytes)

		summary, err := dataset.Inspect(fs, w.path, w.format)
		require.NoError(t, err, w.path)
		assert.Equal(t, w.count, summary.Records, w.path)
		assert.Len(t, summary.Fields, w.fields, w.path)
		assert.True(t, summary.Homogeneous, w.path)

		m, err := dataset.ReadManifest(fs, w.path)
		require.NoError(t, err)
		assert.Equal(t, w.count, m.Count)
		assert.Equal(t, int64(7+i), m.Seed)
		assert.Equal(t, w.format, m.Format)
		assert.True(t, testNow.Equal(m.GeneratedAt))
	}
}

func TestRunDeterministic(t *testing.T) {
	render := func() []byte {
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/out", 0755))
		job := mustJob(t, Spec{Kind: "blog", Count: intPtr(20), Output: "/out/blog.json"}, "")
		_, err := newTestRunner(t, fs, nil).Run(context.Background(), []Job{job})
		require.NoError(t, err)
		data, err := afero.ReadFile(fs, "/out/blog.json")
		require.NoError(t, err)
		return data
	}
	assert.Equal(t, render(), render())
}

func TestRunCompressed(t *testing.T) {
	fs := afero.NewMemMapFs()
	job := mustJob(t, Spec{Kind: "access-log", Count: intPtr(50), Compress: "zstd"}, "/data")
	assert.Equal(t, "/data/logs/apache-access-logs.json.zst", job.Output)

	_, err := newTestRunner(t, fs, func(o *Options) { o.MakeDirs = true }).Run(context.Background(), []Job{job})
	require.NoError(t, err)

	summary, err := dataset.Inspect(fs, job.Output, dataset.FormatLines)
	require.NoError(t, err)
	assert.Equal(t, 50, summary.Records)
	assert.Equal(t, dataset.CompressionZstd, summary.Compression)
}

func TestRunBolt(t *testing.T) {
	dir := t.TempDir()
	jobs := []Job{
		mustJob(t, Spec{Kind: "product", Count: intPtr(12), Output: "sets.db"}, dir),
		mustJob(t, Spec{Kind: "app-log", Count: intPtr(9), Output: "sets.db"}, dir),
	}
	require.Equal(t, dataset.FormatBolt, jobs[0].Format)

	results, err := newTestRunner(t, afero.NewOsFs(), nil).Run(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Positive(t, results[1].Bytes)

	summary, m, found, err := storage.InspectBolt(filepath.Join(dir, "sets.db"), "product")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 12, summary.Records)
	assert.Equal(t, "app-log", m.Kind, "manifest holds the last export")

	summary, _, _, err = storage.InspectBolt(filepath.Join(dir, "sets.db"), "")
	require.NoError(t, err)
	assert.Equal(t, 9, summary.Records)
}

func TestRunProgress(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/out", 0755))
	var progress bytes.Buffer

	job := mustJob(t, Spec{Kind: "app-log", Count: intPtr(30), Output: "/out/app.jsonl"}, "")
	_, err := newTestRunner(t, fs, func(o *Options) { o.Progress = &progress }).Run(context.Background(), []Job{job})
	require.NoError(t, err)
	assert.NotZero(t, progress.Len())
}

func TestRunFailures(t *testing.T) {
	t.Run("MissingDirectory", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		jobs := []Job{
			mustJob(t, Spec{Kind: "blog", Count: intPtr(1), Output: "/missing/blog.json"}, ""),
			mustJob(t, Spec{Kind: "product", Count: intPtr(1), Output: "/missing/product.json"}, ""),
		}
		results, err := newTestRunner(t, fs, nil).Run(context.Background(), jobs)
		require.ErrorIs(t, err, dataset.ErrIOFailure)
		assert.Empty(t, results)

		exists, _ := afero.Exists(fs, "/missing/product.json")
		assert.False(t, exists, "run stops at the first failure")
	})

	t.Run("MissingDirectoryBolt", func(t *testing.T) {
		job := mustJob(t, Spec{Kind: "blog", Count: intPtr(1), Output: filepath.Join(t.TempDir(), "x", "b.db")}, "")
		_, err := newTestRunner(t, afero.NewOsFs(), nil).Run(context.Background(), []Job{job})
		require.ErrorIs(t, err, dataset.ErrIOFailure)
		_, statErr := os.Stat(job.Output)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("ManifestWriteFails", func(t *testing.T) {
		fs := manifestlessFs{afero.NewMemMapFs()}
		require.NoError(t, fs.MkdirAll("/out", 0755))
		job := mustJob(t, Spec{Kind: "app-log", Count: intPtr(4), Output: "/out/app.json"}, "")

		_, err := newTestRunner(t, fs, nil).Run(context.Background(), []Job{job})
		require.ErrorIs(t, err, dataset.ErrIOFailure)

		summary, err := dataset.Inspect(fs, job.Output, dataset.FormatLines)
		require.NoError(t, err, "dataset stays complete")
		assert.Equal(t, 4, summary.Records)
		entries, err := afero.ReadDir(fs, "/out")
		require.NoError(t, err)
		require.Len(t, entries, 1, "no partial manifest or temp file")
	})

	t.Run("NegativeCount", func(t *testing.T) {
		job := mustJob(t, Spec{Kind: "blog", Count: intPtr(1), Output: "/out/b.json"}, "")
		job.Count = -1
		_, err := newTestRunner(t, afero.NewMemMapFs(), nil).Run(context.Background(), []Job{job})
		assert.ErrorIs(t, err, dataset.ErrInvalidArgument)
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		job := mustJob(t, Spec{Kind: "blog", Count: intPtr(1), Output: "/out/b.json"}, "")
		_, err := newTestRunner(t, afero.NewMemMapFs(), nil).Run(ctx, []Job{job})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewRunnerSeed(t *testing.T) {
	r := newTestRunner(t, afero.NewMemMapFs(), func(o *Options) { o.Seed = 0 })
	assert.Equal(t, testNow.UnixNano(), r.Seed())
	assert.Equal(t, int64(7), newTestRunner(t, afero.NewMemMapFs(), nil).Seed())
}

func TestNewJob(t *testing.T) {
	t.Run("KindDefaults", func(t *testing.T) {
		job := mustJob(t, Spec{Kind: "blog"}, "data")
		assert.Equal(t, "blog", job.Kind.Name)
		assert.Equal(t, 20000, job.Count)
		assert.Equal(t, filepath.Join("data", "blog-posts", "20k-blog-dataset.json"), job.Output)
		assert.Equal(t, dataset.FormatArray, job.Format)
		assert.Equal(t, dataset.CompressionNone, job.Compression)
	})

	t.Run("InferFromOutput", func(t *testing.T) {
		job := mustJob(t, Spec{Kind: "app-log", Output: "/tmp/app.ndjson.gz"}, "data")
		assert.Equal(t, "/tmp/app.ndjson.gz", job.Output)
		assert.Equal(t, dataset.FormatLines, job.Format)
		assert.Equal(t, dataset.CompressionGzip, job.Compression)
	})

	t.Run("JSONKeepsKindFormat", func(t *testing.T) {
		tests := []struct {
			spec Spec
			want dataset.Format
		}{
			{Spec{Kind: "access-log", Output: "x.json"}, dataset.FormatLines},
			{Spec{Kind: "app-log", Output: "x.json.gz"}, dataset.FormatLines},
			{Spec{Kind: "blog", Output: "x.json"}, dataset.FormatArray},
			{Spec{Kind: "blog", Output: "x.jsonl"}, dataset.FormatLines},
			{Spec{Kind: "access-log", Output: "x.db"}, dataset.FormatBolt},
			{Spec{Kind: "product", Output: "x"}, dataset.FormatArray},
		}
		for _, tt := range tests {
			job := mustJob(t, tt.spec, "")
			assert.Equal(t, tt.want, job.Format, "%+v", tt.spec)
		}
	})

	t.Run("ExplicitWins", func(t *testing.T) {
		job := mustJob(t, Spec{Kind: "blog", Count: intPtr(0), Output: "b.txt", Format: "lines", Compress: "none"}, "")
		assert.Equal(t, 0, job.Count)
		assert.Equal(t, "b.txt", job.Output)
		assert.Equal(t, dataset.FormatLines, job.Format)
	})

	t.Run("Invalid", func(t *testing.T) {
		specs := []Spec{
			{Kind: "tweets"},
			{Kind: "blog", Count: intPtr(-1)},
			{Kind: "blog", Format: "csv"},
			{Kind: "blog", Compress: "lz4"},
			{Kind: "blog", Format: "bolt", Compress: "gzip"},
		}
		for _, spec := range specs {
			_, err := NewJob(spec, "data")
			assert.ErrorIs(t, err, dataset.ErrInvalidArgument, "%+v", spec)
		}
	})
}
