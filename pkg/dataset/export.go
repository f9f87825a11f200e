package dataset

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

const defaultFileMode os.FileMode = 0644

// Exporter writes datasets to files in the array or lines format.
type Exporter struct {
	fs          afero.Fs
	compression Compression
	atomic      bool
	mode        os.FileMode
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithCompression compresses the written stream.
func WithCompression(c Compression) Option {
	return func(e *Exporter) { e.compression = c }
}

// WithAtomicWrite controls whether output goes to a temporary file that is
// renamed over the target once complete. Enabled by default.
func WithAtomicWrite(atomic bool) Option {
	return func(e *Exporter) { e.atomic = atomic }
}

// WithFileMode sets the permissions of created files.
func WithFileMode(mode os.FileMode) Option {
	return func(e *Exporter) { e.mode = mode }
}

// NewExporter creates an exporter writing through fs.
func NewExporter(fs afero.Fs, opts ...Option) *Exporter {
	e := &Exporter{
		fs:          fs,
		compression: CompressionNone,
		atomic:      true,
		mode:        defaultFileMode,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compression returns the compression applied to written files.
func (e *Exporter) Compression() Compression { return e.compression }

// Export writes records to path in the given file format.
func (e *Exporter) Export(records Records, path string, format Format) error {
	switch format {
	case FormatArray:
		return e.ExportArray(records, path)
	case FormatLines:
		return e.ExportLines(records, path)
	default:
		return fmt.Errorf("%w: exporter cannot write format %q", ErrInvalidArgument, format)
	}
}

// ExportArray writes all records as a single JSON array indented by two
// spaces. Field order follows the record type. An existing file is replaced.
func (e *Exporter) ExportArray(records Records, path string) error {
	return e.write(records, path, encodeArray)
}

// ExportLines writes one compact JSON object per record, each terminated by a
// newline. An existing file is replaced.
func (e *Exporter) ExportLines(records Records, path string) error {
	return e.write(records, path, encodeLines)
}

type encodeFunc func(w io.Writer, records Records) error

func (e *Exporter) write(records Records, path string, encode encodeFunc) error {
	if records == nil {
		return fmt.Errorf("%w: nil dataset", ErrInvalidArgument)
	}
	if path == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalidArgument)
	}

	dir := filepath.Dir(path)
	info, err := e.fs.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: output directory %s: %w", ErrIOFailure, dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: output directory %s is not a directory", ErrIOFailure, dir)
	}

	if !e.atomic {
		f, err := e.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, e.mode)
		if err != nil {
			return fmt.Errorf("%w: create %s: %w", ErrIOFailure, path, err)
		}
		return e.encodeTo(f, records, encode)
	}

	return replaceFile(e.fs, path, e.mode, func(f afero.File) error {
		return e.encodeTo(f, records, encode)
	})
}

// replaceFile creates a temp file next to path, lets fill write and close it,
// then renames it over path. The temp file is removed on failure, leaving any
// previous file at path untouched.
func replaceFile(fs afero.Fs, path string, mode os.FileMode, fill func(f afero.File) error) error {
	dir := filepath.Dir(path)
	f, err := afero.TempFile(fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", ErrIOFailure, dir, err)
	}
	tmp := f.Name()

	if err := fill(f); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	if err := fs.Chmod(tmp, mode); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("%w: chmod %s: %w", ErrIOFailure, tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fmt.Errorf("%w: rename %s to %s: %w", ErrIOFailure, tmp, path, err)
	}

	return nil
}

// encodeTo streams the encoded records through compression and buffering into
// f and closes it. f is closed on every path.
func (e *Exporter) encodeTo(f afero.File, records Records, encode encodeFunc) (err error) {
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", ErrIOFailure, f.Name(), cerr)
		}
	}()

	cw, err := e.compression.newWriter(f)
	if err != nil {
		if errors.Is(err, ErrInvalidArgument) {
			return err
		}
		return fmt.Errorf("%w: %s writer: %w", ErrIOFailure, e.compression, err)
	}
	bw := bufio.NewWriter(cw)

	if err := encode(bw, records); err != nil {
		_ = cw.Close()
		if errors.Is(err, ErrInvalidArgument) {
			return err
		}
		return fmt.Errorf("%w: write %s: %w", ErrIOFailure, f.Name(), err)
	}
	if err := bw.Flush(); err != nil {
		_ = cw.Close()
		return fmt.Errorf("%w: flush %s: %w", ErrIOFailure, f.Name(), err)
	}
	if err := cw.Close(); err != nil {
		return fmt.Errorf("%w: finish %s stream: %w", ErrIOFailure, e.compression, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: sync %s: %w", ErrIOFailure, f.Name(), err)
	}

	return nil
}

var (
	arrayOpen   = []byte("[\n")
	arrayClose  = []byte("\n]\n")
	arrayEmpty  = []byte("[]\n")
	arraySep    = []byte(",\n")
	arrayIndent = []byte("  ")
)

func encodeArray(w io.Writer, records Records) error {
	n := records.Len()
	if n == 0 {
		_, err := w.Write(arrayEmpty)
		return err
	}

	var buf bytes.Buffer
	enc := newEncoder(&buf)
	enc.SetIndent("  ", "  ")

	if _, err := w.Write(arrayOpen); err != nil {
		return err
	}
	for i := range n {
		buf.Reset()
		if err := enc.Encode(records.At(i)); err != nil {
			return fmt.Errorf("%w: encode record %d: %w", ErrInvalidArgument, i, err)
		}
		if i > 0 {
			if _, err := w.Write(arraySep); err != nil {
				return err
			}
		}
		if _, err := w.Write(arrayIndent); err != nil {
			return err
		}
		if _, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))); err != nil {
			return err
		}
	}
	_, err := w.Write(arrayClose)
	return err
}

func encodeLines(w io.Writer, records Records) error {
	var buf bytes.Buffer
	enc := newEncoder(&buf)

	for i := range records.Len() {
		buf.Reset()
		// Encode terminates every value with a single newline.
		if err := enc.Encode(records.At(i)); err != nil {
			return fmt.Errorf("%w: encode record %d: %w", ErrInvalidArgument, i, err)
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func newEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}
