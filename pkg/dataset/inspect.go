package dataset

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/afero"
	"github.com/valyala/fastjson"
)

// Summary describes a dataset read back from storage.
type Summary struct {
	Path        string      `json:"path"`
	Format      Format      `json:"format"`
	Compression Compression `json:"compression"`
	Records     int         `json:"records"`
	// Fields is the ordered field set of the first record.
	Fields []string `json:"fields"`
	// Homogeneous is true when every record has exactly Fields.
	Homogeneous bool `json:"homogeneous"`
}

// Summarizer accumulates a Summary one encoded record at a time.
type Summarizer struct {
	parser  fastjson.Parser
	summary Summary
}

// NewSummarizer starts an empty summary.
func NewSummarizer(path string, format Format, compression Compression) *Summarizer {
	return &Summarizer{summary: Summary{
		Path:        path,
		Format:      format,
		Compression: compression,
		Homogeneous: true,
	}}
}

// Add parses one JSON encoded record and folds it into the summary.
func (s *Summarizer) Add(data []byte) error {
	v, err := s.parser.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("%w: record %d: %w", ErrMalformed, s.summary.Records, err)
	}
	return s.addValue(v)
}

func (s *Summarizer) addValue(v *fastjson.Value) error {
	obj, err := v.Object()
	if err != nil {
		return fmt.Errorf("%w: record %d is %s, not an object", ErrMalformed, s.summary.Records, v.Type())
	}

	fields := make([]string, 0, obj.Len())
	obj.Visit(func(key []byte, _ *fastjson.Value) {
		fields = append(fields, string(key))
	})

	if s.summary.Records == 0 {
		s.summary.Fields = fields
	} else if s.summary.Homogeneous && !slices.Equal(s.summary.Fields, fields) {
		s.summary.Homogeneous = false
	}
	s.summary.Records++

	return nil
}

// Summary returns the accumulated summary.
func (s *Summarizer) Summary() Summary {
	return s.summary
}

// Inspect reads a dataset file written in the array or lines format,
// decompressing it according to its suffix, and summarizes its records.
func Inspect(fs afero.Fs, path string, format Format) (Summary, error) {
	compression := CompressionFromPath(path)
	data, err := readAll(fs, path, compression)
	if err != nil {
		return Summary{}, err
	}

	s := NewSummarizer(path, format, compression)
	switch format {
	case FormatArray:
		err = s.addArray(data)
	case FormatLines:
		err = s.addLines(data)
	default:
		err = fmt.Errorf("%w: cannot inspect format %q as a file", ErrInvalidArgument, format)
	}
	if err != nil {
		return Summary{}, err
	}

	return s.Summary(), nil
}

func (s *Summarizer) addArray(data []byte) error {
	v, err := s.parser.ParseBytes(data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	items, err := v.Array()
	if err != nil {
		return fmt.Errorf("%w: top-level value is %s, not an array", ErrMalformed, v.Type())
	}
	for _, item := range items {
		if err := s.addValue(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Summarizer) addLines(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if data[len(data)-1] != '\n' {
		return fmt.Errorf("%w: last line is not newline terminated", ErrMalformed)
	}

	for line := range bytes.Lines(data) {
		if err := s.Add(bytes.TrimSuffix(line, []byte("\n"))); err != nil {
			return err
		}
	}
	return nil
}

func readAll(fs afero.Fs, path string, compression Compression) ([]byte, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrIOFailure, path, err)
	}
	defer f.Close()

	r, err := compression.newReader(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s stream of %s: %w", ErrMalformed, compression, path, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrIOFailure, path, err)
	}
	return data, nil
}
