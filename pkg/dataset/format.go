package dataset

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format selects how a dataset is persisted.
type Format string

const (
	// FormatArray writes one pretty-printed JSON array holding every record.
	FormatArray Format = "array"
	// FormatLines writes one compact JSON object per line.
	FormatLines Format = "lines"
	// FormatBolt stores records in a bucket of a bbolt database file.
	FormatBolt Format = "bolt"
)

// Formats lists every supported format.
var Formats = []Format{FormatArray, FormatLines, FormatBolt}

func (f Format) String() string { return string(f) }

// ParseFormat converts a user supplied name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatArray, FormatLines, FormatBolt:
		return f, nil
	case "json":
		return FormatArray, nil
	case "jsonl", "ndjson":
		return FormatLines, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, s)
	}
}

// FormatFromPath guesses the format from the file extension, ignoring any
// compression suffix. Unknown extensions, including .json, map to FormatArray.
func FormatFromPath(path string) Format {
	if f, ok := FormatFromExt(path); ok {
		return f
	}
	return FormatArray
}

// FormatFromExt reports the format implied by a .jsonl, .ndjson, .db or .bolt
// extension. ok is false for .json, which holds both arrays and lines.
func FormatFromExt(path string) (f Format, ok bool) {
	base := strings.TrimSuffix(path, CompressionFromPath(path).Ext())
	switch strings.ToLower(filepath.Ext(base)) {
	case ".jsonl", ".ndjson":
		return FormatLines, true
	case ".db", ".bolt":
		return FormatBolt, true
	default:
		return "", false
	}
}
