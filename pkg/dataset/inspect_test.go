package dataset

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInspect(t *testing.T) {
	t.Run("ArrayFieldSet", func(t *testing.T) {
		fs := newFs(t)
		require.NoError(t, NewExporter(fs).ExportArray(items(3), "/out/items.json"))

		summary, err := Inspect(fs, "/out/items.json", FormatArray)
		require.NoError(t, err)
		assert.Equal(t, Summary{
			Path:        "/out/items.json",
			Format:      FormatArray,
			Compression: CompressionNone,
			Records:     3,
			Fields:      []string{"id", "score", "tags", "ok"},
			Homogeneous: true,
		}, summary)
	})

	t.Run("LinesCount", func(t *testing.T) {
		fs := newFs(t)
		require.NoError(t, NewExporter(fs).ExportLines(items(7), "/out/items.jsonl"))

		summary, err := Inspect(fs, "/out/items.jsonl", FormatLines)
		require.NoError(t, err)
		assert.Equal(t, 7, summary.Records)
		assert.True(t, summary.Homogeneous)
	})

	t.Run("Heterogeneous", func(t *testing.T) {
		fs := newFs(t)
		data := "{\"a\":1,\"b\":2}\n{\"b\":2,\"a\":1}\n"
		require.NoError(t, afero.WriteFile(fs, "/out/mixed.jsonl", []byte(data), 0644))

		summary, err := Inspect(fs, "/out/mixed.jsonl", FormatLines)
		require.NoError(t, err)
		assert.Equal(t, 2, summary.Records)
		assert.Equal(t, []string{"a", "b"}, summary.Fields)
		assert.False(t, summary.Homogeneous)
	})

	t.Run("Malformed", func(t *testing.T) {
		fs := newFs(t)
		cases := map[string]struct {
			data   string
			format Format
		}{
			"notArray":        {`{"a":1}`, FormatArray},
			"arrayOfScalars":  {`[1,2]`, FormatArray},
			"brokenJSON":      {`[{"a":1},`, FormatArray},
			"unterminated":    {"{\"a\":1}\n{\"a\":2}", FormatLines},
			"lineNotAnObject": {"{\"a\":1}\n[]\n", FormatLines},
			"blankLine":       {"{\"a\":1}\n\n", FormatLines},
		}
		for name, c := range cases {
			path := "/out/" + name
			require.NoError(t, afero.WriteFile(fs, path, []byte(c.data), 0644))
			_, err := Inspect(fs, path, c.format)
			assert.ErrorIs(t, err, ErrMalformed, name)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Inspect(newFs(t), "/out/none.json", FormatArray)
		assert.ErrorIs(t, err, ErrIOFailure)
	})

	t.Run("CorruptCompressedStream", func(t *testing.T) {
		fs := newFs(t)
		require.NoError(t, afero.WriteFile(fs, "/out/items.json.gz", []byte("not gzip"), 0644))
		_, err := Inspect(fs, "/out/items.json.gz", FormatArray)
		assert.ErrorIs(t, err, ErrMalformed)
	})
}
