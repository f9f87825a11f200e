package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"pkg.jsn.cam/datagen/pkg/dataset"
	"pkg.jsn.cam/datagen/pkg/storage"
)

func (a *app) newVerifyCommand() *cobra.Command {
	var (
		format string
		bucket string
	)

	cmd := &cobra.Command{
		Use:   "verify <path>",
		Short: "Check that a generated dataset parses and matches its manifest",
		Args:  exactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := args[0]
			f, err := resolveFormat(afero.NewOsFs(), path, format)
			if err != nil {
				return err
			}

			summary, manifest, found, err := inspect(path, f, bucket)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "path:        %s\n", summary.Path)
			fmt.Fprintf(a.stdout, "format:      %s\n", summary.Format)
			fmt.Fprintf(a.stdout, "compression: %s\n", summary.Compression)
			fmt.Fprintf(a.stdout, "records:     %d\n", summary.Records)
			fmt.Fprintf(a.stdout, "fields:      %s\n", strings.Join(summary.Fields, ", "))
			fmt.Fprintf(a.stdout, "homogeneous: %t\n", summary.Homogeneous)
			if found {
				fmt.Fprintf(a.stdout, "manifest:    %s %s run %s seed %d\n", manifest.Version, manifest.Kind, manifest.RunID, manifest.Seed)
			}

			if !summary.Homogeneous {
				return fmt.Errorf("%w: records do not share one field set", dataset.ErrMalformed)
			}
			if !found {
				a.logger.Warnw("no manifest found", "path", path)
				return nil
			}
			if err := manifest.CheckCompatible(); err != nil {
				return err
			}
			if manifest.Count != summary.Records {
				return fmt.Errorf("%w: manifest lists %d records, found %d", dataset.ErrMalformed, manifest.Count, summary.Records)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "array, lines or bolt (default: from the manifest, else the path)")
	cmd.Flags().StringVar(&bucket, "kind", "", "bucket to read from a bolt file (default: manifest kind)")
	return cmd
}

// resolveFormat picks the explicit format if given, then a bolt extension,
// then the format recorded in the sidecar manifest. A .json file without a
// manifest is read as an array.
func resolveFormat(fsys afero.Fs, path, explicit string) (dataset.Format, error) {
	if explicit != "" {
		return dataset.ParseFormat(explicit)
	}
	f, ok := dataset.FormatFromExt(path)
	if ok && f == dataset.FormatBolt {
		return f, nil
	}
	if m, err := dataset.ReadManifest(fsys, path); err == nil {
		switch m.Format {
		case dataset.FormatArray, dataset.FormatLines:
			return m.Format, nil
		}
	}
	if ok {
		return f, nil
	}
	return dataset.FormatArray, nil
}

func inspect(path string, format dataset.Format, bucket string) (dataset.Summary, dataset.Manifest, bool, error) {
	if format == dataset.FormatBolt {
		return storage.InspectBolt(path, bucket)
	}

	osFs := afero.NewOsFs()
	summary, err := dataset.Inspect(osFs, path, format)
	if err != nil {
		return summary, dataset.Manifest{}, false, err
	}
	manifest, err := dataset.ReadManifest(osFs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return summary, manifest, false, nil
	}
	if err != nil {
		return summary, manifest, false, err
	}
	return summary, manifest, true, nil
}
