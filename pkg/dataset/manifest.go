package dataset

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"golang.org/x/mod/semver"
)

// ManifestVersion is the version stamped on every manifest this package writes.
const ManifestVersion = "v1.0.0"

const manifestSuffix = ".manifest.json"

// Manifest records how and when a dataset was produced.
type Manifest struct {
	Version     string      `json:"version"`
	RunID       uuid.UUID   `json:"run_id"`
	Kind        string      `json:"kind"`
	Format      Format      `json:"format"`
	Compression Compression `json:"compression"`
	Count       int         `json:"count"`
	Seed        int64       `json:"seed"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// NewManifest stamps a manifest with the current version and a fresh run ID.
func NewManifest(kind string, format Format, compression Compression, count int, seed int64, now time.Time) Manifest {
	return Manifest{
		Version:     ManifestVersion,
		RunID:       uuid.New(),
		Kind:        kind,
		Format:      format,
		Compression: compression,
		Count:       count,
		Seed:        seed,
		GeneratedAt: now.UTC(),
	}
}

// CheckCompatible accepts manifests sharing the major version of ManifestVersion.
func (m Manifest) CheckCompatible() error {
	if !semver.IsValid(m.Version) {
		return fmt.Errorf("%w: invalid version %q", ErrIncompatibleVersion, m.Version)
	}
	if semver.Major(m.Version) != semver.Major(ManifestVersion) {
		return fmt.Errorf("%w: manifest %s, reader %s.x.x", ErrIncompatibleVersion, m.Version, semver.Major(ManifestVersion))
	}
	return nil
}

// ManifestPath returns the sidecar manifest path for a dataset file.
func ManifestPath(output string) string {
	return output + manifestSuffix
}

// WriteManifest writes m next to the dataset file at output, replacing any
// previous manifest only once the new one is complete.
func WriteManifest(fs afero.Fs, output string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode manifest: %w", ErrInvalidArgument, err)
	}
	data = append(data, '\n')

	return replaceFile(fs, ManifestPath(output), defaultFileMode, func(f afero.File) error {
		_, err := f.Write(data)
		if err == nil {
			err = f.Sync()
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("%w: write %s: %w", ErrIOFailure, f.Name(), err)
		}
		return nil
	})
}

// ReadManifest reads the sidecar manifest of the dataset file at output.
// A missing manifest yields an error matching fs.ErrNotExist.
func ReadManifest(fs afero.Fs, output string) (Manifest, error) {
	path := ManifestPath(output)
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: read %s: %w", ErrIOFailure, path, err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("%w: manifest %s: %w", ErrMalformed, path, err)
	}
	return m, nil
}
