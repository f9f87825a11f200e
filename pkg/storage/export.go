package storage

import (
	"errors"
	"fmt"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

// ExportBolt writes records into bucket of the bbolt database at path and
// stores m alongside them. An existing bucket of the same name is replaced;
// other buckets in the file are kept.
func ExportBolt(path, bucket string, records dataset.Records, m dataset.Manifest) (err error) {
	if records == nil {
		return fmt.Errorf("%w: nil dataset", dataset.ErrInvalidArgument)
	}
	backend, err := NewBboltBackend(path)
	if err != nil {
		return fmt.Errorf("%w: %w", dataset.ErrIOFailure, err)
	}
	store := NewRecordStore(backend)
	defer func() {
		if cerr := store.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("%w: close %s: %w", dataset.ErrIOFailure, path, cerr)
		}
	}()

	if err := store.PutRecords(bucket, records); err != nil {
		return ioFailure(err)
	}
	if err := store.PutManifest(m); err != nil {
		return ioFailure(err)
	}
	return nil
}

// InspectBolt summarizes the records stored in bucket of the database at
// path, along with the stored manifest if there is one.
func InspectBolt(path, bucket string) (summary dataset.Summary, m dataset.Manifest, found bool, err error) {
	backend, err := OpenBboltReadOnly(path)
	if err != nil {
		return summary, m, false, fmt.Errorf("%w: %w", dataset.ErrIOFailure, err)
	}
	store := NewRecordStore(backend)
	defer store.Close()

	m, found, err = store.GetManifest()
	if err != nil {
		return summary, m, false, err
	}
	if bucket == "" && found {
		bucket = m.Kind
	}
	if bucket == "" {
		return summary, m, found, fmt.Errorf("%w: no bucket given and no manifest in %s", dataset.ErrInvalidArgument, path)
	}

	s := dataset.NewSummarizer(path, dataset.FormatBolt, dataset.CompressionNone)
	err = store.ForEachRecord(bucket, func(_ int, data []byte) error {
		return s.Add(data)
	})
	if errors.Is(err, ErrBucketNotFound) {
		return summary, m, found, fmt.Errorf("%w: %w", dataset.ErrMalformed, err)
	}
	if err != nil {
		return summary, m, found, err
	}
	return s.Summary(), m, found, nil
}

func ioFailure(err error) error {
	if errors.Is(err, dataset.ErrInvalidArgument) {
		return err
	}
	return fmt.Errorf("%w: %w", dataset.ErrIOFailure, err)
}
