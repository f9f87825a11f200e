package storage

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"pkg.jsn.cam/datagen/pkg/dataset"
)

var (
	metaBucket  = []byte("_meta")
	manifestKey = []byte("manifest")
)

// RecordStore stores datasets as JSON values keyed by record index.
type RecordStore struct {
	backend Backend
}

// NewRecordStore wraps a backend.
func NewRecordStore(backend Backend) *RecordStore {
	return &RecordStore{backend: backend}
}

// Backend returns the underlying backend.
func (s *RecordStore) Backend() Backend {
	return s.backend
}

// PutRecords replaces the contents of bucket with records in a single
// transaction. Keys are big-endian indexes, so iteration follows generation order.
func (s *RecordStore) PutRecords(bucket string, records dataset.Records) error {
	name := []byte(bucket)
	return s.backend.Update(func(tx Transaction) error {
		if err := tx.DeleteBucket(name); err != nil {
			return fmt.Errorf("failed to reset bucket %s: %w", bucket, err)
		}
		if err := tx.CreateBucket(name); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
		bkt := tx.Bucket(name)
		if bkt == nil {
			return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
		}

		for i := range records.Len() {
			data, err := json.Marshal(records.At(i))
			if err != nil {
				return fmt.Errorf("%w: encode record %d: %w", dataset.ErrInvalidArgument, i, err)
			}
			if err := bkt.Put(IndexKey(i), data); err != nil {
				return fmt.Errorf("failed to store record %d: %w", i, err)
			}
		}
		return nil
	})
}

// ForEachRecord visits the records of bucket in index order.
func (s *RecordStore) ForEachRecord(bucket string, fn func(index int, data []byte) error) error {
	return s.backend.ForEach([]byte(bucket), func(k, v []byte) error {
		if len(k) != 8 {
			return fmt.Errorf("%w: key %x in bucket %s is not a record index", dataset.ErrMalformed, k, bucket)
		}
		return fn(int(binary.BigEndian.Uint64(k)), v)
	})
}

// Count returns the number of records in bucket.
func (s *RecordStore) Count(bucket string) (int, error) {
	n := 0
	err := s.backend.ForEach([]byte(bucket), func(_, _ []byte) error {
		n++
		return nil
	})
	return n, err
}

// PutManifest stores m in the metadata bucket.
func (s *RecordStore) PutManifest(m dataset.Manifest) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	return s.backend.Update(func(tx Transaction) error {
		if err := tx.CreateBucket(metaBucket); err != nil {
			return err
		}
		return tx.Bucket(metaBucket).Put(manifestKey, data)
	})
}

// GetManifest reads the stored manifest. found is false if none was stored.
func (s *RecordStore) GetManifest() (m dataset.Manifest, found bool, err error) {
	data, err := s.backend.Get(metaBucket, manifestKey)
	if errors.Is(err, ErrBucketNotFound) {
		return m, false, nil
	}
	if err != nil {
		return m, false, err
	}
	if data == nil {
		return m, false, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, false, fmt.Errorf("%w: manifest: %w", dataset.ErrMalformed, err)
	}
	return m, true, nil
}

// Close closes the underlying backend.
func (s *RecordStore) Close() error {
	return s.backend.Close()
}

// IndexKey encodes a record index as an ordered 8 byte key.
func IndexKey(i int) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(i))
	return key
}
