// Package storage persists datasets into key-value buckets.
package storage

import "errors"

// ErrBucketNotFound is returned when reading from a bucket that was never created.
var ErrBucketNotFound = errors.New("bucket not found")

// Backend is a bucketed key-value store. Iteration visits keys in ascending
// byte order.
type Backend interface {
	CreateBucket(name []byte) error
	BucketExists(name []byte) (bool, error)

	Put(bucket, key, value []byte) error
	Get(bucket, key []byte) ([]byte, error)

	ForEach(bucket []byte, fn func(k, v []byte) error) error

	// Update runs fn in a read-write transaction.
	Update(fn func(tx Transaction) error) error

	Close() error
}

// Transaction groups bucket writes.
type Transaction interface {
	CreateBucket(name []byte) error
	// DeleteBucket is a no-op for missing buckets.
	DeleteBucket(name []byte) error
	// Bucket returns nil for missing buckets.
	Bucket(name []byte) Bucket
}

// Bucket provides access to a single bucket within a transaction.
type Bucket interface {
	Put(key, value []byte) error
	Get(key []byte) []byte
}
