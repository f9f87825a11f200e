package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backendTestSuite runs the shared Backend contract against an implementation.
func backendTestSuite(t *testing.T, newBackend func(t *testing.T) Backend) {
	t.Run("CreateBucketIdempotent", func(t *testing.T) {
		backend := newBackend(t)

		require.NoError(t, backend.CreateBucket([]byte("test")))
		exists, err := backend.BucketExists([]byte("test"))
		require.NoError(t, err)
		assert.True(t, exists)

		assert.NoError(t, backend.CreateBucket([]byte("test")))
	})

	t.Run("PutAndGet", func(t *testing.T) {
		backend := newBackend(t)
		require.NoError(t, backend.CreateBucket([]byte("test")))

		require.NoError(t, backend.Put([]byte("test"), []byte("key1"), []byte("value1")))
		got, err := backend.Get([]byte("test"), []byte("key1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value1"), got)

		got, err = backend.Get([]byte("test"), []byte("nonexistent"))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("MissingBucket", func(t *testing.T) {
		backend := newBackend(t)

		assert.ErrorIs(t, backend.Put([]byte("nope"), []byte("k"), []byte("v")), ErrBucketNotFound)
		_, err := backend.Get([]byte("nope"), []byte("k"))
		assert.ErrorIs(t, err, ErrBucketNotFound)
		err = backend.ForEach([]byte("nope"), func(_, _ []byte) error { return nil })
		assert.ErrorIs(t, err, ErrBucketNotFound)
	})

	t.Run("ForEachOrdered", func(t *testing.T) {
		backend := newBackend(t)
		require.NoError(t, backend.CreateBucket([]byte("test")))

		for _, i := range []int{300, 2, 70000, 0, 1} {
			require.NoError(t, backend.Put([]byte("test"), IndexKey(i), []byte{byte(i)}))
		}

		var keys [][]byte
		err := backend.ForEach([]byte("test"), func(k, _ []byte) error {
			keys = append(keys, append([]byte(nil), k...))
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, [][]byte{IndexKey(0), IndexKey(1), IndexKey(2), IndexKey(300), IndexKey(70000)}, keys)
	})

	t.Run("Transactions", func(t *testing.T) {
		backend := newBackend(t)

		err := backend.Update(func(tx Transaction) error {
			if err := tx.CreateBucket([]byte("test")); err != nil {
				return err
			}
			b := tx.Bucket([]byte("test"))
			require.NotNil(t, b)
			assert.Nil(t, tx.Bucket([]byte("other")))
			return b.Put([]byte("key1"), []byte("value1"))
		})
		require.NoError(t, err)

		got, err := backend.Get([]byte("test"), []byte("key1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("value1"), got)

		err = backend.Update(func(tx Transaction) error {
			if err := tx.DeleteBucket([]byte("test")); err != nil {
				return err
			}
			// Deleting a missing bucket is a no-op.
			return tx.DeleteBucket([]byte("test"))
		})
		require.NoError(t, err)
		exists, err := backend.BucketExists([]byte("test"))
		require.NoError(t, err)
		assert.False(t, exists)
	})
}
