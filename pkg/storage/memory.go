package storage

import (
	"fmt"
	"slices"
	"sync"
)

// MemoryBackend implements Backend with in-memory maps. Update is not
// isolated: writes made before fn fails are kept.
type MemoryBackend struct {
	buckets map[string]map[string][]byte
	mu      sync.RWMutex
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		buckets: make(map[string]map[string][]byte),
	}
}

func (m *MemoryBackend) CreateBucket(name []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.buckets[string(name)]; !exists {
		m.buckets[string(name)] = make(map[string][]byte)
	}
	return nil
}

func (m *MemoryBackend) deleteBucket(name []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.buckets, string(name))
}

func (m *MemoryBackend) BucketExists(name []byte) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, exists := m.buckets[string(name)]
	return exists, nil
}

func (m *MemoryBackend) Put(bucket, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	bkt[string(key)] = slices.Clone(value)
	return nil
}

func (m *MemoryBackend) Get(bucket, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	value, exists := bkt[string(key)]
	if !exists {
		return nil, nil
	}
	return slices.Clone(value), nil
}

// ForEach visits keys in ascending byte order, matching bbolt.
func (m *MemoryBackend) ForEach(bucket []byte, fn func(k, v []byte) error) error {
	m.mu.RLock()
	bkt, exists := m.buckets[string(bucket)]
	if !exists {
		m.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrBucketNotFound, bucket)
	}
	keys := make([]string, 0, len(bkt))
	for k := range bkt {
		keys = append(keys, k)
	}
	values := make(map[string][]byte, len(bkt))
	for k, v := range bkt {
		values[k] = v
	}
	m.mu.RUnlock()

	slices.Sort(keys)
	for _, k := range keys {
		if err := fn([]byte(k), values[k]); err != nil {
			return err
		}
	}
	return nil
}

func (m *MemoryBackend) Update(fn func(tx Transaction) error) error {
	return fn(&memoryTransaction{backend: m})
}

// Close is a no-op.
func (m *MemoryBackend) Close() error {
	return nil
}

type memoryTransaction struct {
	backend *MemoryBackend
}

func (t *memoryTransaction) CreateBucket(name []byte) error {
	return t.backend.CreateBucket(name)
}

func (t *memoryTransaction) DeleteBucket(name []byte) error {
	t.backend.deleteBucket(name)
	return nil
}

func (t *memoryTransaction) Bucket(name []byte) Bucket {
	if exists, _ := t.backend.BucketExists(name); !exists {
		return nil
	}
	return &memoryBucket{backend: t.backend, name: name}
}

type memoryBucket struct {
	backend *MemoryBackend
	name    []byte
}

func (b *memoryBucket) Put(key, value []byte) error {
	return b.backend.Put(b.name, key, value)
}

func (b *memoryBucket) Get(key []byte) []byte {
	value, _ := b.backend.Get(b.name, key)
	return value
}
