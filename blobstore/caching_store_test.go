package blobstore

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStore struct {
	Store
	gets atomic.Int64
}

func (s *countingStore) Get(ctx context.Context, name string) ([]byte, error) {
	s.gets.Add(1)
	return s.Store.Get(ctx, name)
}

func newCountingStore(t *testing.T, blobs map[string]string) *countingStore {
	t.Helper()
	inner := NewMemoryStore()
	for name, data := range blobs {
		require.NoError(t, inner.Put(context.Background(), name, []byte(data)))
	}
	return &countingStore{Store: inner}
}

func TestCachingStore_Get(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, map[string]string{"a": "alpha"})
	s := NewCachingStore(inner, 1024)

	for i := 0; i < 3; i++ {
		data, err := s.Get(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, "alpha", string(data))
	}
	assert.Equal(t, int64(1), inner.gets.Load())

	stats := s.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(5), stats.Bytes)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 1, s.Stats().Entries)
}

func TestCachingStore_Eviction(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, map[string]string{
		"a":   "1234",
		"b":   "5678",
		"c":   "9abc",
		"big": "0123456789",
	})
	s := NewCachingStore(inner, 8)

	_, _ = s.Get(ctx, "a")
	_, _ = s.Get(ctx, "b")
	_, _ = s.Get(ctx, "a") // b is now least recently used
	_, _ = s.Get(ctx, "c")

	stats := s.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(8), stats.Bytes)

	before := inner.gets.Load()
	_, _ = s.Get(ctx, "a")
	assert.Equal(t, before, inner.gets.Load(), "a stays cached")
	_, _ = s.Get(ctx, "b")
	assert.Equal(t, before+1, inner.gets.Load(), "b was evicted")

	_, err := s.Get(ctx, "big")
	require.NoError(t, err)
	assert.LessOrEqual(t, s.Stats().Bytes, int64(8), "blobs larger than the budget are not cached")
}

func TestCachingStore_Invalidation(t *testing.T) {
	ctx := context.Background()
	s := NewCachingStore(NewMemoryStore(), 0)

	require.NoError(t, s.Put(ctx, "scene", []byte("v1")))
	data, err := s.Get(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, "v1", string(data))

	require.NoError(t, s.Put(ctx, "scene", []byte("v2")))
	data, err = s.Get(ctx, "scene")
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	require.NoError(t, s.Delete(ctx, "scene"))
	_, err = s.Get(ctx, "scene")
	assert.ErrorIs(t, err, ErrNotFound)

	names, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestCachingStore_Concurrent(t *testing.T) {
	ctx := context.Background()
	inner := newCountingStore(t, map[string]string{"a": "alpha", "b": "beta"})
	s := NewCachingStore(inner, 1024)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := "a"
			if i%2 == 1 {
				name = "b"
			}
			data, err := s.Get(ctx, name)
			assert.NoError(t, err)
			assert.NotEmpty(t, data)
		}(i)
	}
	wg.Wait()

	assert.LessOrEqual(t, inner.gets.Load(), int64(32))
	assert.Equal(t, 2, s.Stats().Entries)
}
