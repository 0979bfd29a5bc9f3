package blobstore

import (
	"container/list"
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultCacheBytes is the cache budget used when NewCachingStore gets a
// non-positive limit (16 MiB).
const DefaultCacheBytes = 16 << 20

// CachingStore wraps a Store and keeps recently read blobs in memory.
// Concurrent misses for the same name share one backend read.
type CachingStore struct {
	inner    Store
	maxBytes int64

	mu    sync.Mutex
	lru   *list.List // front is most recently used
	items map[string]*list.Element
	bytes int64

	group singleflight.Group

	hits, misses int64
}

type cacheEntry struct {
	name string
	data []byte
}

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64
	Misses  int64
	Entries int
	Bytes   int64
}

// NewCachingStore creates a new CachingStore holding at most maxBytes.
func NewCachingStore(inner Store, maxBytes int64) *CachingStore {
	if maxBytes <= 0 {
		maxBytes = DefaultCacheBytes
	}
	return &CachingStore{
		inner:    inner,
		maxBytes: maxBytes,
		lru:      list.New(),
		items:    make(map[string]*list.Element),
	}
}

// Get returns a blob from the cache or the inner store. The returned slice
// must not be modified.
func (s *CachingStore) Get(ctx context.Context, name string) ([]byte, error) {
	if data, ok := s.lookup(name); ok {
		return data, nil
	}

	v, err, _ := s.group.Do(name, func() (any, error) {
		data, err := s.inner.Get(ctx, name)
		if err != nil {
			return nil, err
		}
		s.insert(name, data)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Put writes through and invalidates the cached copy.
func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.invalidate(name)
	return s.inner.Put(ctx, name, data)
}

// Delete deletes through and invalidates the cached copy.
func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.invalidate(name)
	return s.inner.Delete(ctx, name)
}

// List is not cached.
func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// Stats returns a snapshot of the cache counters.
func (s *CachingStore) Stats() CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CacheStats{Hits: s.hits, Misses: s.misses, Entries: len(s.items), Bytes: s.bytes}
}

func (s *CachingStore) lookup(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[name]
	if !ok {
		s.misses++
		return nil, false
	}
	s.hits++
	s.lru.MoveToFront(el)
	return el.Value.(*cacheEntry).data, true
}

func (s *CachingStore) insert(name string, data []byte) {
	size := int64(len(data))
	if size > s.maxBytes {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[name]; ok {
		s.remove(el)
	}
	s.items[name] = s.lru.PushFront(&cacheEntry{name: name, data: data})
	s.bytes += size

	for s.bytes > s.maxBytes {
		s.remove(s.lru.Back())
	}
}

func (s *CachingStore) invalidate(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[name]; ok {
		s.remove(el)
	}
}

// remove must be called with mu held.
func (s *CachingStore) remove(el *list.Element) {
	e := el.Value.(*cacheEntry)
	s.lru.Remove(el)
	delete(s.items, e.name)
	s.bytes -= int64(len(e.data))
}
