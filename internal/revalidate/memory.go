package revalidate

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryCache is a process-local RouteCache backed by an expiring LRU
type MemoryCache struct {
	mu          sync.Mutex
	generations map[string]int64
	lru         *expirable.LRU[string, []byte]
}

// NewMemoryCache creates an in-memory route cache holding at most size entries for ttl each
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultSize
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &MemoryCache{
		generations: make(map[string]int64),
		lru:         expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

// Generation returns the current generation of a path
func (m *MemoryCache) Generation(_ context.Context, path string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.generations[path], nil
}

// Get returns the cached value for a path and raw query
func (m *MemoryCache) Get(_ context.Context, path, query string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.lru.Get(routeKey(path, m.generations[path], query))
	return value, ok, nil
}

// Set stores a value unless the path was revalidated after generation was read
func (m *MemoryCache) Set(_ context.Context, path, query string, generation int64, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.generations[path] != generation {
		return nil
	}
	m.lru.Add(routeKey(path, generation, query), value)
	return nil
}

// Revalidate advances the generation of a path and drops every cached variant of it
func (m *MemoryCache) Revalidate(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.generations[path]++
	prefix := pathPrefix(path)
	for _, key := range m.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			m.lru.Remove(key)
		}
	}
	return nil
}

// Close purges the cache
func (m *MemoryCache) Close() error {
	m.lru.Purge()
	return nil
}
