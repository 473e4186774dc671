package edgecache

import (
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryStorage is an in-process fiber.Storage backed by a TTL cache. It
// serves as the response-cache backend when no mysql/postgres storage is
// configured (sqlite/dev mode) and in tests.
type MemoryStorage struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemoryStorage creates a MemoryStorage with the given default TTL.
func NewMemoryStorage(defaultTTL time.Duration) *MemoryStorage {
	cache := ttlcache.New[string, []byte](
		ttlcache.WithTTL[string, []byte](defaultTTL),
	)

	go cache.Start() // expired-item eviction loop

	return &MemoryStorage{cache: cache}
}

// Get returns the value for key, or nil when absent or expired.
func (m *MemoryStorage) Get(key string) ([]byte, error) {
	item := m.cache.Get(key)
	if item == nil {
		return nil, nil
	}

	return item.Value(), nil
}

// Set stores val under key with the given expiry; zero exp means the
// storage default.
func (m *MemoryStorage) Set(key string, val []byte, exp time.Duration) error {
	ttl := exp
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}

	m.cache.Set(key, val, ttl)

	return nil
}

// Delete removes the entry for key.
func (m *MemoryStorage) Delete(key string) error {
	m.cache.Delete(key)
	return nil
}

// Reset removes all entries.
func (m *MemoryStorage) Reset() error {
	m.cache.DeleteAll()
	return nil
}

// Close stops the eviction loop.
func (m *MemoryStorage) Close() error {
	m.cache.Stop()
	return nil
}
