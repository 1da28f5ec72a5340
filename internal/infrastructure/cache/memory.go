package cache

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const memoryCleanupInterval = 5 * time.Minute

// MemoryCache is an in-process Cache used when no redis address is configured.
// A non-positive ttl keeps the entry until it is deleted.
type MemoryCache struct {
	items       *gocache.Cache
	serviceName string
}

func NewMemoryCache(serviceName string) *MemoryCache {
	return &MemoryCache{
		items:       gocache.New(gocache.NoExpiration, memoryCleanupInterval),
		serviceName: serviceName,
	}
}

func (m *MemoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	m.items.Set(key, fmt.Sprint(value), ttl)
	return nil
}

func (m *MemoryCache) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.items.Get(key)
	if !ok {
		return "", nil
	}
	s, _ := v.(string)
	return s, nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryCache) GenerateKey(operation, key string) string {
	return generateKey(m.serviceName, operation, key)
}
