package tenantcache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryClient es el driver in-process, para desarrollo y tenants chicos.
type MemoryClient struct {
	prefix string
	cache  *gocache.Cache
}

// NewMemoryClient crea un cliente de memoria con TTL por defecto.
func NewMemoryClient(prefix string, defaultTTL time.Duration) *MemoryClient {
	if defaultTTL <= 0 {
		defaultTTL = 2 * time.Minute
	}
	return &MemoryClient{
		prefix: prefix,
		cache:  gocache.New(defaultTTL, 2*defaultTTL),
	}
}

func (c *MemoryClient) Get(_ context.Context, key string) (string, error) {
	v, ok := c.cache.Get(c.prefix + key)
	if !ok {
		return "", ErrKeyNotFound
	}
	s, ok := v.(string)
	if !ok {
		return "", ErrKeyNotFound
	}
	return s, nil
}

func (c *MemoryClient) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.cache.Set(c.prefix+key, value, ttl)
	return nil
}

func (c *MemoryClient) Delete(_ context.Context, key string) error {
	c.cache.Delete(c.prefix + key)
	return nil
}

func (c *MemoryClient) Ping(_ context.Context) error { return nil }

func (c *MemoryClient) Close() error {
	c.cache.Flush()
	return nil
}
