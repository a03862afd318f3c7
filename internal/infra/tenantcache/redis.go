package tenantcache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient implementa Client usando Redis, con prefix por tenant para
// aislar keyspaces cuando varios tenants comparten la misma instancia.
type RedisClient struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisClient crea un cliente Redis a partir de la conexión del tenant.
// No hace Ping acá: el Manager decide cuándo verificar conectividad.
func NewRedisClient(conn *Connection) *RedisClient {
	addr := conn.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: conn.Password,
		DB:       conn.DB,
	})
	ttl := conn.DefaultTTL
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisClient{
		client: rdb,
		prefix: conn.Prefix,
		ttl:    ttl,
	}
}

func (c *RedisClient) key(k string) string {
	if c.prefix == "" {
		return k
	}
	return c.prefix + k
}

func (c *RedisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, c.key(key)).Result()
	if err == redis.Nil {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *RedisClient) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *RedisClient) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *RedisClient) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}
