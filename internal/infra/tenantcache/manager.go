// Package tenantcache administra clientes de cache por tenant
// (memory o redis), creados on-demand y compartidos entre requests.
package tenantcache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNoCacheForTenant      = errors.New("no cache configured for tenant")
	ErrResolverNotConfigured = errors.New("tenant cache resolver not configured")
	// ErrKeyNotFound es el miss de cache, común a todos los drivers.
	ErrKeyNotFound = errors.New("tenantcache: key not found")
)

// IsKeyNotFound verifica si el error es un miss de cache.
func IsKeyNotFound(err error) bool { return errors.Is(err, ErrKeyNotFound) }

// Connection representa la configuración mínima necesaria para conectar al cache.
type Connection struct {
	Driver     string // "memory" | "redis"
	Addr       string
	Password   string
	DB         int
	Prefix     string
	DefaultTTL time.Duration
}

// Resolver resuelve la configuración de conexión para un tenant.
type Resolver func(ctx context.Context, key string) (*Connection, error)

// Client define la interfaz mínima que debe cumplir un cliente de cache.
type Client interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Config permite personalizar la instancia del Manager.
type Config struct {
	Resolve Resolver
}

// Manager administra clientes de cache por tenant.
type Manager struct {
	resolver Resolver

	mu      sync.RWMutex
	clients map[string]Client
	sf      singleflight.Group
}

// New crea un nuevo Manager con la configuración indicada.
func New(cfg Config) (*Manager, error) {
	if cfg.Resolve == nil {
		return nil, ErrResolverNotConfigured
	}
	return &Manager{
		resolver: cfg.Resolve,
		clients:  make(map[string]Client),
	}, nil
}

// Get devuelve (o crea) el cliente de cache asociado al tenant solicitado.
func (m *Manager) Get(ctx context.Context, key string) (Client, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNoCacheForTenant
	}

	m.mu.RLock()
	if client, ok := m.clients[key]; ok {
		m.mu.RUnlock()
		return client, nil
	}
	m.mu.RUnlock()

	result, err, _ := m.sf.Do(key, func() (interface{}, error) {
		m.mu.RLock()
		if client, ok := m.clients[key]; ok {
			m.mu.RUnlock()
			return client, nil
		}
		m.mu.RUnlock()

		client, err := m.createClient(ctx, key)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.clients[key] = client
		m.mu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(Client), nil
}

func (m *Manager) createClient(ctx context.Context, key string) (Client, error) {
	conn, err := m.resolver(ctx, key)
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, ErrNoCacheForTenant
	}

	switch strings.ToLower(strings.TrimSpace(conn.Driver)) {
	case "memory", "":
		return NewMemoryClient(conn.Prefix, conn.DefaultTTL), nil
	case "redis":
		return NewRedisClient(conn), nil
	default:
		return nil, fmt.Errorf("unsupported cache driver: %s", conn.Driver)
	}
}

// Close cierra todos los clientes activos.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, client := range m.clients {
		if client != nil {
			client.Close()
		}
		delete(m.clients, key)
	}
	return nil
}
