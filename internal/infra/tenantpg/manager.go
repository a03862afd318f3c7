// Package tenantpg administra pools de Postgres por tenant: un pool por
// tenant key, creado on-demand y reutilizado entre requests.
package tenantpg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNoDBForTenant         = errors.New("no database configured for tenant")
	ErrResolverNotConfigured = errors.New("tenant dsn resolver not configured")
)

// IsNoDBForTenant indicates whether the error means a tenant lacks DB configuration.
func IsNoDBForTenant(err error) bool { return errors.Is(err, ErrNoDBForTenant) }

// DSNResolver resuelve el DSN (ya descifrado) para un tenant key.
// Debe devolver ErrNoDBForTenant si el tenant no tiene base configurada.
type DSNResolver func(ctx context.Context, key string) (string, error)

// PoolConfig define parámetros del pool por tenant.
type PoolConfig struct {
	MaxConns        int32
	MinConns        int32
	ConnMaxLifetime time.Duration
}

// Config permite personalizar la instancia del Manager.
type Config struct {
	Resolve DSNResolver
	Pool    PoolConfig
}

// PoolStat es un snapshot del estado de un pool específico.
type PoolStat struct {
	Tenant   string
	Acquired int32
	Idle     int32
	Total    int32
}

// Manager administra pools por tenant, evitando creaciones en paralelo
// mediante singleflight.
type Manager struct {
	resolver DSNResolver
	poolCfg  PoolConfig

	mu    sync.RWMutex
	pools map[string]*pgxpool.Pool
	sf    singleflight.Group
}

// New crea un nuevo Manager con la configuración indicada.
func New(cfg Config) (*Manager, error) {
	if cfg.Resolve == nil {
		return nil, ErrResolverNotConfigured
	}

	poolCfg := cfg.Pool
	if poolCfg.MaxConns <= 0 {
		poolCfg.MaxConns = 15
	}
	if poolCfg.MinConns <= 0 {
		poolCfg.MinConns = 2
	}
	if poolCfg.ConnMaxLifetime <= 0 {
		poolCfg.ConnMaxLifetime = 30 * time.Minute
	}

	return &Manager{
		resolver: cfg.Resolve,
		poolCfg:  poolCfg,
		pools:    make(map[string]*pgxpool.Pool),
	}, nil
}

// Get devuelve (o crea) el pool asociado al tenant solicitado.
func (m *Manager) Get(ctx context.Context, key string) (*pgxpool.Pool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrNoDBForTenant
	}

	m.mu.RLock()
	if pool, ok := m.pools[key]; ok {
		m.mu.RUnlock()
		return pool, nil
	}
	m.mu.RUnlock()

	result, err, _ := m.sf.Do(key, func() (interface{}, error) {
		// Re-check: otro vuelo pudo haber guardado el pool ya.
		m.mu.RLock()
		if pool, ok := m.pools[key]; ok {
			m.mu.RUnlock()
			return pool, nil
		}
		m.mu.RUnlock()

		pool, err := m.openPool(ctx, key)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.pools[key] = pool
		m.mu.Unlock()
		return pool, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*pgxpool.Pool), nil
}

func (m *Manager) openPool(ctx context.Context, key string) (*pgxpool.Pool, error) {
	dsn, err := m.resolver(ctx, key)
	if err != nil {
		return nil, err
	}

	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("tenantpg: parse dsn for %q: %w", key, err)
	}
	pcfg.MaxConns = m.poolCfg.MaxConns
	pcfg.MinConns = m.poolCfg.MinConns
	pcfg.MaxConnLifetime = m.poolCfg.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("tenantpg: open pool for %q: %w", key, err)
	}
	return pool, nil
}

// Stats devuelve un snapshot por pool activo.
func (m *Manager) Stats() []PoolStat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]PoolStat, 0, len(m.pools))
	for key, pool := range m.pools {
		st := pool.Stat()
		out = append(out, PoolStat{
			Tenant:   key,
			Acquired: st.AcquiredConns(),
			Idle:     st.IdleConns(),
			Total:    st.TotalConns(),
		})
	}
	return out
}

// Close cierra todos los pools activos.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, pool := range m.pools {
		pool.Close()
		delete(m.pools, key)
	}
	return nil
}
