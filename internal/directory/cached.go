package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dropDatabas3/tenantd/internal/infra/tenantcache"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
)

const profileCacheKey = "directory:profile"

// CachedService envuelve otro Service con el cache del tenant. Un miss o un
// cache caído degradan a la fuente, nunca fallan el request.
type CachedService struct {
	inner  Service
	caches *tenantcache.Manager
	tenant string
	ttl    time.Duration
}

// NewCached crea un servicio de directorio con cache read-through.
func NewCached(inner Service, caches *tenantcache.Manager, tenant string, ttl time.Duration) *CachedService {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &CachedService{inner: inner, caches: caches, tenant: tenant, ttl: ttl}
}

func (s *CachedService) Profile(ctx context.Context) (Profile, error) {
	client, err := s.caches.Get(ctx, s.tenant)
	if err != nil {
		// Sin cache configurado: servir directo de la fuente.
		return s.inner.Profile(ctx)
	}

	if raw, err := client.Get(ctx, profileCacheKey); err == nil {
		var p Profile
		if jsonErr := json.Unmarshal([]byte(raw), &p); jsonErr == nil {
			return p, nil
		}
		// Entrada corrupta: la pisamos con el próximo Set.
	} else if !tenantcache.IsKeyNotFound(err) {
		logger.From(ctx).Warn("directory: cache get failed, falling back to source",
			logger.TenantKey(s.tenant), logger.Err(err))
	}

	p, err := s.inner.Profile(ctx)
	if err != nil {
		return Profile{}, err
	}

	if raw, err := json.Marshal(p); err == nil {
		if err := client.Set(ctx, profileCacheKey, string(raw), s.ttl); err != nil {
			logger.From(ctx).Warn("directory: cache set failed",
				logger.TenantKey(s.tenant), logger.Err(err))
		}
	}
	return p, nil
}
