// Package app es la raíz de composición: lee la config, arma el registry de
// capabilities tenant por tenant, congela, y deja el resolver y los managers
// listos para el router.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/config"
	"github.com/dropDatabas3/tenantd/internal/directory"
	httpx "github.com/dropDatabas3/tenantd/internal/http"
	"github.com/dropDatabas3/tenantd/internal/http/middlewares"
	"github.com/dropDatabas3/tenantd/internal/infra/tenantcache"
	"github.com/dropDatabas3/tenantd/internal/infra/tenantpg"
	"github.com/dropDatabas3/tenantd/internal/notify"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
	"github.com/dropDatabas3/tenantd/internal/scope"
	"github.com/dropDatabas3/tenantd/internal/security/secretbox"
)

// App agrupa todo lo que el comando serve necesita.
type App struct {
	Handler  http.Handler
	Registry *capability.Registry
	Resolver *capability.Resolver

	pools  *tenantpg.Manager
	caches *tenantcache.Manager
}

// New arma la aplicación completa desde la configuración ya validada.
func New(cfg *config.Config) (*App, error) {
	// Las duraciones de la config ya se validaron en Load.
	lifetime, _ := time.ParseDuration(cfg.Database.Pool.ConnMaxLifetime)
	pools, err := tenantpg.New(tenantpg.Config{
		Resolve: dsnResolver(cfg),
		Pool: tenantpg.PoolConfig{
			MaxConns:        int32(cfg.Database.Pool.MaxConns),
			MinConns:        int32(cfg.Database.Pool.MinConns),
			ConnMaxLifetime: lifetime,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("app: tenantpg: %w", err)
	}

	caches, err := tenantcache.New(tenantcache.Config{Resolve: cacheResolver(cfg)})
	if err != nil {
		return nil, fmt.Errorf("app: tenantcache: %w", err)
	}

	reg, err := buildRegistry(cfg, pools, caches)
	if err != nil {
		return nil, err
	}

	policy, err := capability.ParseEmptyKeyPolicy(cfg.Resolver.EmptyKey)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}
	res := capability.NewResolver(reg, capability.WithEmptyKeyPolicy(policy))

	handler := httpx.NewRouter(httpx.RouterConfig{
		Registry:     reg,
		Resolver:     res,
		TenantHeader: cfg.Resolver.TenantHeader,
		Auth: middlewares.AuthConfig{
			Secret:      authSecret(cfg),
			TenantClaim: cfg.Auth.TenantClaim,
		},
	})

	logger.L().Info("application wired",
		logger.Component("app"),
		logger.Count(len(cfg.Tenants)),
		logger.String("empty_key_policy", cfg.Resolver.EmptyKey),
	)

	return &App{
		Handler:  handler,
		Registry: reg,
		Resolver: res,
		pools:    pools,
		caches:   caches,
	}, nil
}

// Close libera pools y clientes de cache. Para el shutdown del proceso.
func (a *App) Close() error {
	var first error
	if err := a.caches.Close(); err != nil && first == nil {
		first = err
	}
	if err := a.pools.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// buildRegistry registra un candidato por tenant y capability, en el orden
// en que los tenants aparecen en la config. Ese orden es contrato: el
// resolver selecciona el primer match.
func buildRegistry(cfg *config.Config, pools *tenantpg.Manager, caches *tenantcache.Manager) (*capability.Registry, error) {
	b := capability.NewBuilder()

	for _, t := range cfg.Tenants {
		t := t
		dirName := t.Key + "Directory"
		var err error
		switch t.Directory.Driver {
		case "pg":
			err = capability.Bind[directory.Service](b, dirName,
				func(context.Context, *scope.Scope) (*directory.PostgresService, error) {
					return directory.NewPostgres(pools, t.Key, t.Directory.Schema), nil
				})
		case "cached":
			ttl := parseTTL(t.Directory.Cache.TTL)
			err = capability.Bind[directory.Service](b, dirName,
				func(context.Context, *scope.Scope) (*directory.CachedService, error) {
					inner := directory.NewStatic(profileOf(t))
					return directory.NewCached(inner, caches, t.Key, ttl), nil
				})
		default: // "static"
			err = capability.Bind[directory.Service](b, dirName,
				func(context.Context, *scope.Scope) (*directory.StaticService, error) {
					return directory.NewStatic(profileOf(t)), nil
				})
		}
		if err != nil {
			return nil, fmt.Errorf("app: bind directory for %q: %w", t.Key, err)
		}

		mailName := t.Key + "Mailer"
		switch t.Mailer.Driver {
		case "smtp":
			err = capability.Bind[notify.Mailer](b, mailName,
				func(context.Context, *scope.Scope) (*notify.SMTPMailer, error) {
					return smtpMailer(cfg, t.Key)
				})
		default: // "log"
			err = capability.Bind[notify.Mailer](b, mailName,
				func(context.Context, *scope.Scope) (*notify.LogMailer, error) {
					return notify.NewLog(t.Key), nil
				})
		}
		if err != nil {
			return nil, fmt.Errorf("app: bind mailer for %q: %w", t.Key, err)
		}
	}

	return b.Freeze(), nil
}

func profileOf(t config.Tenant) directory.Profile {
	p := t.Directory.Profile
	return directory.Profile{
		DisplayName:  p.DisplayName,
		Plan:         p.Plan,
		Features:     p.Features,
		SupportEmail: p.SupportEmail,
	}
}

// dsnResolver descifra el DSN del tenant con la master key del proceso.
func dsnResolver(cfg *config.Config) tenantpg.DSNResolver {
	return func(_ context.Context, key string) (string, error) {
		for _, t := range cfg.Tenants {
			if t.Key != key {
				continue
			}
			if t.Directory.DSNEnc == "" {
				return "", tenantpg.ErrNoDBForTenant
			}
			dsn, err := secretbox.Decrypt(t.Directory.DSNEnc)
			if err != nil {
				return "", fmt.Errorf("app: decrypt dsn for %q: %w", key, err)
			}
			return dsn, nil
		}
		return "", tenantpg.ErrNoDBForTenant
	}
}

// cacheResolver mapea la config del tenant a una conexión de cache.
func cacheResolver(cfg *config.Config) tenantcache.Resolver {
	return func(_ context.Context, key string) (*tenantcache.Connection, error) {
		for _, t := range cfg.Tenants {
			if t.Key != key {
				continue
			}
			cc := t.Directory.Cache
			prefix := cc.Prefix
			if prefix == "" {
				prefix = key + ":"
			}
			conn := &tenantcache.Connection{
				Driver:     cc.Driver,
				Prefix:     prefix,
				DefaultTTL: parseTTL(cc.TTL),
			}
			if conn.Driver == "redis" {
				conn.Addr = cfg.Cache.Redis.Addr
				conn.DB = cfg.Cache.Redis.DB
			}
			return conn, nil
		}
		return nil, tenantcache.ErrNoCacheForTenant
	}
}

func parseTTL(s string) time.Duration {
	if s == "" {
		return 2 * time.Minute
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}

func smtpMailer(cfg *config.Config, tenant string) (*notify.SMTPMailer, error) {
	pass := cfg.SMTP.Password
	if cfg.SMTP.PasswordEnc != "" {
		dec, err := secretbox.Decrypt(cfg.SMTP.PasswordEnc)
		if err != nil {
			return nil, fmt.Errorf("app: decrypt smtp password: %w", err)
		}
		pass = dec
	}
	m := notify.NewSMTP(tenant, cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.From, cfg.SMTP.Username, pass)
	if cfg.SMTP.TLS != "" {
		m.TLSMode = cfg.SMTP.TLS
	}
	m.InsecureSkipVerify = cfg.SMTP.InsecureSkipVerify
	return m, nil
}

func authSecret(cfg *config.Config) string {
	if !cfg.Auth.Enabled {
		return ""
	}
	return cfg.Auth.HS256Secret
}
