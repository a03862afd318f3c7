// Package http arma la superficie HTTP del servicio: router, middlewares y
// helpers de respuesta. Los handlers viven en el subpaquete handlers.
package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/http/handlers"
	"github.com/dropDatabas3/tenantd/internal/http/middlewares"
)

// RouterConfig agrupa las dependencias del router.
type RouterConfig struct {
	Registry *capability.Registry
	Resolver *capability.Resolver

	// TenantHeader es el header del que se toma el tenant key (default X-Tenant-Key).
	TenantHeader string

	// Auth habilita validación opcional de bearer tokens HS256.
	Auth middlewares.AuthConfig
}

// NewRouter construye el router completo con la cadena de middlewares.
// Orden: request id -> tenant key -> auth -> logging -> recover -> scope.
// El scope va último para que se abra con el logger scoped ya en contexto.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handlers.Health(cfg.Registry))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/v1", func(v1 chi.Router) {
		v1.Get("/directory/profile", handlers.DirectoryProfile(cfg.Resolver))
		v1.Post("/notify", handlers.Notify(cfg.Resolver))
		v1.Get("/resolve/{capability}", handlers.ResolveDryRun(cfg.Registry, cfg.Resolver))
	})

	return middlewares.Chain(r,
		middlewares.WithRequestID(),
		middlewares.WithTenantKey(middlewares.HeaderTenantResolver(cfg.TenantHeader)),
		middlewares.WithAuth(cfg.Auth),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
		middlewares.WithScope(),
	)
}

// ServerConfig son los timeouts del http.Server.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewServer crea el http.Server con timeouts sanos.
func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
