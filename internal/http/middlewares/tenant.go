package middlewares

import (
	"net/http"
	"strings"
)

// TenantKeyResolver define cómo obtener el tenant key de un request.
type TenantKeyResolver func(r *http.Request) string

// HeaderTenantResolver resuelve usando un header específico.
func HeaderTenantResolver(headerName string) TenantKeyResolver {
	if headerName == "" {
		headerName = "X-Tenant-Key"
	}
	return func(r *http.Request) string {
		return strings.TrimSpace(r.Header.Get(headerName))
	}
}

// QueryTenantResolver resuelve usando un query parameter.
func QueryTenantResolver(paramName string) TenantKeyResolver {
	if paramName == "" {
		paramName = "tenant"
	}
	return func(r *http.Request) string {
		return strings.TrimSpace(r.URL.Query().Get(paramName))
	}
}

// ChainResolvers combina múltiples resolvers, retornando el primer resultado no vacío.
func ChainResolvers(resolvers ...TenantKeyResolver) TenantKeyResolver {
	return func(r *http.Request) string {
		for _, resolve := range resolvers {
			if key := resolve(r); key != "" {
				return key
			}
		}
		return ""
	}
}

// WithTenantKey extrae el tenant key del request y lo deja en el contexto.
// No falla si el key viene vacío: el string vacío llega al resolver de
// capabilities, que aplica su política de empty key (wildcard o not found).
func WithTenantKey(resolve TenantKeyResolver) Middleware {
	if resolve == nil {
		resolve = HeaderTenantResolver("")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := setTenantKey(r.Context(), resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
