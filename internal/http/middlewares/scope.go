package middlewares

import (
	"net/http"

	"github.com/dropDatabas3/tenantd/internal/metrics"
	"github.com/dropDatabas3/tenantd/internal/observability/logger"
	"github.com/dropDatabas3/tenantd/internal/scope"
)

// WithScope abre un scope de construcción por request y lo cierra al final.
// Todo lo que el resolver construya durante el request queda memoizado en
// este scope, y los io.Closer que registre se cierran acá, en orden inverso.
func WithScope() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := scope.New()
			metrics.ScopesActive.Inc()
			defer func() {
				metrics.ScopesActive.Dec()
				if err := sc.Close(); err != nil {
					logger.From(r.Context()).Warn("scope close", logger.Err(err))
				}
			}()

			ctx := scope.NewContext(r.Context(), sc)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
