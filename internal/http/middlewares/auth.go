package middlewares

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dropDatabas3/tenantd/internal/observability/logger"
)

// AuthConfig configura la validación opcional de bearer tokens.
type AuthConfig struct {
	// Secret HS256 compartido. Si está vacío, el middleware es un no-op.
	Secret string
	// TenantClaim es el claim del que se puede tomar el tenant key
	// cuando el request no trae header (default "tid").
	TenantClaim string
}

// WithAuth valida un bearer token HS256 si viene en el request. El token es
// opcional: sin Authorization el request sigue igual. Con token inválido
// respondemos 401. Con token válido, si el request no identificó tenant por
// header, el claim configurado puede aportar el tenant key.
func WithAuth(cfg AuthConfig) Middleware {
	claim := cfg.TenantClaim
	if claim == "" {
		claim = "tid"
	}
	return func(next http.Handler) http.Handler {
		if cfg.Secret == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			tk, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
				return []byte(cfg.Secret), nil
			}, jwt.WithValidMethods([]string{"HS256"}))
			if err != nil || !tk.Valid {
				logger.From(r.Context()).Warn("invalid bearer token", logger.Err(err))
				w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token"`)
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			ctx := r.Context()
			if GetTenantKey(ctx) == "" {
				if claims, ok := tk.Claims.(jwt.MapClaims); ok {
					if v, ok := claims[claim].(string); ok && v != "" {
						ctx = setTenantKey(ctx, v)
					}
				}
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
