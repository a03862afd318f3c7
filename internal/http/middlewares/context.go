package middlewares

import "context"

type ctxKey int

const (
	ctxKeyRequestID ctxKey = iota
	ctxKeyTenantKey
)

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID, rid)
}

// GetRequestID devuelve el request ID del contexto, o "" si no hay.
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID).(string); ok {
		return v
	}
	return ""
}

func setTenantKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, ctxKeyTenantKey, key)
}

// GetTenantKey devuelve el tenant key del contexto. El string vacío significa
// que el cliente no identificó tenant: el resolver decide qué hacer con eso
// según su política de empty key.
func GetTenantKey(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTenantKey).(string); ok {
		return v
	}
	return ""
}
