package scope

import "context"

type ctxKey struct{}

// NewContext inyecta el scope en el contexto del request.
// Usado por el middleware que abre un scope por request.
func NewContext(ctx context.Context, s *Scope) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext extrae el scope del contexto, o nil si no hay.
func FromContext(ctx context.Context) *Scope {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(ctxKey{}).(*Scope)
	return s
}
