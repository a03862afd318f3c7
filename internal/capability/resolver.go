package capability

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/dropDatabas3/tenantd/internal/scope"
)

// EmptyKeyPolicy decide qué hacer con un tenant key vacío.
type EmptyKeyPolicy int

const (
	// EmptyKeyWildcard keeps the literal substring semantics: every name
	// contains the empty string, so the first candidate wins.
	EmptyKeyWildcard EmptyKeyPolicy = iota
	// EmptyKeyNotFound rejects empty keys with ErrNotFound.
	EmptyKeyNotFound
)

// ParseEmptyKeyPolicy mapea el valor de configuración a una política.
func ParseEmptyKeyPolicy(s string) (EmptyKeyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "wildcard":
		return EmptyKeyWildcard, nil
	case "not_found", "notfound":
		return EmptyKeyNotFound, nil
	default:
		return EmptyKeyWildcard, fmt.Errorf("capability: unknown empty-key policy %q", s)
	}
}

// Option configura un Resolver.
type Option func(*Resolver)

// WithEmptyKeyPolicy sets the empty tenant key behavior.
func WithEmptyKeyPolicy(p EmptyKeyPolicy) Option {
	return func(r *Resolver) { r.emptyKey = p }
}

// Resolver selecciona exactamente un candidato para un tenant key y delega la
// construcción al scope del request. Es una función pura sobre el Registry
// congelado: sin estado propio, seguro para uso concurrente arbitrario.
type Resolver struct {
	reg      *Registry
	emptyKey EmptyKeyPolicy
}

// NewResolver constructs a resolver over a frozen registry.
func NewResolver(reg *Registry, opts ...Option) *Resolver {
	r := &Resolver{reg: reg, emptyKey: EmptyKeyWildcard}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Match performs the key -> candidate lookup without constructing anything.
// Linear scan in registration order; first display name containing the key
// (case-sensitive) wins. Ambiguity is a configuration concern, not an error:
// the tie-break is deterministic by order.
func (r *Resolver) Match(capT reflect.Type, tenantKey string) (Descriptor, error) {
	if tenantKey == "" && r.emptyKey == EmptyKeyNotFound {
		return Descriptor{}, fmt.Errorf("%w: empty tenant key (capability %s)", ErrNotFound, capT)
	}
	for _, d := range r.reg.caps[capT] {
		if strings.Contains(d.handle.Name, tenantKey) {
			return d, nil
		}
	}
	return Descriptor{}, fmt.Errorf("%w: capability %s, tenant key %q", ErrNotFound, capT, tenantKey)
}

// Resolve returns a live instance of the capability C for the given tenant
// key. Construction goes through the scope, which memoizes one instance per
// candidate per scope and owns its lifetime. A NotFound failure is final for
// the call: no retries, no fallback.
func Resolve[C any](ctx context.Context, r *Resolver, sc *scope.Scope, tenantKey string) (C, error) {
	c, _, err := ResolveMatched[C](ctx, r, sc, tenantKey)
	return c, err
}

// ResolveMatched es Resolve pero además informa qué candidato ganó, para
// callers que reportan el nombre o el tipo concreto (respuestas, logs) sin
// repetir el match.
func ResolveMatched[C any](ctx context.Context, r *Resolver, sc *scope.Scope, tenantKey string) (C, Descriptor, error) {
	var zero C

	d, err := r.Match(KeyOf[C](), tenantKey)
	if err != nil {
		return zero, Descriptor{}, err
	}

	v, err := sc.Instance(d.handle, func() (any, error) {
		return d.construct(ctx, sc)
	})
	if err != nil {
		return zero, d, fmt.Errorf("capability: construct %q: %w", d.handle.Name, err)
	}

	c, ok := v.(C)
	if !ok {
		// Unreachable when the instance came from Bind; guards foreign scope entries.
		return zero, d, fmt.Errorf("capability: %T does not satisfy %s", v, KeyOf[C]())
	}
	return c, d, nil
}
