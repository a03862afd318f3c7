package capability

import (
	"reflect"
	"sync"
)

// Registry es el mapeo congelado capability -> candidatos ordenados.
// Se construye una vez al arranque y es de solo lectura después: las lecturas
// concurrentes no necesitan locking.
type Registry struct {
	caps  map[reflect.Type][]Descriptor
	order []reflect.Type
}

// Candidates returns the candidates for a capability in registration order.
// The returned slice is a copy; mutating it does not affect the registry.
func (r *Registry) Candidates(capT reflect.Type) []Descriptor {
	ds, ok := r.caps[capT]
	if !ok {
		return nil
	}
	out := make([]Descriptor, len(ds))
	copy(out, ds)
	return out
}

// CandidatesOf returns the candidates registered for capability C.
func CandidatesOf[C any](r *Registry) []Descriptor {
	return r.Candidates(KeyOf[C]())
}

// Capabilities returns the registered capability types in registration order.
func (r *Registry) Capabilities() []reflect.Type {
	out := make([]reflect.Type, len(r.order))
	copy(out, r.order)
	return out
}

// Capability busca una capability por nombre corto ("directory.Service") o
// completo. Para superficies de diagnóstico; la resolución real usa el tipo.
func (r *Registry) Capability(name string) (reflect.Type, bool) {
	for _, t := range r.order {
		if t.String() == name || t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Lazy defers the registry build to first use with an at-most-once guarantee:
// concurrent first callers race, exactly one build runs, everyone observes the
// same registry (or the same build error).
type Lazy struct {
	once  sync.Once
	build func() (*Registry, error)
	reg   *Registry
	err   error
}

// NewLazy wraps a build function for first-use construction.
func NewLazy(build func() (*Registry, error)) *Lazy {
	return &Lazy{build: build}
}

// Registry returns the built registry, building it on first call.
func (l *Lazy) Registry() (*Registry, error) {
	l.once.Do(func() {
		l.reg, l.err = l.build()
	})
	return l.reg, l.err
}
