package capability

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"github.com/dropDatabas3/tenantd/internal/scope"
)

// Builder acumula candidatos por capability antes del primer request.
// Toda la registración pasa por un solo Builder y termina con Freeze();
// después de Freeze el Builder queda inutilizable (ErrFrozen).
type Builder struct {
	mu     sync.Mutex
	frozen bool
	caps   map[reflect.Type][]Descriptor
	order  []reflect.Type
}

// NewBuilder creates an empty registration table.
func NewBuilder() *Builder {
	return &Builder{caps: make(map[reflect.Type][]Descriptor)}
}

// Bind registers concrete type T as a candidate for capability C.
//
// The satisfaction check runs here, at registration time: if T does not
// implement C the binding fails immediately instead of blowing up on a cast
// during a request. An empty name derives the display name from T's type name.
func Bind[C any, T any](b *Builder, name string, ctor func(ctx context.Context, sc *scope.Scope) (T, error)) error {
	capT := KeyOf[C]()
	if capT.Kind() != reflect.Interface {
		return fmt.Errorf("%w: %s", ErrNotInterface, capT)
	}
	conT := reflect.TypeOf((*T)(nil)).Elem()
	if !conT.Implements(capT) {
		return fmt.Errorf("%w: %s does not implement %s", ErrDoesNotSatisfy, conT, capT)
	}
	if name == "" {
		name = typeName(conT)
	}
	if name == "" {
		return fmt.Errorf("%w: cannot derive a name for %s", ErrEmptyName, conT)
	}
	if ctor == nil {
		return fmt.Errorf("capability: nil constructor for %s", conT)
	}

	construct := func(ctx context.Context, sc *scope.Scope) (any, error) {
		v, err := ctor(ctx, sc)
		if err != nil {
			return nil, err
		}
		return v, nil
	}

	return b.add(capT, Handle{Type: conT, Name: name}, construct)
}

// MustBind es Bind pero con panic; para el wiring de arranque donde un error
// de registración es un bug de configuración, no una condición recuperable.
func MustBind[C any, T any](b *Builder, name string, ctor func(ctx context.Context, sc *scope.Scope) (T, error)) {
	if err := Bind[C](b, name, ctor); err != nil {
		panic(err)
	}
}

func (b *Builder) add(capT reflect.Type, h Handle, construct Constructor) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frozen {
		return fmt.Errorf("%w: cannot bind %q", ErrFrozen, h.Name)
	}
	for _, d := range b.caps[capT] {
		if d.handle == h {
			return fmt.Errorf("%w: %s as %q for %s", ErrDuplicateCandidate, h.Type, h.Name, capT)
		}
	}
	if _, ok := b.caps[capT]; !ok {
		b.order = append(b.order, capT)
	}
	b.caps[capT] = append(b.caps[capT], Descriptor{handle: h, construct: construct})
	return nil
}

// Freeze produce el Registry inmutable y sella el Builder.
// Una capability sin candidatos es válida: el fallo se difiere a resolución.
func (b *Builder) Freeze() *Registry {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.frozen = true

	caps := make(map[reflect.Type][]Descriptor, len(b.caps))
	for t, ds := range b.caps {
		out := make([]Descriptor, len(ds))
		copy(out, ds)
		caps[t] = out
	}
	order := make([]reflect.Type, len(b.order))
	copy(order, b.order)

	return &Registry{caps: caps, order: order}
}
