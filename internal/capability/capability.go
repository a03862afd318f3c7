package capability

import (
	"context"
	"errors"
	"reflect"

	"github.com/dropDatabas3/tenantd/internal/scope"
)

var (
	// ErrNotFound indica que ningún candidato registrado matchea el tenant key.
	// También cubre el caso de una capability nunca registrada (lista vacía),
	// para que los callers tengan una sola forma de fallo que manejar.
	ErrNotFound = errors.New("capability: no candidate for tenant key")
	// ErrNotInterface is returned when the capability type parameter is not an interface.
	ErrNotInterface = errors.New("capability: capability type must be an interface")
	// ErrDoesNotSatisfy is returned when a concrete type does not implement the capability.
	ErrDoesNotSatisfy = errors.New("capability: concrete type does not satisfy capability")
	// ErrDuplicateCandidate indicates a (type, name) pair registered twice for one capability.
	ErrDuplicateCandidate = errors.New("capability: duplicate candidate")
	// ErrFrozen is returned when binding against a builder that already produced its registry.
	ErrFrozen = errors.New("capability: builder is frozen")
	// ErrEmptyName is returned when no display name was given and none could be derived.
	ErrEmptyName = errors.New("capability: empty display name")
)

// IsNotFound verifica si el error significa "no hay implementación para este tenant".
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// Constructor produces a live instance of a candidate inside the given scope.
// The scope, not the resolver, owns the returned instance.
type Constructor func(ctx context.Context, sc *scope.Scope) (any, error)

// Handle identifies a registered candidate: the concrete Go type plus its
// display name. Comparable; unique per capability.
//
// The name is part of the identity because Go candidates are usually one
// concrete type closed over per-tenant configuration, unlike source languages
// that mint a class per tenant.
type Handle struct {
	Type reflect.Type
	Name string
}

// Descriptor representa una implementación concreta elegible para satisfacer
// una capability. Inmutable después de Freeze.
type Descriptor struct {
	handle    Handle
	construct Constructor
}

// Name returns the display name used for tenant-key substring matching.
func (d Descriptor) Name() string { return d.handle.Name }

// Concrete returns the registered concrete type.
func (d Descriptor) Concrete() reflect.Type { return d.handle.Type }

// Handle returns the candidate identity.
func (d Descriptor) Handle() Handle { return d.handle }

// KeyOf returns the registry key for capability C.
func KeyOf[C any]() reflect.Type {
	return reflect.TypeOf((*C)(nil)).Elem()
}

// typeName derives a display name from a concrete type, unwrapping pointers.
func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}
