package capability_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dropDatabas3/tenantd/internal/capability"
	"github.com/dropDatabas3/tenantd/internal/scope"
)

// Greeter is the capability under test.
type Greeter interface {
	Greet() string
}

type acmeGreeter struct{ tag string }

func (g *acmeGreeter) Greet() string { return "hello from " + g.tag }

type globexGreeter struct{}

func (g *globexGreeter) Greet() string { return "globex" }

// notAGreeter implements nothing.
type notAGreeter struct{}

func newAcme(_ context.Context, _ *scope.Scope) (*acmeGreeter, error) {
	return &acmeGreeter{tag: "Acme"}, nil
}

func TestBind_RegistersInOrder(t *testing.T) {
	b := capability.NewBuilder()
	if err := capability.Bind[Greeter](b, "Acme", newAcme); err != nil {
		t.Fatalf("bind Acme: %v", err)
	}
	if err := capability.Bind[Greeter](b, "Globex", func(context.Context, *scope.Scope) (*globexGreeter, error) {
		return &globexGreeter{}, nil
	}); err != nil {
		t.Fatalf("bind Globex: %v", err)
	}

	reg := b.Freeze()
	ds := capability.CandidatesOf[Greeter](reg)
	if len(ds) != 2 {
		t.Fatalf("candidates: got %d want 2", len(ds))
	}
	if ds[0].Name() != "Acme" || ds[1].Name() != "Globex" {
		t.Fatalf("order mismatch: %q, %q", ds[0].Name(), ds[1].Name())
	}
}

func TestBind_DerivesNameFromType(t *testing.T) {
	b := capability.NewBuilder()
	if err := capability.Bind[Greeter](b, "", newAcme); err != nil {
		t.Fatalf("bind: %v", err)
	}
	ds := capability.CandidatesOf[Greeter](b.Freeze())
	if got := ds[0].Name(); got != "acmeGreeter" {
		t.Fatalf("derived name: got %q", got)
	}
}

func TestBind_RejectsNonImplementer(t *testing.T) {
	b := capability.NewBuilder()
	err := capability.Bind[Greeter](b, "Nope", func(context.Context, *scope.Scope) (*notAGreeter, error) {
		return &notAGreeter{}, nil
	})
	if !errors.Is(err, capability.ErrDoesNotSatisfy) {
		t.Fatalf("expected ErrDoesNotSatisfy, got %v", err)
	}
}

func TestBind_RejectsNonInterfaceCapability(t *testing.T) {
	b := capability.NewBuilder()
	err := capability.Bind[acmeGreeter](b, "Acme", newAcme)
	if !errors.Is(err, capability.ErrNotInterface) {
		t.Fatalf("expected ErrNotInterface, got %v", err)
	}
}

func TestBind_RejectsDuplicateHandle(t *testing.T) {
	b := capability.NewBuilder()
	if err := capability.Bind[Greeter](b, "Acme", newAcme); err != nil {
		t.Fatalf("first bind: %v", err)
	}
	err := capability.Bind[Greeter](b, "Acme", newAcme)
	if !errors.Is(err, capability.ErrDuplicateCandidate) {
		t.Fatalf("expected ErrDuplicateCandidate, got %v", err)
	}
	// Same type under a different display name is a distinct candidate.
	if err := capability.Bind[Greeter](b, "AcmeEurope", newAcme); err != nil {
		t.Fatalf("distinct name: %v", err)
	}
}

func TestBind_AfterFreezeFails(t *testing.T) {
	b := capability.NewBuilder()
	_ = b.Freeze()
	err := capability.Bind[Greeter](b, "Acme", newAcme)
	if !errors.Is(err, capability.ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
}

func TestRegistry_EmptyCapabilityIsValid(t *testing.T) {
	reg := capability.NewBuilder().Freeze()
	if ds := capability.CandidatesOf[Greeter](reg); ds != nil {
		t.Fatalf("expected nil candidates, got %v", ds)
	}
}

func TestRegistry_CapabilityByName(t *testing.T) {
	b := capability.NewBuilder()
	if err := capability.Bind[Greeter](b, "Acme", newAcme); err != nil {
		t.Fatalf("bind: %v", err)
	}
	reg := b.Freeze()

	if _, ok := reg.Capability("Greeter"); !ok {
		t.Fatalf("short name lookup failed")
	}
	if _, ok := reg.Capability("capability_test.Greeter"); !ok {
		t.Fatalf("qualified name lookup failed")
	}
	if _, ok := reg.Capability("Unknown"); ok {
		t.Fatalf("unexpected capability match")
	}
}
