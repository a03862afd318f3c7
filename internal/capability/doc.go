// Package capability implements tenant-scoped dynamic service resolution.
//
// A capability is an interface that several concrete implementations may
// satisfy. Which implementation serves a given request is only known at
// request time, from an opaque tenant key. This package turns that decision
// into a deterministic, startup-checked lookup:
//
//   - Builder: explicit registration table. Each concrete implementation is
//     bound to its capability with Bind, which verifies at registration time
//     that the concrete type satisfies the capability's method set. No
//     assembly scanning, no runtime casts.
//   - Registry: the frozen, immutable result of Freeze(). Candidates keep
//     registration order; the registry is read-only afterwards and needs no
//     locking for concurrent reads.
//   - Resolver: picks the first candidate (registration order) whose display
//     name contains the tenant key as a case-sensitive substring, then asks
//     the request scope to construct it. One failure shape: ErrNotFound.
//
// Architecture:
//   - Strategy: each candidate is one strategy for a capability
//   - Factory: constructors run inside the caller's scope, which owns the
//     instance lifetime
//   - The resolver itself holds no state and performs no logging, retries or
//     fallback; policy belongs to the HTTP layer
//
// The empty tenant key is a documented sharp edge: by substring containment
// it matches the first candidate. WithEmptyKeyPolicy lets the integrator
// choose between that wildcard behavior and rejecting empty keys outright.
package capability
