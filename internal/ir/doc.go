// Package ir provides the shared representation types for the scheduler
// compiler: statements, typed dependency edges, group assignments, schedules,
// and invalidation state.
//
// This package contains type definitions and their serialization only. All
// other internal packages import ir; ir imports nothing internal. This keeps
// ir the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Statements are identified by dense integer indices 0..N-1, never names.
//   - Edge kinds are a bitset on a first-class Edge value, not an attribute
//     bag attached to statements.
//   - All JSON tags use snake_case.
//   - Canonical JSON (MarshalCanonical) is the only serialization used for
//     content-addressed model identity.
package ir
