// Package store provides SQLite-backed durable storage for compiled
// schedule passes.
//
// The store is an append-only log of passes keyed by the content-addressed
// model hash. A recompilation looks up the latest pass for its model hash,
// feeds that schedule to the repair engine, and appends the repaired pass.
//
// # Critical Patterns
//
// CP-1: Pass-Level Idempotency
//   - UNIQUE(pass_id) constraint; duplicate saves are silently ignored
//
// CP-2: Logical Identity and Time
//   - Ordering within a model uses seq INTEGER (logical clock), never
//     timestamps, so history reads are deterministic across replays
//
// CP-3: Deterministic Query Results
//   - History queries ORDER BY seq ASC, pass_id ASC COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Model hashes are computed in internal/ir/hash.go using canonical JSON and
// SHA-256 with domain separation.
package store
