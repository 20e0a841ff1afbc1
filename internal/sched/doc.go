// Package sched linearizes a dependency graph into executable schedules: an
// initial grouped topological pass, and incremental repair of a prior
// schedule against new invalidation state.
//
// ARCHITECTURE:
//
// Deterministic, single-threaded passes:
// Scheduling and repair are bounded graph traversals over inputs they never
// mutate. Identical inputs always produce identical schedules: ties break on
// the lowest statement index or group id, adjacency is pre-sorted, and there
// is no randomness, concurrency, or wall-clock dependence anywhere.
//
// Initial pass (ScheduleWithGroups):
// Source-driven topological order over Dependency-kind edges, honoring group
// contiguity - a group meta-node is scheduled as a unit by recursing into its
// own sub-schedule. NoInit-carrying edges are ignored here: the first pass is
// the initializing execution they exist to permit. Exactly one execution per
// statement; a cycle at this level is fatal (UnsatisfiableSchedule).
//
// Repair pass (RepairSchedule):
// Replays the prior schedule over a simulated execution state. A statement's
// first execution initializes and carries no input obligations; re-executions
// demand computed sources, and unmet demands trigger minimal recursive
// insertion of upstream executions. SkipIfUniform sources that are still
// uncomputed cancel an insertion (the result would be uniform). Fresh cycles
// break through initialization, which yields the characteristic two-pass
// re-execution order. If repair cannot proceed it silently degrades to a
// full initial pass; only genuinely unsatisfiable graphs surface errors.
package sched
