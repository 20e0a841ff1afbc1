// Package depgraph implements the dependency-graph data model the scheduler
// operates on: an indexed directed graph of statement nodes with typed edges,
// plus the hierarchical grouping (loop plates) layered on top of it.
//
// ARCHITECTURE:
//
// Arena adjacency:
// Edges live in slices indexed by statement index, not in a pointer graph.
// Degree queries are O(1), full traversal is O(E), and the structure is
// rebuilt per compilation, never mutated afterward.
//
// Tagged nodes:
// Scheduling operates over Node values, a tagged union of Statement(index)
// and Group(id). Group ids occupy an id space disjoint from statement
// indices; a collision is rejected at construction. This replaces the
// overlapping integer id space the original design used.
//
// Validation happens at construction. A Graph or Grouping that constructs
// successfully is well formed; scheduling assumes it and does not re-check.
package depgraph
