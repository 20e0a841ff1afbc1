package ir

import (
	"fmt"
	"strings"
)

// GroupNone is the sentinel for "not a member of any group".
const GroupNone = -1

// Statement is one schedulable unit of message-update work. The scheduler
// sees only the index; Name is carried for diagnostics.
type Statement struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

// Edge is a directed, typed dependency: Target consumes the output of
// Source under the obligations described by Kinds.
type Edge struct {
	Source int     `json:"source"`
	Target int     `json:"target"`
	Kinds  KindSet `json:"kinds"`
}

// E is shorthand for constructing an edge from the letter form of its kinds.
// Panics on a malformed kind string; intended for tests and fixtures.
func E(source, target int, kinds string) Edge {
	return Edge{Source: source, Target: target, Kinds: MustKinds(kinds)}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s(%d->%d)", e.Kinds, e.Source, e.Target)
}

// ModelSpec is the front end's description of one compiled model: the
// statement count, the typed dependency edges, and the group assignment.
//
// GroupOf maps a statement index (or a group id, for nested groups) to its
// enclosing group id. Absent entries and GroupNone both mean ungrouped.
// Group ids must not collide with statement indices 0..Statements-1.
type ModelSpec struct {
	Name       string      `json:"name,omitempty"`
	Statements int         `json:"statements"`
	Edges      []Edge      `json:"edges"`
	GroupOf    map[int]int `json:"group_of,omitempty"`
}

// Schedule is an ordered sequence of statement indices; repeats are allowed
// (the same statement may execute multiple times across passes).
type Schedule []int

// Clone returns an independent copy.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	return out
}

// Equal reports element-wise equality.
func (s Schedule) Equal(other Schedule) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// String renders "1,0,7,6,11".
func (s Schedule) String() string {
	parts := make([]string, len(s))
	for i, n := range s {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, ",")
}

// StaleEdge names one (target, source) obligation no longer satisfied by the
// current schedule: the source must re-execute before the target's next
// occurrence.
type StaleEdge struct {
	Target int `json:"target"`
	Source int `json:"source"`
}

// InvalidationState is the delta supplied to one repair call.
type InvalidationState struct {
	// Invalid lists statements whose last computed value must be discarded
	// and recomputed.
	Invalid []int `json:"invalid,omitempty"`

	// Stale lists specific (target, source) obligations broken since the
	// prior schedule was produced.
	Stale []StaleEdge `json:"stale,omitempty"`

	// Initialized lists statements guaranteed to already hold a valid value,
	// exempting their NoInit-qualified incoming edges and satisfying
	// Requirement edges from them.
	Initialized []int `json:"initialized,omitempty"`
}

// IsEmpty reports whether the state carries no invalidation at all.
func (st InvalidationState) IsEmpty() bool {
	return len(st.Invalid) == 0 && len(st.Stale) == 0 && len(st.Initialized) == 0
}
