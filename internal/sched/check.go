package sched

import (
	"fmt"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
)

// Violation describes one unmet obligation found by CheckSchedule.
type Violation struct {
	// Position is the offending occurrence's index in the schedule.
	Position int

	// Target is the statement whose obligation is unmet.
	Target int

	// Source is the statement the obligation points at.
	Source int

	// Kinds are the kinds of the violated edge.
	Kinds ir.KindSet
}

func (v Violation) String() string {
	return fmt.Sprintf("position %d: statement %d re-executes before %s source %d",
		v.Position, v.Target, v.Kinds, v.Source)
}

// CheckSchedule verifies a schedule against the graph under the same
// obligation model the repair engine enforces: first executions initialize
// freely; re-executions require every Dependency/Fresh/Requirement source
// computed earlier in the schedule (or initialized), with NoInit edges
// waived at the target's first occurrence and hint-only edges ignored.
//
// Returns the violations in schedule order; an empty slice means valid.
func CheckSchedule(g *depgraph.Graph, schedule ir.Schedule, initialized []int) []Violation {
	n := g.NumStatements()
	computed := make([]bool, n)
	for _, i := range initialized {
		if i >= 0 && i < n {
			computed[i] = true
		}
	}
	occ := make([]int, n)

	var violations []Violation
	for pos, t := range schedule {
		if t < 0 || t >= n {
			violations = append(violations, Violation{Position: pos, Target: t})
			continue
		}
		if occ[t] > 0 {
			for _, e := range g.Incoming(t) {
				if e.Source == t || e.Kinds.IsHintOnly() {
					continue
				}
				if !computed[e.Source] {
					violations = append(violations, Violation{
						Position: pos,
						Target:   t,
						Source:   e.Source,
						Kinds:    e.Kinds,
					})
				}
			}
		}
		computed[t] = true
		occ[t]++
	}
	return violations
}

// CoversAllStatements reports whether every statement index executes at
// least once. Initial schedules must cover the whole graph; repaired
// schedules cover whatever the prior covered plus insertions.
func CoversAllStatements(g *depgraph.Graph, schedule ir.Schedule) bool {
	seen := make([]bool, g.NumStatements())
	for _, t := range schedule {
		if t >= 0 && t < len(seen) {
			seen[t] = true
		}
	}
	for _, ok := range seen {
		if !ok {
			return false
		}
	}
	return true
}

// groupSpans verifies group contiguity is honored: used by tests to assert
// that once a group's first member executes, no non-member executes until
// the group is exhausted.
func groupSpans(grouping *depgraph.Grouping, schedule ir.Schedule, group int) (first, last int) {
	first, last = -1, -1
	for pos, t := range schedule {
		inGroup := false
		for gid := grouping.GroupOf(t); gid != ir.GroupNone; gid = grouping.Parent(gid) {
			if gid == group {
				inGroup = true
				break
			}
		}
		if inGroup {
			if first < 0 {
				first = pos
			}
			last = pos
		}
	}
	return first, last
}

// ContiguousGroup reports whether all executions of a group's statements
// form one contiguous block in the schedule.
func ContiguousGroup(grouping *depgraph.Grouping, schedule ir.Schedule, group int) bool {
	first, last := groupSpans(grouping, schedule, group)
	if first < 0 {
		return true // group never executes, trivially contiguous
	}
	for pos := first; pos <= last; pos++ {
		t := schedule[pos]
		member := false
		for gid := grouping.GroupOf(t); gid != ir.GroupNone; gid = grouping.Parent(gid) {
			if gid == group {
				member = true
				break
			}
		}
		if !member {
			return false
		}
	}
	return true
}
