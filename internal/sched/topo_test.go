package sched_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/sched"
	"github.com/inferkit/schedc/internal/testutil"
)

// TestScheduleLinearChain orders a plain dependency chain.
func TestScheduleLinearChain(t *testing.T) {
	g := testutil.Graph(t, 4,
		ir.E(0, 1, "D"),
		ir.E(1, 2, "D"),
		ir.E(2, 3, "D"),
	)

	got, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{0, 1, 2, 3}, got)
}

// TestScheduleLowestIndexFirst breaks ties by statement index.
func TestScheduleLowestIndexFirst(t *testing.T) {
	g := testutil.Graph(t, 5)

	got, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{0, 1, 2, 3, 4}, got)
}

// TestScheduleGroupPromotesMemberEdges keeps a group ahead of a statement
// that depends on one of its members: the member's outgoing edge is promoted
// to the group boundary, so the whole group runs before the dependent.
func TestScheduleGroupPromotesMemberEdges(t *testing.T) {
	g := testutil.Graph(t, 2,
		ir.E(1, 0, "D"),
	)
	grouping := testutil.Grouping(t, g, map[int]int{1: 2})

	got, err := sched.ScheduleWithGroups(g, grouping)
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{1, 0}, got)
}

// TestScheduleNestedGroupsContiguous schedules nested groups as atomic
// blocks at every level.
func TestScheduleNestedGroupsContiguous(t *testing.T) {
	// Statements 1..4 live in group 6; 3,4 also in inner group 5.
	// 0 depends on the inner group via statement 4.
	g := testutil.Graph(t, 5,
		ir.E(4, 0, "D"),
		ir.E(1, 3, "D"),
	)
	grouping := testutil.Grouping(t, g, map[int]int{
		1: 6, 2: 6, 3: 5, 4: 5, 5: 6,
	})

	got, err := sched.ScheduleWithGroups(g, grouping)
	require.NoError(t, err)

	require.True(t, sched.CoversAllStatements(g, got))
	assert.Empty(t, sched.CheckSchedule(g, got, nil))
	assert.True(t, sched.ContiguousGroup(grouping, got, 5))
	assert.True(t, sched.ContiguousGroup(grouping, got, 6))
	// 0 must follow the inner group's statement 4.
	pos := make(map[int]int)
	for i, s := range got {
		pos[s] = i
	}
	assert.Greater(t, pos[0], pos[4])
	assert.Greater(t, pos[3], pos[1])
}

// TestScheduleNoInitEdgesIgnored lets the initial pass run through edges
// whose target may start from an initialized value.
func TestScheduleNoInitEdgesIgnored(t *testing.T) {
	// 0 <-> 1 would be a cycle, but the back edge permits initialization.
	g := testutil.Graph(t, 2,
		ir.E(0, 1, "F"),
		ir.E(1, 0, "FN"),
	)

	got, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{0, 1}, got)
}

// TestScheduleDependencyCycleError reports every member of the cycle.
func TestScheduleDependencyCycleError(t *testing.T) {
	g := testutil.Graph(t, 4,
		ir.E(0, 1, "D"),
		ir.E(1, 2, "D"),
		ir.E(2, 0, "D"),
	)

	_, err := sched.ScheduleWithGroups(g, nil)
	require.Error(t, err)
	require.True(t, sched.IsUnsatisfiable(err))

	var se *sched.ScheduleError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sched.CodeDependencyCycle, se.Code)
	assert.Equal(t, []int{0, 1, 2}, se.Statements)
}

// TestScheduleGroupLevelCycleError expands group members into the diagnosis
// when the cycle only exists at the coarsened level.
func TestScheduleGroupLevelCycleError(t *testing.T) {
	// 0 -> 2 and 3 -> 1 with {0,1} in group 4 and {2,3} in group 5:
	// the groups depend on each other even though no statement cycle exists.
	g := testutil.Graph(t, 4,
		ir.E(0, 2, "D"),
		ir.E(3, 1, "D"),
	)
	grouping := testutil.Grouping(t, g, map[int]int{0: 4, 1: 4, 2: 5, 3: 5})

	_, err := sched.ScheduleWithGroups(g, grouping)
	require.Error(t, err)

	var se *sched.ScheduleError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, sched.CodeDependencyCycle, se.Code)
	assert.Equal(t, []int{0, 1, 2, 3}, se.Statements)
}

// TestScheduleSourceSelector seeds the schedule from approved statements and
// falls back to the rest only when nothing approved is ready.
func TestScheduleSourceSelector(t *testing.T) {
	g := testutil.Graph(t, 3)

	got, err := sched.ScheduleWithGroups(g, nil,
		sched.WithSourceSelector(func(n depgraph.Node) bool {
			return n.Kind == depgraph.NodeStatement && n.ID == 2
		}))
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{2, 0, 1}, got)
}

// TestScheduleDeterministic yields identical schedules across runs.
func TestScheduleDeterministic(t *testing.T) {
	g := testutil.Graph(t, 6,
		ir.E(0, 2, "D"),
		ir.E(0, 3, "D"),
		ir.E(1, 3, "D"),
		ir.E(2, 4, "D"),
		ir.E(3, 4, "D"),
		ir.E(3, 5, "D"),
	)

	first, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := sched.ScheduleWithGroups(g, nil)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
	assert.Empty(t, sched.CheckSchedule(g, first, nil))
}

// TestScheduleCoupledChainsValid schedules the 12-statement reference model
// in one pass.
func TestScheduleCoupledChainsValid(t *testing.T) {
	g := testutil.Graph(t, 12, testutil.CoupledChainsEdges()...)

	got, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	require.Len(t, got, 12)
	assert.True(t, sched.CoversAllStatements(g, got))
	assert.Empty(t, sched.CheckSchedule(g, got, nil))
}

// TestScheduleEmptyGraph handles the zero-statement model.
func TestScheduleEmptyGraph(t *testing.T) {
	g := testutil.Graph(t, 0)

	got, err := sched.ScheduleWithGroups(g, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}
