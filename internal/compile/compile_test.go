package compile

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inferkit/schedc/internal/depgraph"
	"github.com/inferkit/schedc/internal/ir"
	"github.com/inferkit/schedc/internal/sched"
)

func chainSpec() ir.ModelSpec {
	return ir.ModelSpec{
		Name:       "chain",
		Statements: 4,
		Edges: []ir.Edge{
			ir.E(0, 1, "D"),
			ir.E(1, 2, "D"),
			ir.E(2, 3, "D"),
		},
	}
}

func TestCompileProducesSchedule(t *testing.T) {
	res, err := Compile(chainSpec())
	require.NoError(t, err)

	assert.Equal(t, ir.Schedule{0, 1, 2, 3}, res.Schedule)
	assert.False(t, res.Repaired)
	assert.NotEmpty(t, res.ModelHash)
	assert.Equal(t, uuid.Version(7), res.PassID.Version())
}

// TestCompileHashStableAcrossPasses gives two passes over the same spec the
// same model hash but distinct pass ids.
func TestCompileHashStableAcrossPasses(t *testing.T) {
	a, err := Compile(chainSpec())
	require.NoError(t, err)
	b, err := Compile(chainSpec())
	require.NoError(t, err)

	assert.Equal(t, a.ModelHash, b.ModelHash)
	assert.NotEqual(t, a.PassID, b.PassID)
}

func TestCompileRejectsInvalidSpec(t *testing.T) {
	spec := ir.ModelSpec{
		Statements: 2,
		Edges:      []ir.Edge{ir.E(0, 9, "D")},
	}

	_, err := Compile(spec)
	require.Error(t, err)

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, ErrEdgeTargetRange, verrs[0].Code)
}

func TestCompileReportsDependencyCycle(t *testing.T) {
	spec := ir.ModelSpec{
		Statements: 2,
		Edges: []ir.Edge{
			ir.E(0, 1, "D"),
			ir.E(1, 0, "D"),
		},
	}

	_, err := Compile(spec)
	require.Error(t, err)
	assert.True(t, sched.IsUnsatisfiable(err))
}

func TestCompileWithSourceSelector(t *testing.T) {
	spec := ir.ModelSpec{Statements: 3}

	res, err := Compile(spec, sched.WithSourceSelector(func(n depgraph.Node) bool {
		return n.Kind == depgraph.NodeStatement && n.ID == 1
	}))
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{1, 0, 2}, res.Schedule)
}

func TestRecompileRepairsPrior(t *testing.T) {
	spec := ir.ModelSpec{
		Statements: 4,
		Edges: []ir.Edge{
			ir.E(3, 0, "F"),
			ir.E(2, 3, "F"),
			ir.E(1, 2, "F"),
			ir.E(0, 1, "F"),
		},
	}
	prior := ir.Schedule{0, 1, 0, 1, 2, 3}

	res, err := Recompile(spec, prior, ir.InvalidationState{})
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{0, 1, 2, 3, 0, 1, 2, 3}, res.Schedule)
	assert.True(t, res.Repaired)
}

func TestRecompileValidatesSpecFirst(t *testing.T) {
	spec := ir.ModelSpec{Statements: -1}

	_, err := Recompile(spec, nil, ir.InvalidationState{})
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
}

func TestBuildGraphGrouping(t *testing.T) {
	spec := ir.ModelSpec{
		Statements: 2,
		Edges:      []ir.Edge{ir.E(1, 0, "D")},
		GroupOf:    map[int]int{1: 2},
	}

	g, grouping, err := BuildGraph(spec)
	require.NoError(t, err)
	require.NotNil(t, g)
	require.NotNil(t, grouping)

	res, err := Compile(spec)
	require.NoError(t, err)
	assert.Equal(t, ir.Schedule{1, 0}, res.Schedule)
}
